package app

import (
	"adaptive_learning_backend/internal/config"
	"adaptive_learning_backend/internal/controller"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/pkg/configwatcher"
	"adaptive_learning_backend/pkg/database"
	"adaptive_learning_backend/pkg/logger"
	"adaptive_learning_backend/pkg/monitoring"
	"adaptive_learning_backend/pkg/security"
	"adaptive_learning_backend/pkg/tracing"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	ConfigPath string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client

	services  *services
	scheduler *Scheduler
	tracer    *sdktrace.TracerProvider
	watcher   *configwatcher.Watcher
}

type repositories struct {
	progress     *repository.ProgressRepository
	reviewItem   *repository.ReviewItemRepository
	learningPath *repository.LearningPathRepository
	eventBuffer  repository.EventBuffer
	memoryBuffer *repository.MemoryEventBuffer // 未启用 Redis 时需要定期清理
}

type services struct {
	metrics      *service.MetricsService
	review       *service.ReviewService
	adaptive     *service.AdaptiveService
	struggle     *service.StruggleService
	risk         *service.RiskService
	learningPath *service.LearningPathService
}

type controllers struct {
	review       *controller.ReviewController
	adaptive     *controller.AdaptiveController
	struggle     *controller.StruggleController
	risk         *controller.RiskController
	learningPath *controller.LearningPathController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	repos := &repositories{
		progress:     repository.NewProgressRepository(db),
		reviewItem:   repository.NewReviewItemRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
	}

	ttl := cfg.Adaptive.StruggleSessionTTL
	if rdb != nil {
		repos.eventBuffer = repository.NewRedisEventBuffer(rdb, ttl)
	} else {
		repos.memoryBuffer = repository.NewMemoryEventBuffer(ttl)
		repos.eventBuffer = repos.memoryBuffer
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.metrics = service.NewMetricsService(repos.progress)
	s.review = service.NewReviewService(repos.reviewItem, cfg.Adaptive.DueItemsLimit)
	s.adaptive = service.NewAdaptiveService(s.metrics, repos.progress)
	s.struggle = service.NewStruggleService(repos.eventBuffer, s.metrics, cfg.Adaptive.ExpectedInteractionSeconds)
	s.risk = service.NewRiskService(repos.progress, s.metrics, cfg.Adaptive.SweepConcurrency)
	s.learningPath = service.NewLearningPathService(repos.learningPath, repos.progress, s.metrics)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		review:       controller.NewReviewController(s.review),
		adaptive:     controller.NewAdaptiveController(s.metrics, s.adaptive),
		struggle:     controller.NewStruggleController(s.struggle),
		risk:         controller.NewRiskController(s.risk),
		learningPath: controller.NewLearningPathController(s.learningPath),
		health:       controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerConfigCallbacks 日志级别与风险巡检设置支持热更新
func (a *App) registerConfigCallbacks() {
	a.watcher.OnReload(func(cfg *config.Config) {
		logger.SetLevel(cfg.Server.Mode)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})
	a.watcher.OnReload(func(cfg *config.Config) {
		a.scheduler.UpdateSweep(cfg.Adaptive.RiskSweepEnabled, cfg.Adaptive.RiskSweepCourses)
	})
}

// NewApp configPath 为 config.yaml 的完整路径
func NewApp(cfg *config.Config, configPath string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式下只有显式要求时才迁移
	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config:     cfg,
		ConfigPath: configPath,
		DB:         db,
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	repos := app.initRepositories(db, app.Redis, cfg)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("adaptive-learning-engine", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.scheduler = NewScheduler(app.services.risk, repos.memoryBuffer, cfg.Adaptive)
	app.watcher = configwatcher.New(configPath)
	app.registerConfigCallbacks()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := a.scheduler.Start(ctx); err != nil {
		logger.Log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	go func() {
		if err := a.watcher.Run(ctx); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err), zap.String("path", filepath.Clean(a.ConfigPath)))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	stop()
	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
