package app

import (
	"adaptive_learning_backend/docs"
	"adaptive_learning_backend/internal/config"
	"adaptive_learning_backend/internal/middleware"
	"adaptive_learning_backend/internal/util"
	"adaptive_learning_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		// 学生接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	courses := rg.Group("/courses/:courseId")
	{
		// 指标与难度
		courses.GET("/metrics", c.adaptive.GetMetrics)
		courses.POST("/difficulty", c.adaptive.AdjustDifficulty)
		courses.GET("/next-module", c.adaptive.RecommendNextModule)

		// 风险预测
		courses.GET("/risk", c.risk.Predict)

		// 学习路径
		courses.GET("/path", c.learningPath.GetPath)
		courses.POST("/path/evaluate", c.learningPath.Evaluate)
		courses.POST("/path/nodes/:nodeId/complete", c.learningPath.CompleteNode)
	}

	reviews := rg.Group("/reviews")
	{
		reviews.GET("/due", c.review.GetDueItems)
		reviews.POST("/:id/submit", c.review.SubmitReview)
		reviews.POST("/generate", c.review.GenerateReviewItems)
		reviews.POST("/preview", c.review.Preview)
	}

	struggle := rg.Group("/struggle/sessions/:sessionId")
	{
		struggle.POST("/events", c.struggle.RecordEvents)
		struggle.GET("/events", c.struggle.GetEvents)
		struggle.POST("/analyze", c.struggle.Analyze)
		struggle.DELETE("", c.struggle.ClearSession)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(util.RoleTeacher))
	{
		teacher.POST("/courses/:courseId/path/generate", c.learningPath.GenerateCoursePath)
		teacher.POST("/courses/:courseId/risk/sweep", c.risk.SweepCourse)
	}
}
