package app

import (
	"adaptive_learning_backend/internal/config"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/pkg/logger"
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const bufferSweepMinutes = 10

// RiskSweeper 定时巡检使用的风险服务视图
type RiskSweeper interface {
	SweepCourses(ctx context.Context, courseIDs []string)
}

// Scheduler 后台定时任务：每日风险巡检与内存事件缓冲清理
type Scheduler struct {
	scheduler *gocron.Scheduler
	risk      RiskSweeper
	buffer    *repository.MemoryEventBuffer
	sweepAt   string

	mu      sync.Mutex
	enabled bool
	courses []string
	ctx     context.Context
}

// NewScheduler buffer 为 nil 表示事件存放在 Redis，由 TTL 负责过期
func NewScheduler(risk RiskSweeper, buffer *repository.MemoryEventBuffer, cfg config.AdaptiveConfig) *Scheduler {
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		risk:      risk,
		buffer:    buffer,
		sweepAt:   cfg.RiskSweepAt,
		ctx:       context.Background(),
	}
	s.UpdateSweep(cfg.RiskSweepEnabled, cfg.RiskSweepCourses)
	return s
}

// Start 注册任务并异步运行；ctx 结束时进行中的巡检会被取消
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if _, err := s.scheduler.Every(1).Day().At(s.sweepAt).Do(s.runRiskSweep); err != nil {
		return err
	}
	if s.buffer != nil {
		if _, err := s.scheduler.Every(bufferSweepMinutes).Minutes().Do(s.sweepBuffer); err != nil {
			return err
		}
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// UpdateSweep 配置热更新时调用，下一次巡检生效
func (s *Scheduler) UpdateSweep(enabled bool, courses []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	s.courses = append([]string(nil), courses...)
}

func (s *Scheduler) runRiskSweep() {
	s.mu.Lock()
	enabled, courses, ctx := s.enabled, s.courses, s.ctx
	s.mu.Unlock()

	if !enabled || len(courses) == 0 {
		return
	}
	start := time.Now()
	s.risk.SweepCourses(ctx, courses)
	logger.Log.Info("每日风险巡检结束",
		zap.Int("courses", len(courses)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Scheduler) sweepBuffer() {
	if removed := s.buffer.Sweep(); removed > 0 {
		logger.Log.Debug("清理过期会话", zap.Int("removed", removed))
	}
}

var _ RiskSweeper = (*service.RiskService)(nil)
