package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/pkg/logger"
	"adaptive_learning_backend/pkg/tracing"
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AdaptiveService struct {
	Metrics  *MetricsService
	Progress ProgressStore
}

func NewAdaptiveService(metrics *MetricsService, progress ProgressStore) *AdaptiveService {
	return &AdaptiveService{Metrics: metrics, Progress: progress}
}

// AdjustDifficulty current 为 0 时使用快照中的难度等级
func (s *AdaptiveService) AdjustDifficulty(ctx context.Context, studentID, courseID string, current int) (adj *DifficultyAdjustment, err error) {
	ctx, span := tracing.StartSpan(ctx, "AdaptiveService.AdjustDifficulty",
		attribute.String("student.id", studentID),
		attribute.String("course.id", courseID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	snapshot, err := s.Metrics.Snapshot(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if current == 0 {
		current = snapshot.DifficultyLevel
	}

	result := CalculateDifficultyAdjustment(snapshot, current)
	if result.Adjustment != 0 {
		logger.Log.Info("难度调整",
			zap.String("studentId", studentID),
			zap.String("courseId", courseID),
			zap.Int("from", result.CurrentDifficulty),
			zap.Int("to", result.NewDifficulty),
			zap.String("reason", result.Reason),
		)
	}
	return &result, nil
}

// RecommendNextModule 结合课程模块和学生进度推荐下一个模块
func (s *AdaptiveService) RecommendNextModule(ctx context.Context, studentID, courseID string, current int) (sel *NextModuleSelection, err error) {
	ctx, span := tracing.StartSpan(ctx, "AdaptiveService.RecommendNextModule",
		attribute.String("student.id", studentID),
		attribute.String("course.id", courseID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	var (
		modules  []model.CourseModule
		progress []model.ModuleInteractionProgress
		snapshot model.LearningMetrics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		modules, err = s.Progress.ListCourseModules(gctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.Progress.ListModuleProgress(gctx, studentID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot, err = s.Metrics.Snapshot(gctx, studentID, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if current == 0 {
		current = snapshot.DifficultyLevel
	}

	completed := make(map[string]bool, len(progress))
	for _, p := range progress {
		if p.PercentComplete >= 100 {
			completed[p.ModuleID] = true
		}
	}
	candidates := make([]ModuleCandidate, 0, len(modules))
	for _, m := range modules {
		candidates = append(candidates, ModuleCandidate{
			ModuleID:   m.ID,
			Title:      m.Title,
			Difficulty: m.Difficulty,
			Order:      m.Order,
			Completed:  completed[m.ID],
		})
	}

	result := SelectNextModule(snapshot, current, candidates)
	return &result, nil
}
