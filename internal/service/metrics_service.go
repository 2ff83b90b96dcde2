package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/pkg/tracing"
	"context"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type MetricsService struct {
	Progress ProgressStore
}

func NewMetricsService(progress ProgressStore) *MetricsService {
	return &MetricsService{Progress: progress}
}

// GetMetrics 并行读取作答记录和已存储快照后聚合
func (s *MetricsService) GetMetrics(ctx context.Context, studentID, courseID string) (m *PerformanceMetrics, err error) {
	ctx, span := tracing.StartSpan(ctx, "MetricsService.GetMetrics",
		attribute.String("student.id", studentID),
		attribute.String("course.id", courseID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	var (
		progress []model.ModuleInteractionProgress
		prior    *model.LearningMetrics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		progress, err = s.Progress.ListModuleProgress(gctx, studentID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		prior, err = s.Progress.GetMetrics(gctx, studentID, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := CalculateMetrics(progress, prior)
	return &result, nil
}

// Snapshot 供其他引擎使用的 LearningMetrics
func (s *MetricsService) Snapshot(ctx context.Context, studentID, courseID string) (model.LearningMetrics, error) {
	m, err := s.GetMetrics(ctx, studentID, courseID)
	if err != nil {
		return model.LearningMetrics{}, err
	}
	return m.Snapshot(studentID, courseID), nil
}
