package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/pkg/logger"
	"adaptive_learning_backend/pkg/monitoring"
	"adaptive_learning_backend/pkg/tracing"
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type StruggleService struct {
	Buffer       repository.EventBuffer
	Metrics      *MetricsService
	ExpectedTime float64
}

func NewStruggleService(buffer repository.EventBuffer, metrics *MetricsService, expectedTime float64) *StruggleService {
	if expectedTime <= 0 {
		expectedTime = DefaultExpectedTime
	}
	return &StruggleService{Buffer: buffer, Metrics: metrics, ExpectedTime: expectedTime}
}

// 会话按学生隔离，避免不同学生使用相同 sessionID 时互相读取
func bufferKey(studentID, sessionID string) string {
	return fmt.Sprintf("%s:%s", studentID, sessionID)
}

func (s *StruggleService) RecordEvents(ctx context.Context, studentID, sessionID string, events []model.InteractionEvent) error {
	return s.Buffer.Append(ctx, bufferKey(studentID, sessionID), events...)
}

func (s *StruggleService) Events(ctx context.Context, studentID, sessionID string) ([]model.InteractionEvent, error) {
	events, err := s.Buffer.Events(ctx, bufferKey(studentID, sessionID))
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.InteractionEvent{}
	}
	return events, nil
}

func (s *StruggleService) Clear(ctx context.Context, studentID, sessionID string) error {
	return s.Buffer.Clear(ctx, bufferKey(studentID, sessionID))
}

// Analyze courseID 为空时使用不含评分作答的默认快照，依赖正确率的检测会被跳过
func (s *StruggleService) Analyze(ctx context.Context, studentID, courseID, sessionID string, expectedTime float64) (result *model.StruggleDetectionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "StruggleService.Analyze",
		attribute.String("student.id", studentID),
		attribute.String("session.id", sessionID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	events, err := s.Buffer.Events(ctx, bufferKey(studentID, sessionID))
	if err != nil {
		return nil, err
	}

	snapshot := model.LearningMetrics{
		StudentID:       studentID,
		RecentTrend:     model.TrendStable,
		DifficultyLevel: model.DefaultDifficulty,
	}
	if courseID != "" {
		if snapshot, err = s.Metrics.Snapshot(ctx, studentID, courseID); err != nil {
			return nil, err
		}
	}
	if expectedTime <= 0 {
		expectedTime = s.ExpectedTime
	}

	r := NewStruggleSession(events...).Analyze(snapshot, expectedTime)
	monitoring.StruggleDetections.WithLabelValues(string(r.OverallSeverity)).Inc()
	if r.IsStruggling {
		logger.Log.Info("检测到学习困难",
			zap.String("studentId", studentID),
			zap.String("sessionId", sessionID),
			zap.String("severity", string(r.OverallSeverity)),
			zap.Int("indicators", len(r.Indicators)),
		)
	}
	return &r, nil
}
