package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/pkg/logger"
	"adaptive_learning_backend/pkg/monitoring"
	"adaptive_learning_backend/pkg/tracing"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type RiskService struct {
	Progress    ProgressStore
	Metrics     *MetricsService
	Concurrency int
	now         func() time.Time
}

func NewRiskService(progress ProgressStore, metrics *MetricsService, concurrency int) *RiskService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RiskService{Progress: progress, Metrics: metrics, Concurrency: concurrency, now: time.Now}
}

type RiskAssessment struct {
	Prediction   model.PredictionModel      `json:"prediction"`
	Intervention model.InterventionDecision `json:"intervention"`
}

type SweepReport struct {
	CourseID      string           `json:"courseId"`
	Evaluated     int              `json:"evaluated"`
	Failed        int              `json:"failed"`
	Interventions []RiskAssessment `json:"interventions"`
}

// Predict 并行加载报名信息、活动记录、测验成绩、指标与课程平均值
func (s *RiskService) Predict(ctx context.Context, studentID, courseID string) (ra *RiskAssessment, err error) {
	ctx, span := tracing.StartSpan(ctx, "RiskService.Predict",
		attribute.String("student.id", studentID),
		attribute.String("course.id", courseID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	var (
		enrollment *model.Enrollment
		activity   []model.DailyActivity
		scores     []float64
		snapshot   model.LearningMetrics
		averages   model.CourseAverages
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		enrollment, err = s.Progress.GetEnrollment(gctx, studentID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		activity, err = s.Progress.RecentActivity(gctx, studentID, courseID, activityWindowDays)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = s.Progress.AssessmentScores(gctx, studentID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot, err = s.Metrics.Snapshot(gctx, studentID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		averages, err = s.Progress.CourseAverages(gctx, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prediction := PredictRisk(RiskInput{
		Progress: model.StudentProgressSnapshot{
			StudentID:        studentID,
			CourseID:         courseID,
			LastAccessedAt:   enrollment.LastAccessedAt,
			EnrolledAt:       enrollment.EnrolledAt,
			CompletedModules: enrollment.CompletedModules,
			AssessmentScores: scores,
			Metrics:          snapshot,
		},
		Activity: activity,
		Averages: averages,
		Now:      s.now(),
	})
	decision := ShouldTriggerIntervention(prediction.RiskScore, prediction.ConfidenceScore)

	monitoring.RiskScores.WithLabelValues(string(prediction.PredictedOutcome)).Observe(prediction.RiskScore)
	if decision.Trigger {
		monitoring.InterventionsTriggered.WithLabelValues(string(decision.Urgency)).Inc()
	}
	return &RiskAssessment{Prediction: prediction, Intervention: decision}, nil
}

// SweepCourse 并发评估课程内全部在读学生，单个学生失败只计数不中断
func (s *RiskService) SweepCourse(ctx context.Context, courseID string) (*SweepReport, error) {
	enrollments, err := s.Progress.ListEnrollments(ctx, courseID)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{CourseID: courseID, Interventions: []RiskAssessment{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for _, e := range enrollments {
		studentID := e.StudentID
		g.Go(func() error {
			ra, err := s.Predict(gctx, studentID, courseID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				report.Failed++
				logger.Log.Warn("风险评估失败",
					zap.String("studentId", studentID),
					zap.String("courseId", courseID),
					zap.Error(err),
				)
				return nil
			}
			report.Evaluated++
			if ra.Intervention.Trigger {
				report.Interventions = append(report.Interventions, *ra)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(report.Interventions, func(i, j int) bool {
		return report.Interventions[i].Prediction.RiskScore > report.Interventions[j].Prediction.RiskScore
	})
	logger.Log.Info("课程风险巡检完成",
		zap.String("courseId", courseID),
		zap.Int("evaluated", report.Evaluated),
		zap.Int("failed", report.Failed),
		zap.Int("interventions", len(report.Interventions)),
	)
	return report, nil
}

// SweepCourses 定时任务入口，逐门课程巡检
func (s *RiskService) SweepCourses(ctx context.Context, courseIDs []string) {
	for _, id := range courseIDs {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.SweepCourse(ctx, id); err != nil {
			logger.Log.Error("课程风险巡检失败", zap.String("courseId", id), zap.Error(err))
		}
	}
}
