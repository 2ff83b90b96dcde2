package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/util"
	"context"
	"errors"
	"time"

	"adaptive_learning_backend/pkg/logger"
	"adaptive_learning_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ProgressStore 进度存储的只读视图
type ProgressStore interface {
	ListModuleProgress(ctx context.Context, studentID, courseID string) ([]model.ModuleInteractionProgress, error)
	GetMetrics(ctx context.Context, studentID, courseID string) (*model.LearningMetrics, error)
	GetEnrollment(ctx context.Context, studentID, courseID string) (*model.Enrollment, error)
	ListEnrollments(ctx context.Context, courseID string) ([]model.Enrollment, error)
	RecentActivity(ctx context.Context, studentID, courseID string, days int) ([]model.DailyActivity, error)
	AssessmentScores(ctx context.Context, studentID, courseID string) ([]float64, error)
	CourseAverages(ctx context.Context, courseID string) (model.CourseAverages, error)
	ListCourseModules(ctx context.Context, courseID string) ([]model.CourseModule, error)
}

type ReviewItemStore interface {
	Create(ctx context.Context, item *model.ReviewItem) error
	FindByID(ctx context.Context, id string) (*model.ReviewItem, error)
	FindByKey(ctx context.Context, studentID, moduleID, conceptKey string) (*model.ReviewItem, error)
	FindDue(ctx context.Context, studentID, courseID string, before time.Time, limit int) ([]model.ReviewItem, error)
	UpdateVersioned(ctx context.Context, item *model.ReviewItem) error
}

type LearningPathStore interface {
	GetCoursePath(ctx context.Context, courseID string) (*model.CourseLearningPath, error)
	UpsertCoursePath(ctx context.Context, p *model.CourseLearningPath) (*model.CourseLearningPath, error)
	GetStudentPath(ctx context.Context, studentID, courseID string) (*model.StudentLearningPath, error)
	CreateStudentPath(ctx context.Context, p *model.StudentLearningPath) error
	UpdateStudentPathVersioned(ctx context.Context, p *model.StudentLearningPath) error
}

var (
	_ ProgressStore     = (*repository.ProgressRepository)(nil)
	_ ReviewItemStore   = (*repository.ReviewItemRepository)(nil)
	_ LearningPathStore = (*repository.LearningPathRepository)(nil)
)

// maxVersionAttempts 乐观锁冲突时最多尝试的次数（含第一次）
const maxVersionAttempts = 3

// withVersionRetry 每次尝试都应重新读取记录；超过次数返回 util.ErrVersionConflict
func withVersionRetry(ctx context.Context, record string, attempt func() error) error {
	for i := 1; i <= maxVersionAttempts; i++ {
		err := attempt()
		if !errors.Is(err, util.ErrVersionConflict) {
			return err
		}
		monitoring.VersionConflicts.WithLabelValues(record).Inc()
		logger.Log.Warn("乐观锁冲突，重新读取后重试",
			zap.String("record", record),
			zap.Int("attempt", i),
		)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return util.ErrVersionConflict
}
