package repository

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ProgressRepository 读取进度存储中的学生状态；作答与活动记录由其他服务写入
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) ListModuleProgress(ctx context.Context, studentID, courseID string) ([]model.ModuleInteractionProgress, error) {
	var progress []model.ModuleInteractionProgress
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("id asc").
		Find(&progress).Error
	return progress, translateError(err, nil)
}

// GetMetrics 没有快照时返回 nil, nil
func (r *ProgressRepository) GetMetrics(ctx context.Context, studentID, courseID string) (*model.LearningMetrics, error) {
	var m model.LearningMetrics
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, nil)
	}
	return &m, nil
}

func (r *ProgressRepository) GetEnrollment(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&e).Error
	if err != nil {
		return nil, translateError(err, util.ErrEnrollmentNotFound)
	}
	return &e, nil
}

func (r *ProgressRepository) ListEnrollments(ctx context.Context, courseID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("course_id = ? AND status = ?", courseID, "active").
		Order("id asc").
		Find(&enrollments).Error
	return enrollments, translateError(err, nil)
}

// RecentActivity 最近 days 条活动记录，按日期升序
func (r *ProgressRepository) RecentActivity(ctx context.Context, studentID, courseID string, days int) ([]model.DailyActivity, error) {
	var activity []model.DailyActivity
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("date desc").
		Limit(days).
		Find(&activity).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	for i, j := 0, len(activity)-1; i < j; i, j = i+1, j-1 {
		activity[i], activity[j] = activity[j], activity[i]
	}
	return activity, nil
}

func (r *ProgressRepository) AssessmentScores(ctx context.Context, studentID, courseID string) ([]float64, error) {
	var scores []float64
	err := r.DB.WithContext(ctx).
		Model(&model.AssessmentScore{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("taken_at asc").
		Pluck("score", &scores).Error
	return scores, translateError(err, nil)
}

// CourseAverages 课程不存在时返回零值
func (r *ProgressRepository) CourseAverages(ctx context.Context, courseID string) (model.CourseAverages, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).Where("id = ?", courseID).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CourseAverages{}, nil
	}
	if err != nil {
		return model.CourseAverages{}, translateError(err, nil)
	}
	return model.CourseAverages{
		ExpectedMinutesPerModule: course.ExpectedMinutesPerModule,
		AverageAccuracy:          course.AverageAccuracy,
	}, nil
}

func (r *ProgressRepository) ListCourseModules(ctx context.Context, courseID string) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order asc, id asc").
		Find(&modules).Error
	return modules, translateError(err, nil)
}
