package repository

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/util"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) GetCoursePath(ctx context.Context, courseID string) (*model.CourseLearningPath, error) {
	var p model.CourseLearningPath
	if err := r.DB.WithContext(ctx).Where("course_id = ?", courseID).First(&p).Error; err != nil {
		return nil, translateError(err, util.ErrLearningPathNotFound)
	}
	return &p, nil
}

// UpsertCoursePath 按 course_id 覆盖节点与分支，版本号自增
func (r *LearningPathRepository) UpsertCoursePath(ctx context.Context, p *model.CourseLearningPath) (*model.CourseLearningPath, error) {
	if p.Version == 0 {
		p.Version = 1
	}
	updates := append(
		clause.AssignmentColumns([]string{"nodes", "branches", "updated_at"}),
		clause.Assignment{Column: clause.Column{Name: "version"}, Value: gorm.Expr("version + 1")},
	)
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}},
		DoUpdates: updates,
	}).Create(p).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return r.GetCoursePath(ctx, p.CourseID)
}

func (r *LearningPathRepository) GetStudentPath(ctx context.Context, studentID, courseID string) (*model.StudentLearningPath, error) {
	var p model.StudentLearningPath
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&p).Error
	if err != nil {
		return nil, translateError(err, util.ErrLearningPathNotFound)
	}
	return &p, nil
}

// CreateStudentPath 唯一键冲突时返回 gorm.ErrDuplicatedKey
func (r *LearningPathRepository) CreateStudentPath(ctx context.Context, p *model.StudentLearningPath) error {
	if p.Version == 0 {
		p.Version = 1
	}
	return translateError(r.DB.WithContext(ctx).Create(p).Error, nil)
}

func (r *LearningPathRepository) UpdateStudentPathVersioned(ctx context.Context, p *model.StudentLearningPath) error {
	// serializer:json 字段需要经过 gorm 的序列化，这里用 Select + struct 更新
	result := r.DB.WithContext(ctx).
		Model(&model.StudentLearningPath{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Select("current_node_id", "completed_nodes", "skipped_nodes", "branch_history", "version", "updated_at").
		Updates(&model.StudentLearningPath{
			CurrentNodeID:  p.CurrentNodeID,
			CompletedNodes: p.CompletedNodes,
			SkippedNodes:   p.SkippedNodes,
			BranchHistory:  p.BranchHistory,
			Version:        p.Version + 1,
		})
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return util.ErrVersionConflict
	}
	p.Version++
	return nil
}
