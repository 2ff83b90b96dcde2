package repository

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/util"
	"context"
	"time"

	"gorm.io/gorm"
)

type ReviewItemRepository struct {
	DB *gorm.DB
}

func NewReviewItemRepository(db *gorm.DB) *ReviewItemRepository {
	return &ReviewItemRepository{DB: db}
}

// Create 唯一键冲突时返回 gorm.ErrDuplicatedKey
func (r *ReviewItemRepository) Create(ctx context.Context, item *model.ReviewItem) error {
	if item.Version == 0 {
		item.Version = 1
	}
	return translateError(r.DB.WithContext(ctx).Create(item).Error, nil)
}

func (r *ReviewItemRepository) FindByID(ctx context.Context, id string) (*model.ReviewItem, error) {
	var item model.ReviewItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translateError(err, util.ErrReviewItemNotFound)
	}
	return &item, nil
}

func (r *ReviewItemRepository) FindByKey(ctx context.Context, studentID, moduleID, conceptKey string) (*model.ReviewItem, error) {
	var item model.ReviewItem
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND module_id = ? AND concept_key = ?", studentID, moduleID, conceptKey).
		First(&item).Error
	if err != nil {
		return nil, translateError(err, util.ErrReviewItemNotFound)
	}
	return &item, nil
}

// FindDue 返回 NextReviewDate <= before 的卡片，最早到期的在前；courseID 为空时不过滤课程
func (r *ReviewItemRepository) FindDue(ctx context.Context, studentID, courseID string, before time.Time, limit int) ([]model.ReviewItem, error) {
	query := r.DB.WithContext(ctx).
		Where("student_id = ? AND next_review_date <= ?", studentID, before)
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []model.ReviewItem
	err := query.Order("next_review_date asc, id asc").Find(&items).Error
	return items, translateError(err, nil)
}

// UpdateVersioned 仅当数据库中的版本与 item.Version 一致时写入，成功后 item.Version 自增
func (r *ReviewItemRepository) UpdateVersioned(ctx context.Context, item *model.ReviewItem) error {
	result := r.DB.WithContext(ctx).
		Model(&model.ReviewItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Updates(map[string]interface{}{
			"ease_factor":      item.EaseFactor,
			"interval_days":    item.Interval,
			"repetitions":      item.Repetitions,
			"next_review_date": item.NextReviewDate,
			"last_review_date": item.LastReviewDate,
			"correct_count":    item.CorrectCount,
			"incorrect_count":  item.IncorrectCount,
			"total_time_spent": item.TotalTimeSpent,
			"version":          item.Version + 1,
		})
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return util.ErrVersionConflict
	}
	item.Version++
	return nil
}
