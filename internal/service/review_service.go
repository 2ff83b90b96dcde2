package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/util"
	"adaptive_learning_backend/pkg/logger"
	"adaptive_learning_backend/pkg/monitoring"
	"adaptive_learning_backend/pkg/tracing"
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxDueItems = 100

type ReviewService struct {
	Items    ReviewItemStore
	DueLimit int
	now      func() time.Time
}

func NewReviewService(items ReviewItemStore, dueLimit int) *ReviewService {
	if dueLimit <= 0 {
		dueLimit = 20
	}
	return &ReviewService{Items: items, DueLimit: dueLimit, now: time.Now}
}

// ReviewCard 一张待入库的问答卡片
type ReviewCard struct {
	Concept  string `json:"concept" binding:"required"`
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type GenerateResult struct {
	Created []model.ReviewItem `json:"created"`
	Skipped int                `json:"skipped"`
}

// SubmitReview 读取-应用-带版本写入；冲突时重新读取再应用
func (s *ReviewService) SubmitReview(ctx context.Context, studentID, itemID string, quality int, timeSpent float64) (item *model.ReviewItem, err error) {
	if quality < 0 || quality > 5 {
		return nil, util.ErrInvalidQuality
	}

	ctx, span := tracing.StartSpan(ctx, "ReviewService.SubmitReview",
		attribute.String("review_item.id", itemID),
		attribute.Int("review.quality", quality),
	)
	defer func() { tracing.EndSpan(span, err) }()

	err = withVersionRetry(ctx, "review_item", func() error {
		current, err := s.Items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if current.StudentID != studentID {
			return util.ErrPermissionDenied
		}
		if err := UpdateReviewItem(current, quality, timeSpent, s.now()); err != nil {
			return err
		}
		if err := s.Items.UpdateVersioned(ctx, current); err != nil {
			return err
		}
		item = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := "incorrect"
	if quality >= passingQuality {
		outcome = "correct"
	}
	monitoring.ReviewSubmissions.WithLabelValues(outcome).Inc()
	logger.Log.Debug("复习已记录",
		zap.String("itemId", item.ID),
		zap.Int("quality", quality),
		zap.Int("interval", item.Interval),
		zap.Time("nextReviewDate", item.NextReviewDate),
	)
	return item, nil
}

// GetDueItems 今天结束前到期的卡片，最早到期的在前
func (s *ReviewService) GetDueItems(ctx context.Context, studentID, courseID string, limit int) ([]model.ReviewItem, error) {
	if limit <= 0 {
		limit = s.DueLimit
	}
	if limit > maxDueItems {
		limit = maxDueItems
	}
	items, err := s.Items.FindDue(ctx, studentID, courseID, util.EndOfDay(s.now()), limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ReviewItem{}
	}
	return items, nil
}

// GenerateReviewItems 首次遇到的 (module, concept) 才建卡；已存在或并发重复写入时跳过
func (s *ReviewService) GenerateReviewItems(ctx context.Context, studentID, courseID, moduleID string, cards []ReviewCard) (*GenerateResult, error) {
	result := &GenerateResult{Created: []model.ReviewItem{}}
	schedule := NewReviewSchedule(s.now())
	seen := make(map[string]bool, len(cards))

	for _, card := range cards {
		concept := strings.TrimSpace(card.Concept)
		if concept == "" || seen[concept] {
			result.Skipped++
			continue
		}
		seen[concept] = true

		_, err := s.Items.FindByKey(ctx, studentID, moduleID, concept)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, util.ErrReviewItemNotFound) {
			return nil, err
		}

		item := &model.ReviewItem{
			StudentID:      studentID,
			CourseID:       courseID,
			ModuleID:       moduleID,
			ConceptKey:     concept,
			Question:       card.Question,
			Answer:         card.Answer,
			EaseFactor:     schedule.EaseFactor,
			Interval:       schedule.Interval,
			Repetitions:    schedule.Repetitions,
			NextReviewDate: schedule.NextReviewDate,
			Version:        1,
		}
		if err := s.Items.Create(ctx, item); err != nil {
			if repository.IsDuplicateKey(err) {
				logger.Log.Info("复习卡片已被并发创建，跳过",
					zap.String("studentId", studentID),
					zap.String("moduleId", moduleID),
					zap.String("concept", concept),
				)
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Created = append(result.Created, *item)
	}
	return result, nil
}

// Preview 不落库，直接返回排期
func (s *ReviewService) Preview(quality int, easeFactor float64, interval, repetitions int) (ReviewSchedule, error) {
	return NextReview(quality, easeFactor, interval, repetitions, s.now())
}
