package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/util"
	"math"
	"time"
)

const passingQuality = 3

// ReviewSchedule SM-2 一次复习后的排期结果
type ReviewSchedule struct {
	EaseFactor     float64   `json:"easeFactor"`
	Interval       int       `json:"interval"`
	Repetitions    int       `json:"repetitions"`
	NextReviewDate time.Time `json:"nextReviewDate"`
}

// NewReviewSchedule 新卡片的初始排期，当天即可复习
func NewReviewSchedule(now time.Time) ReviewSchedule {
	return ReviewSchedule{
		EaseFactor:     model.DefaultEaseFactor,
		NextReviewDate: util.StartOfDay(now),
	}
}

// NextReview 根据回忆质量 (0-5) 计算下一次复习
func NextReview(quality int, easeFactor float64, interval, repetitions int, now time.Time) (ReviewSchedule, error) {
	if quality < 0 || quality > 5 {
		return ReviewSchedule{}, util.ErrInvalidQuality
	}
	if easeFactor <= 0 {
		easeFactor = model.DefaultEaseFactor
	}
	easeFactor = math.Max(easeFactor, model.MinEaseFactor)
	if interval < 0 {
		interval = 0
	}
	if repetitions < 0 {
		repetitions = 0
	}

	s := ReviewSchedule{EaseFactor: easeFactor}
	if quality < passingQuality {
		// 回忆失败：重置进度，EF 不变
		s.Interval = 0
		s.Repetitions = 0
	} else {
		q := float64(5 - quality)
		s.EaseFactor = math.Max(model.MinEaseFactor, easeFactor+(0.1-q*(0.08+q*0.02)))
		s.Repetitions = repetitions + 1
		switch s.Repetitions {
		case 1:
			s.Interval = 1
		case 2:
			s.Interval = 6
		default:
			s.Interval = int(math.Round(float64(interval) * s.EaseFactor))
			if s.Interval < 1 {
				s.Interval = 1
			}
		}
	}

	s.NextReviewDate = util.StartOfDay(now).AddDate(0, 0, s.Interval)
	return s, nil
}

// UpdateReviewItem 把一次复习结果应用到卡片上
func UpdateReviewItem(item *model.ReviewItem, quality int, timeSpent float64, now time.Time) error {
	s, err := NextReview(quality, item.EaseFactor, item.Interval, item.Repetitions, now)
	if err != nil {
		return err
	}

	item.EaseFactor = s.EaseFactor
	item.Interval = s.Interval
	item.Repetitions = s.Repetitions
	item.NextReviewDate = s.NextReviewDate
	if quality >= passingQuality {
		item.CorrectCount++
	} else {
		item.IncorrectCount++
	}
	if timeSpent > 0 {
		item.TotalTimeSpent += timeSpent
	}
	reviewedAt := now
	item.LastReviewDate = &reviewedAt
	return nil
}
