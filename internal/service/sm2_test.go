package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewNow = time.Date(2024, 6, 3, 17, 45, 0, 0, time.UTC)

func TestNextReview_FailedRecallResets(t *testing.T) {
	for q := 0; q < 3; q++ {
		for _, tc := range []struct {
			ef       float64
			interval int
			reps     int
		}{{2.5, 0, 0}, {1.3, 15, 4}, {2.9, 120, 9}} {
			s, err := NextReview(q, tc.ef, tc.interval, tc.reps, reviewNow)
			require.NoError(t, err)
			assert.Equal(t, 0, s.Repetitions)
			assert.Equal(t, 0, s.Interval)
			assert.Equal(t, tc.ef, s.EaseFactor)
			assert.Equal(t, util.StartOfDay(reviewNow), s.NextReviewDate)
		}
	}
}

func TestNextReview_Progression(t *testing.T) {
	s, err := NextReview(3, model.DefaultEaseFactor, 0, 0, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Repetitions)
	assert.Equal(t, 1, s.Interval)
	assert.InDelta(t, 2.36, s.EaseFactor, 1e-9)
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), s.NextReviewDate)

	s, err = NextReview(4, model.DefaultEaseFactor, 1, 1, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Repetitions)
	assert.Equal(t, 6, s.Interval)
	assert.InDelta(t, 2.5, s.EaseFactor, 1e-9)

	s, err = NextReview(5, model.DefaultEaseFactor, 6, 2, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Repetitions)
	assert.InDelta(t, 2.6, s.EaseFactor, 1e-9)
	assert.Equal(t, 16, s.Interval)
}

func TestNextReview_EaseFactorFloor(t *testing.T) {
	ef := model.MinEaseFactor
	interval, reps := 0, 0
	for i := 0; i < 20; i++ {
		s, err := NextReview(3, ef, interval, reps, reviewNow)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.EaseFactor, model.MinEaseFactor)
		ef, interval, reps = s.EaseFactor, s.Interval, s.Repetitions
	}

	s, err := NextReview(0, 0.9, 0, 0, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, model.MinEaseFactor, s.EaseFactor)
}

func TestNextReview_MonotonicIntervals(t *testing.T) {
	qualities := []int{4, 4, 5, 5, 5, 5}
	ef, interval, reps := model.DefaultEaseFactor, 0, 0
	prev := 0
	for _, q := range qualities {
		s, err := NextReview(q, ef, interval, reps, reviewNow)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.Interval, prev)
		prev = s.Interval
		ef, interval, reps = s.EaseFactor, s.Interval, s.Repetitions
	}
}

func TestNextReview_InvalidQuality(t *testing.T) {
	for _, q := range []int{-1, 6, 42} {
		_, err := NextReview(q, model.DefaultEaseFactor, 0, 0, reviewNow)
		assert.ErrorIs(t, err, util.ErrInvalidQuality)
	}
}

func TestUpdateReviewItem(t *testing.T) {
	item := &model.ReviewItem{EaseFactor: model.DefaultEaseFactor}

	require.NoError(t, UpdateReviewItem(item, 5, 12, reviewNow))
	assert.Equal(t, 1, item.CorrectCount)
	assert.Equal(t, 1, item.Repetitions)
	assert.Equal(t, 12.0, item.TotalTimeSpent)
	require.NotNil(t, item.LastReviewDate)
	assert.Equal(t, reviewNow, *item.LastReviewDate)

	require.NoError(t, UpdateReviewItem(item, 1, 8, reviewNow))
	assert.Equal(t, 1, item.IncorrectCount)
	assert.Equal(t, 0, item.Repetitions)
	assert.Equal(t, 0, item.Interval)
	assert.Equal(t, 20.0, item.TotalTimeSpent)

	assert.ErrorIs(t, UpdateReviewItem(item, 9, 0, reviewNow), util.ErrInvalidQuality)
	assert.Equal(t, 1, item.IncorrectCount)
}
