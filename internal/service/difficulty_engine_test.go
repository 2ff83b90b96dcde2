package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDifficultyAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.LearningMetrics
		current int
		wantAdj int
		wantNew int
		recs    []string
	}{
		{
			name:    "incorrect streak wins over everything",
			metrics: model.LearningMetrics{Accuracy: 95, RecentTrend: model.TrendImproving, IncorrectStreak: 3},
			current: 5, wantAdj: -2, wantNew: 3,
			recs: []string{RecommendSlowDown, RecommendReview},
		},
		{
			name:    "low accuracy",
			metrics: model.LearningMetrics{Accuracy: 30},
			current: 5, wantAdj: -2, wantNew: 3,
			recs: []string{RecommendSimplify, RecommendExtraExamples},
		},
		{
			name:    "middling accuracy",
			metrics: model.LearningMetrics{Accuracy: 65},
			current: 5, wantAdj: -1, wantNew: 4,
			recs: []string{RecommendExtraExamples},
		},
		{
			name:    "excelling and improving",
			metrics: model.LearningMetrics{Accuracy: 95, RecentTrend: model.TrendImproving},
			current: 5, wantAdj: 2, wantNew: 7,
			recs: []string{RecommendSpeedUp, RecommendChallenge},
		},
		{
			name:    "excelling near the top is clamped",
			metrics: model.LearningMetrics{Accuracy: 95, RecentTrend: model.TrendImproving},
			current: 9, wantAdj: 1, wantNew: 10,
			recs: []string{RecommendSpeedUp, RecommendChallenge},
		},
		{
			name:    "correct streak",
			metrics: model.LearningMetrics{Accuracy: 80, CorrectStreak: 5},
			current: 5, wantAdj: 1, wantNew: 6,
			recs: []string{RecommendChallenge},
		},
		{
			name:    "good but declining",
			metrics: model.LearningMetrics{Accuracy: 80, RecentTrend: model.TrendDeclining},
			current: 5, wantAdj: 0, wantNew: 5,
			recs: []string{RecommendReview},
		},
		{
			name:    "on track",
			metrics: model.LearningMetrics{Accuracy: 75, RecentTrend: model.TrendStable},
			current: 5, wantAdj: 0, wantNew: 5,
			recs: []string{RecommendEncouragement},
		},
		{
			name:    "decrease at the floor",
			metrics: model.LearningMetrics{Accuracy: 10},
			current: 1, wantAdj: 0, wantNew: 1,
			recs: []string{RecommendSimplify, RecommendExtraExamples},
		},
		{
			name:    "out of range current is clamped first",
			metrics: model.LearningMetrics{Accuracy: 10},
			current: 15, wantAdj: -2, wantNew: 8,
			recs: []string{RecommendSimplify, RecommendExtraExamples},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDifficultyAdjustment(tt.metrics, tt.current)
			assert.Equal(t, tt.wantAdj, got.Adjustment)
			assert.Equal(t, tt.wantNew, got.NewDifficulty)
			assert.Equal(t, tt.recs, got.Recommendations)
			assert.NotEmpty(t, got.Reason)
			assert.Equal(t, got.NewDifficulty-got.CurrentDifficulty, got.Adjustment)
		})
	}
}

func TestShouldSkipModule(t *testing.T) {
	excelling := model.LearningMetrics{Accuracy: 92, RecentTrend: model.TrendImproving}

	assert.True(t, ShouldSkipModule(excelling, 3, 5))
	assert.False(t, ShouldSkipModule(excelling, 4, 5))
	assert.False(t, ShouldSkipModule(model.LearningMetrics{Accuracy: 92, RecentTrend: model.TrendStable}, 1, 5))
	assert.False(t, ShouldSkipModule(model.LearningMetrics{Accuracy: 85, RecentTrend: model.TrendImproving}, 1, 5))
}

func TestSelectNextModule(t *testing.T) {
	candidates := []ModuleCandidate{
		{ModuleID: "easy", Difficulty: 2, Order: 1},
		{ModuleID: "below", Difficulty: 4, Order: 2},
		{ModuleID: "above", Difficulty: 6, Order: 3},
		{ModuleID: "done", Difficulty: 5, Order: 4, Completed: true},
	}

	t.Run("struggling prefers easier", func(t *testing.T) {
		sel := SelectNextModule(model.LearningMetrics{Accuracy: 60}, 5, candidates)
		require.NotNil(t, sel.Module)
		assert.Equal(t, "below", sel.Module.ModuleID)
	})

	t.Run("excelling prefers harder and skips easy modules", func(t *testing.T) {
		sel := SelectNextModule(model.LearningMetrics{Accuracy: 95, RecentTrend: model.TrendImproving}, 5, candidates)
		require.NotNil(t, sel.Module)
		assert.Equal(t, "above", sel.Module.ModuleID)
		assert.Equal(t, []string{"easy"}, sel.Skipped)
	})

	t.Run("otherwise course order", func(t *testing.T) {
		sel := SelectNextModule(model.LearningMetrics{Accuracy: 80}, 5, candidates)
		require.NotNil(t, sel.Module)
		assert.Equal(t, "below", sel.Module.ModuleID)
	})

	t.Run("nothing left", func(t *testing.T) {
		sel := SelectNextModule(model.LearningMetrics{}, 5, []ModuleCandidate{{ModuleID: "x", Completed: true}})
		assert.Nil(t, sel.Module)
	})
}

func TestAdaptiveService(t *testing.T) {
	db := testutil.NewDB(t)
	modules := testutil.SeedModules(t, db, "c1", 3, 5, 7)
	testutil.SeedProgress(t, db, "s1", "c1", modules[0].ID, 100, answers("quiz", t0, false, false, false)...)

	progress := newProgressRepo(db)
	svc := NewAdaptiveService(NewMetricsService(progress), progress)

	adj, err := svc.AdjustDifficulty(ctxBG, "s1", "c1", 0)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDifficulty, adj.CurrentDifficulty)
	assert.Equal(t, -2, adj.Adjustment)

	sel, err := svc.RecommendNextModule(ctxBG, "s1", "c1", 4)
	require.NoError(t, err)
	require.NotNil(t, sel.Module)
	// 第一个模块已完成；5 和 7 中 5 更接近 4
	assert.Equal(t, modules[1].ID, sel.Module.ModuleID)
}
