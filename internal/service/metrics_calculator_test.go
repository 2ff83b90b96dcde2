package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func answers(kind string, start time.Time, results ...bool) []model.InteractionResponse {
	out := make([]model.InteractionResponse, len(results))
	for i, ok := range results {
		out[i] = testutil.Graded(kind, ok, start.Add(time.Duration(i)*time.Minute))
	}
	return out
}

func repeat(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCalculateMetrics_Empty(t *testing.T) {
	m := CalculateMetrics(nil, nil)

	assert.Zero(t, m.Accuracy)
	assert.Zero(t, m.CompletionRate)
	assert.Zero(t, m.AverageScore)
	assert.Equal(t, model.TrendStable, m.RecentTrend)
	assert.Equal(t, model.DefaultDifficulty, m.DifficultyLevel)
	assert.Empty(t, m.ConceptMastery)
}

func TestCalculateMetrics_Accuracy(t *testing.T) {
	responses := answers("quiz", t0, true, true, false)
	responses = append(responses, model.InteractionResponse{Kind: "reflection", TimeSpent: 90, SubmittedAt: t0})

	m := CalculateMetrics([]model.ModuleInteractionProgress{{
		Responses:       responses,
		TotalScore:      2,
		MaxScore:        3,
		PercentComplete: 100,
	}, {
		PercentComplete: 40,
	}}, nil)

	assert.Equal(t, 67.0, m.Accuracy)
	assert.Equal(t, 4, m.TotalResponses)
	assert.Equal(t, 3, m.GradedResponses)
	assert.Equal(t, 3, m.Snapshot("s1", "c1").GradedResponses)
	assert.Equal(t, 67.0, m.AverageScore)
	assert.Equal(t, 50.0, m.CompletionRate)
	// (30*3 + 90) / 4
	assert.Equal(t, 45.0, m.AverageTimePerQuestion)
}

func TestCalculateMetrics_Streaks(t *testing.T) {
	tests := []struct {
		name      string
		results   []bool
		correct   int
		incorrect int
	}{
		{"trailing correct", []bool{false, true, true, true}, 3, 0},
		{"trailing incorrect", []bool{true, true, false, false}, 0, 2},
		{"single", []bool{false}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CalculateMetrics([]model.ModuleInteractionProgress{{Responses: answers("quiz", t0, tt.results...)}}, nil)
			assert.Equal(t, tt.correct, m.CorrectStreak)
			assert.Equal(t, tt.incorrect, m.IncorrectStreak)
			assert.False(t, m.CorrectStreak > 0 && m.IncorrectStreak > 0)
		})
	}
}

func TestCalculateMetrics_StreakUsesSubmissionTime(t *testing.T) {
	// 存储顺序与提交时间不一致
	responses := []model.InteractionResponse{
		testutil.Graded("quiz", false, t0.Add(3*time.Minute)),
		testutil.Graded("quiz", true, t0.Add(1*time.Minute)),
		testutil.Graded("quiz", false, t0.Add(2*time.Minute)),
	}
	m := CalculateMetrics([]model.ModuleInteractionProgress{{Responses: responses}}, nil)
	assert.Equal(t, 2, m.IncorrectStreak)
}

func TestCalculateMetrics_Trend(t *testing.T) {
	tests := []struct {
		name    string
		results []bool
		want    model.Trend
	}{
		{"insufficient data", []bool{false, false, true, true}, model.TrendStable},
		{"short history unchanged", repeat(true, 10), model.TrendStable},
		{"short history improving", append(repeat(false, 3), repeat(true, 3)...), model.TrendImproving},
		{"short history declining", []bool{true, true, true, false, false}, model.TrendDeclining},
		{"recent ten against fewer previous", append(repeat(false, 5), repeat(true, 10)...), model.TrendImproving},
		{"improving", append(repeat(false, 10), repeat(true, 10)...), model.TrendImproving},
		{"declining", append(repeat(true, 10), repeat(false, 10)...), model.TrendDeclining},
		{"small change is stable", append(append(repeat(true, 5), repeat(false, 5)...), append(repeat(true, 6), repeat(false, 4)...)...), model.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CalculateMetrics([]model.ModuleInteractionProgress{{Responses: answers("quiz", t0, tt.results...)}}, nil)
			assert.Equal(t, tt.want, m.RecentTrend)
		})
	}
}

func TestCalculateMetrics_ConceptMastery(t *testing.T) {
	responses := answers("loops", t0, true, true, true, true, false)
	responses = append(responses, answers("pointers", t0.Add(time.Hour), true, false, false)...)
	tagged := testutil.Graded("code", true, t0.Add(2*time.Hour))
	tagged.ConceptKey = "recursion"
	responses = append(responses, tagged)

	m := CalculateMetrics([]model.ModuleInteractionProgress{{Responses: responses}}, nil)

	assert.Equal(t, 80.0, m.ConceptMastery["loops"])
	assert.Equal(t, 33.0, m.ConceptMastery["pointers"])
	assert.Equal(t, 100.0, m.ConceptMastery["recursion"])
	assert.NotContains(t, m.ConceptMastery, "code")
	assert.Equal(t, []string{"loops", "recursion"}, m.MasteredConcepts)
	assert.Equal(t, []string{"pointers"}, m.StrugglingConcepts)
	for _, v := range m.ConceptMastery {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestCalculateMetrics_MergesPriorSnapshot(t *testing.T) {
	prior := &model.LearningMetrics{
		ConceptMastery:     map[string]float64{"arrays": 90, "loops": 95},
		MasteredConcepts:   []string{"arrays", "loops"},
		StrugglingConcepts: []string{"sorting"},
		DifficultyLevel:    7,
	}
	m := CalculateMetrics([]model.ModuleInteractionProgress{{Responses: answers("loops", t0, false, false, true)}}, prior)

	assert.Equal(t, 90.0, m.ConceptMastery["arrays"])
	assert.Equal(t, 33.0, m.ConceptMastery["loops"])
	// 集合只增不减
	assert.ElementsMatch(t, []string{"arrays", "loops"}, m.MasteredConcepts)
	assert.ElementsMatch(t, []string{"sorting", "loops"}, m.StrugglingConcepts)
	assert.Equal(t, 7, m.DifficultyLevel)
}

func TestCalculateMetrics_PriorStreaksWithoutGradedResponses(t *testing.T) {
	prior := &model.LearningMetrics{IncorrectStreak: 4}
	m := CalculateMetrics(nil, prior)
	assert.Equal(t, 4, m.IncorrectStreak)
	assert.Zero(t, m.CorrectStreak)
}

func TestMetricsService_GetMetrics(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProgress(t, db, "s1", "c1", "m1", 100, answers("quiz", t0, true, true, true, false)...)
	testutil.SeedProgress(t, db, "s1", "c1", "m2", 20, answers("quiz", t0.Add(time.Hour), true)...)
	require.NoError(t, db.Create(&model.LearningMetrics{StudentID: "s1", CourseID: "c1", DifficultyLevel: 8}).Error)

	svc := NewMetricsService(newProgressRepo(db))
	m, err := svc.GetMetrics(ctxBG, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, m.Accuracy)
	assert.Equal(t, 50.0, m.CompletionRate)
	assert.Equal(t, 1, m.CorrectStreak)
	assert.Equal(t, 8, m.DifficultyLevel)

	snap, err := svc.Snapshot(ctxBG, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "s1", snap.StudentID)
	assert.Equal(t, 80.0, snap.Accuracy)
}
