package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stable = model.LearningMetrics{Accuracy: 75, RecentTrend: model.TrendStable, DifficultyLevel: 5, GradedResponses: 20}

func answerEvent(at time.Time, correct bool, spent float64) model.InteractionEvent {
	return model.InteractionEvent{
		Type:      model.EventAnswerSubmitted,
		Timestamp: at,
		Correct:   model.BoolPtr(correct),
		TimeSpent: model.Float64Ptr(spent),
	}
}

func findIndicator(r model.StruggleDetectionResult, typ model.StruggleIndicatorType) *model.StruggleIndicator {
	for i := range r.Indicators {
		if r.Indicators[i].Type == typ {
			return &r.Indicators[i]
		}
	}
	return nil
}

func TestDetectStruggle_EmptyWindow(t *testing.T) {
	r := DetectStruggle(nil, stable, 0)
	assert.False(t, r.IsStruggling)
	assert.Equal(t, model.SeverityNone, r.OverallSeverity)
	assert.Empty(t, r.Indicators)
	assert.Nil(t, r.Intervention)
}

func TestDetectStruggle_RepeatedErrors(t *testing.T) {
	var events []model.InteractionEvent
	for i := 0; i < 5; i++ {
		events = append(events, answerEvent(t0.Add(time.Duration(i)*30*time.Second), false, 40))
	}

	r := DetectStruggle(events, stable, DefaultExpectedTime)
	require.True(t, r.IsStruggling)
	ind := findIndicator(r, model.IndicatorRepeatedErrors)
	require.NotNil(t, ind)
	assert.Equal(t, model.SeverityHigh, ind.Severity)
	require.NotNil(t, r.Intervention)
	assert.Equal(t, "review", r.Intervention.Type)
	assert.Equal(t, "show_concept_review", r.Intervention.Action)
}

func TestDetectStruggle_RepeatedErrorsMedium(t *testing.T) {
	results := []bool{true, false, false, false, true}
	var events []model.InteractionEvent
	for i, ok := range results {
		events = append(events, answerEvent(t0.Add(time.Duration(i)*30*time.Second), ok, 40))
	}

	r := DetectStruggle(events, stable, DefaultExpectedTime)
	ind := findIndicator(r, model.IndicatorRepeatedErrors)
	require.NotNil(t, ind)
	assert.Equal(t, model.SeverityMedium, ind.Severity)
	require.NotNil(t, r.Intervention)
	assert.Equal(t, "hint", r.Intervention.Type)
}

func TestDetectStruggle_TimeOnTask(t *testing.T) {
	tests := []struct {
		name  string
		spent float64
		want  model.Severity
	}{
		{"slow", 180, model.SeverityMedium},
		{"very slow", 300, model.SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []model.InteractionEvent{
				answerEvent(t0, true, tt.spent),
				answerEvent(t0.Add(time.Minute), true, tt.spent),
			}
			r := DetectStruggle(events, stable, 60)
			ind := findIndicator(r, model.IndicatorTimeOnTask)
			require.NotNil(t, ind)
			assert.Equal(t, tt.want, ind.Severity)
			assert.InDelta(t, 0.7, ind.Confidence, 1e-9)
		})
	}
}

func TestDetectStruggle_Rushing(t *testing.T) {
	events := []model.InteractionEvent{
		answerEvent(t0, false, 5),
		answerEvent(t0.Add(10*time.Second), false, 5),
		answerEvent(t0.Add(20*time.Second), true, 5),
	}
	r := DetectStruggle(events, stable, 60)
	ind := findIndicator(r, model.IndicatorRushing)
	require.NotNil(t, ind)
	assert.Equal(t, model.SeverityMedium, ind.Severity)
	assert.Nil(t, findIndicator(r, model.IndicatorTimeOnTask))
}

func TestDetectStruggle_HelpSeeking(t *testing.T) {
	events := []model.InteractionEvent{
		// 窗口之外，不计入
		{Type: model.EventHintRequested, Timestamp: t0.Add(-20 * time.Minute)},
		{Type: model.EventInteractionStarted, Timestamp: t0},
		{Type: model.EventHintRequested, Timestamp: t0.Add(1 * time.Minute)},
		{Type: model.EventHintRequested, Timestamp: t0.Add(2 * time.Minute)},
		{Type: model.EventHintRequested, Timestamp: t0.Add(3 * time.Minute)},
		{Type: model.EventInteractionCompleted, Timestamp: t0.Add(4 * time.Minute)},
	}
	r := DetectStruggle(events, stable, 60)
	ind := findIndicator(r, model.IndicatorHelpSeeking)
	require.NotNil(t, ind)
	// 3 hints / max(2/2, 1) = 3
	assert.Equal(t, model.SeverityHigh, ind.Severity)
	assert.Equal(t, 3.0, ind.Evidence["hints"])
}

func TestDetectStruggle_FewHintsIgnored(t *testing.T) {
	events := []model.InteractionEvent{
		{Type: model.EventHintRequested, Timestamp: t0},
		{Type: model.EventHintRequested, Timestamp: t0.Add(time.Minute)},
	}
	r := DetectStruggle(events, stable, 60)
	assert.Nil(t, findIndicator(r, model.IndicatorHelpSeeking))
}

func TestDetectStruggle_EngagementDrop(t *testing.T) {
	events := []model.InteractionEvent{
		{Type: model.EventContentViewed, Timestamp: t0},
		{Type: model.EventContentViewed, Timestamp: t0.Add(11 * time.Minute)},
	}
	r := DetectStruggle(events, stable, 60)
	ind := findIndicator(r, model.IndicatorEngagementDrop)
	require.NotNil(t, ind)
	assert.Equal(t, model.SeverityHigh, ind.Severity)
	require.NotNil(t, r.Intervention)
	assert.Equal(t, "break", r.Intervention.Type)

	declining := stable
	declining.RecentTrend = model.TrendDeclining
	r = DetectStruggle(nil, declining, 60)
	ind = findIndicator(r, model.IndicatorEngagementDrop)
	require.NotNil(t, ind)
	assert.Equal(t, model.SeverityLow, ind.Severity)
	assert.Equal(t, model.SeverityLow, r.OverallSeverity)
	assert.True(t, r.IsStruggling)
	assert.Equal(t, "encouragement", r.Intervention.Type)
}

func TestDetectStruggle_DifficultyMismatch(t *testing.T) {
	high := DetectStruggle(nil, model.LearningMetrics{Accuracy: 45, DifficultyLevel: 8, IncorrectStreak: 2, GradedResponses: 10}, 60)
	ind := findIndicator(high, model.IndicatorDifficultyMismatch)
	require.NotNil(t, ind)
	assert.Equal(t, model.SeverityHigh, ind.Severity)
	assert.Equal(t, model.SeverityHigh, high.OverallSeverity)
	assert.Equal(t, "reduce_difficulty", high.Intervention.Action)

	medium := DetectStruggle(nil, model.LearningMetrics{Accuracy: 35, DifficultyLevel: 5, GradedResponses: 10}, 60)
	ind = findIndicator(medium, model.IndicatorDifficultyMismatch)
	require.NotNil(t, ind)
	assert.Equal(t, model.SeverityMedium, ind.Severity)

	none := DetectStruggle(nil, model.LearningMetrics{Accuracy: 35, DifficultyLevel: 3, GradedResponses: 10}, 60)
	assert.Nil(t, findIndicator(none, model.IndicatorDifficultyMismatch))

	fresh := DetectStruggle(nil, model.LearningMetrics{DifficultyLevel: 8, RecentTrend: model.TrendStable}, 60)
	assert.False(t, fresh.IsStruggling)
	assert.Equal(t, model.SeverityNone, fresh.OverallSeverity)
	assert.Empty(t, fresh.Indicators)
}

func TestOverallSeverity_Weighted(t *testing.T) {
	indicators := []model.StruggleIndicator{
		{Severity: model.SeverityHigh, Confidence: 0.5},
		{Severity: model.SeverityLow, Confidence: 0.5},
	}
	assert.Equal(t, model.SeverityMedium, overallSeverity(indicators))
	assert.Equal(t, model.SeverityNone, overallSeverity(nil))
}

func TestStruggleSession(t *testing.T) {
	s := NewStruggleSession()
	for i := 0; i < 60; i++ {
		s.AddEvent(model.InteractionEvent{Type: model.EventContentViewed, Timestamp: t0.Add(time.Duration(i) * time.Second)})
	}
	events := s.Events()
	require.Len(t, events, model.MaxSessionEvents)
	assert.Equal(t, t0.Add(10*time.Second), events[0].Timestamp)

	r := s.Analyze(stable, 0)
	assert.False(t, r.IsStruggling)

	s.Clear()
	assert.Empty(t, s.Events())
}

func TestStruggleService(t *testing.T) {
	db := testutil.NewDB(t)
	progress := newProgressRepo(db)
	svc := NewStruggleService(repository.NewMemoryEventBuffer(time.Hour), NewMetricsService(progress), 0)

	empty, err := svc.Analyze(ctxBG, "s1", "", "empty", 0)
	require.NoError(t, err)
	assert.False(t, empty.IsStruggling)
	assert.Equal(t, model.SeverityNone, empty.OverallSeverity)
	assert.Empty(t, empty.Indicators)

	// 课程内还没有任何作答的新学生
	empty, err = svc.Analyze(ctxBG, "s1", "c1", "empty", 0)
	require.NoError(t, err)
	assert.False(t, empty.IsStruggling)

	var events []model.InteractionEvent
	for i := 0; i < 5; i++ {
		events = append(events, answerEvent(t0.Add(time.Duration(i)*20*time.Second), false, 30))
	}
	require.NoError(t, svc.RecordEvents(ctxBG, "s1", "sess", events))

	other, err := svc.Events(ctxBG, "s2", "sess")
	require.NoError(t, err)
	assert.Empty(t, other)

	r, err := svc.Analyze(ctxBG, "s1", "", "sess", 0)
	require.NoError(t, err)
	assert.True(t, r.IsStruggling)
	assert.NotNil(t, findIndicator(*r, model.IndicatorRepeatedErrors))

	r, err = svc.Analyze(ctxBG, "s1", "c1", "sess", 0)
	require.NoError(t, err)
	assert.True(t, r.IsStruggling)

	require.NoError(t, svc.Clear(ctxBG, "s1", "sess"))
	got, err := svc.Events(ctxBG, "s1", "sess")
	require.NoError(t, err)
	assert.Empty(t, got)
}
