package service

import (
	"adaptive_learning_backend/internal/model"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

const (
	DefaultExpectedTime = 60.0 // 秒

	slowRatio            = 2.5
	verySlowRatio        = 4.0
	rushRatio            = 0.3
	recentAnswerWindow   = 5
	helpWindow           = 10 * time.Minute
	helpRatioThreshold   = 0.8
	helpRatioHigh        = 1.5
	minHintRequests      = 3
	inactivityGap        = 300 * time.Second
	longInactivityGap    = 600 * time.Second
	trendDropConfidence  = 0.5
	inactivityConfidence = 0.7
)

var interventions = map[model.StruggleIndicatorType]model.Intervention{
	model.IndicatorTimeOnTask: {
		Type:    "simplify",
		Message: "This one is taking a while. Want a simpler explanation?",
		Action:  "offer_simpler_explanation",
	},
	model.IndicatorRushing: {
		Type:    "slow_down",
		Message: "Take your time, accuracy matters more than speed.",
		Action:  "show_pacing_reminder",
	},
	model.IndicatorHelpSeeking: {
		Type:    "tutor",
		Message: "Looks like you could use a hand. Chat with a tutor?",
		Action:  "open_tutor_chat",
	},
	model.IndicatorDifficultyMismatch: {
		Type:    "simplify",
		Message: "Let's step back to some easier material first.",
		Action:  "reduce_difficulty",
	},
}

var (
	reviewIntervention = model.Intervention{
		Type:    "review",
		Message: "Let's review this concept before trying again.",
		Action:  "show_concept_review",
	}
	hintIntervention = model.Intervention{
		Type:    "hint",
		Message: "Here's a hint to get you unstuck.",
		Action:  "show_hint",
	}
	breakIntervention = model.Intervention{
		Type:    "break",
		Message: "You've been away for a while. A short break can help, come back refreshed.",
		Action:  "suggest_break",
	}
	encouragementIntervention = model.Intervention{
		Type:    "encouragement",
		Message: "You're making progress, keep going!",
		Action:  "show_encouragement",
	}
)

// DetectStruggle 基于最近的事件窗口和指标快照判断学生是否遇到困难
func DetectStruggle(events []model.InteractionEvent, m model.LearningMetrics, expectedTime float64) model.StruggleDetectionResult {
	if expectedTime <= 0 {
		expectedTime = DefaultExpectedTime
	}

	ordered := make([]model.InteractionEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var indicators []model.StruggleIndicator
	indicators = append(indicators, checkTimeOnTask(ordered, expectedTime)...)
	indicators = append(indicators, checkRepeatedErrors(ordered)...)
	indicators = append(indicators, checkHelpSeeking(ordered)...)
	indicators = append(indicators, checkEngagement(ordered, m)...)
	indicators = append(indicators, checkDifficultyMismatch(m)...)
	if indicators == nil {
		indicators = []model.StruggleIndicator{}
	}

	overall := overallSeverity(indicators)
	result := model.StruggleDetectionResult{
		IsStruggling:    overall != model.SeverityNone,
		Indicators:      indicators,
		OverallSeverity: overall,
	}
	if result.IsStruggling {
		result.Intervention = selectIntervention(indicators)
	}
	return result
}

func sampleConfidence(n int) float64 {
	return math.Min(1, 0.5+0.1*float64(n))
}

func recentGradedAnswers(events []model.InteractionEvent) []bool {
	var answers []bool
	for _, e := range events {
		if e.Type == model.EventAnswerSubmitted && e.Correct != nil {
			answers = append(answers, *e.Correct)
		}
	}
	if len(answers) > recentAnswerWindow {
		answers = answers[len(answers)-recentAnswerWindow:]
	}
	return answers
}

func checkTimeOnTask(events []model.InteractionEvent, expected float64) []model.StruggleIndicator {
	var total float64
	n := 0
	for _, e := range events {
		if (e.Type == model.EventInteractionCompleted || e.Type == model.EventAnswerSubmitted) && e.TimeSpent != nil {
			total += *e.TimeSpent
			n++
		}
	}
	if n == 0 {
		return nil
	}

	avg := total / float64(n)
	ratio := avg / expected
	evidence := map[string]float64{"averageTime": avg, "expectedTime": expected, "ratio": ratio}

	if ratio > slowRatio {
		sev := model.SeverityMedium
		if ratio > verySlowRatio {
			sev = model.SeverityHigh
		}
		return []model.StruggleIndicator{{
			Type:        model.IndicatorTimeOnTask,
			Severity:    sev,
			Confidence:  sampleConfidence(n),
			Description: fmt.Sprintf("spending %.1fx the expected time per interaction", ratio),
			Evidence:    evidence,
		}}
	}

	if ratio < rushRatio {
		answers := recentGradedAnswers(events)
		if len(answers) == 0 {
			return nil
		}
		wrong := 0
		for _, ok := range answers {
			if !ok {
				wrong++
			}
		}
		errorRate := float64(wrong) / float64(len(answers))
		if errorRate > 0.5 {
			evidence["errorRate"] = errorRate
			return []model.StruggleIndicator{{
				Type:        model.IndicatorRushing,
				Severity:    model.SeverityMedium,
				Confidence:  sampleConfidence(n),
				Description: "answering very quickly with a high error rate",
				Evidence:    evidence,
			}}
		}
	}
	return nil
}

func checkRepeatedErrors(events []model.InteractionEvent) []model.StruggleIndicator {
	answers := recentGradedAnswers(events)
	if len(answers) == 0 {
		return nil
	}

	wrong, run, maxRun := 0, 0, 0
	for _, ok := range answers {
		if ok {
			run = 0
			continue
		}
		wrong++
		run++
		if run > maxRun {
			maxRun = run
		}
	}
	if maxRun < 3 && wrong < 4 {
		return nil
	}

	sev := model.SeverityMedium
	if maxRun >= 4 {
		sev = model.SeverityHigh
	}
	return []model.StruggleIndicator{{
		Type:        model.IndicatorRepeatedErrors,
		Severity:    sev,
		Confidence:  sampleConfidence(len(answers)),
		Description: fmt.Sprintf("%d of the last %d answers were incorrect", wrong, len(answers)),
		Evidence: map[string]float64{
			"incorrect":         float64(wrong),
			"consecutiveErrors": float64(maxRun),
			"answersConsidered": float64(len(answers)),
		},
	}}
}

// checkHelpSeeking 以最新事件时间为基准，统计之前 10 分钟
func checkHelpSeeking(events []model.InteractionEvent) []model.StruggleIndicator {
	if len(events) == 0 {
		return nil
	}
	ref := events[len(events)-1].Timestamp
	from := ref.Add(-helpWindow)

	hints, interactions := 0, 0
	for _, e := range events {
		if e.Timestamp.Before(from) {
			continue
		}
		switch e.Type {
		case model.EventHintRequested:
			hints++
		case model.EventInteractionStarted, model.EventInteractionCompleted, model.EventAnswerSubmitted:
			interactions++
		}
	}
	if hints < minHintRequests {
		return nil
	}

	ratio := float64(hints) / math.Max(float64(interactions)/2, 1)
	if ratio <= helpRatioThreshold {
		return nil
	}
	sev := model.SeverityMedium
	if ratio > helpRatioHigh {
		sev = model.SeverityHigh
	}
	return []model.StruggleIndicator{{
		Type:        model.IndicatorHelpSeeking,
		Severity:    sev,
		Confidence:  sampleConfidence(hints),
		Description: fmt.Sprintf("%d hint requests in the last 10 minutes", hints),
		Evidence:    map[string]float64{"hints": float64(hints), "interactions": float64(interactions), "ratio": ratio},
	}}
}

func checkEngagement(events []model.InteractionEvent, m model.LearningMetrics) []model.StruggleIndicator {
	var out []model.StruggleIndicator

	var maxGap time.Duration
	for i := 1; i < len(events); i++ {
		if gap := events[i].Timestamp.Sub(events[i-1].Timestamp); gap > maxGap {
			maxGap = gap
		}
	}
	if maxGap > inactivityGap {
		sev := model.SeverityMedium
		if maxGap > longInactivityGap {
			sev = model.SeverityHigh
		}
		out = append(out, model.StruggleIndicator{
			Type:        model.IndicatorEngagementDrop,
			Severity:    sev,
			Confidence:  inactivityConfidence,
			Description: fmt.Sprintf("inactive for %.0f seconds between interactions", maxGap.Seconds()),
			Evidence:    map[string]float64{"maxGapSeconds": maxGap.Seconds()},
		})
	}

	if m.RecentTrend == model.TrendDeclining {
		out = append(out, model.StruggleIndicator{
			Type:        model.IndicatorEngagementDrop,
			Severity:    model.SeverityLow,
			Confidence:  trendDropConfidence,
			Description: "recent performance trend is declining",
		})
	}
	return out
}

func checkDifficultyMismatch(m model.LearningMetrics) []model.StruggleIndicator {
	if !m.HasAccuracyEvidence() {
		return nil
	}
	difficulty := m.DifficultyLevel
	if difficulty == 0 {
		difficulty = model.DefaultDifficulty
	}
	evidence := map[string]float64{"difficulty": float64(difficulty), "accuracy": m.Accuracy}

	switch {
	case difficulty >= 7 && m.Accuracy < 50 && m.IncorrectStreak >= 2:
		return []model.StruggleIndicator{{
			Type:        model.IndicatorDifficultyMismatch,
			Severity:    model.SeverityHigh,
			Confidence:  0.8,
			Description: "content is too difficult for current performance",
			Evidence:    evidence,
		}}
	case difficulty >= 5 && m.Accuracy < 40:
		return []model.StruggleIndicator{{
			Type:        model.IndicatorDifficultyMismatch,
			Severity:    model.SeverityMedium,
			Confidence:  0.6,
			Description: "accuracy is low for the current difficulty level",
			Evidence:    evidence,
		}}
	}
	return nil
}

func overallSeverity(indicators []model.StruggleIndicator) model.Severity {
	var weighted, confidence float64
	for _, ind := range indicators {
		weighted += ind.Confidence * ind.Severity.Weight()
		confidence += ind.Confidence
	}
	if confidence == 0 {
		return model.SeverityNone
	}
	switch score := weighted / confidence; {
	case score >= 2.5:
		return model.SeverityHigh
	case score >= 1.5:
		return model.SeverityMedium
	case score >= 0.5:
		return model.SeverityLow
	}
	return model.SeverityNone
}

// selectIntervention 取严重程度最高的指标，相同时按检查顺序
func selectIntervention(indicators []model.StruggleIndicator) *model.Intervention {
	var top *model.StruggleIndicator
	for i := range indicators {
		if top == nil || indicators[i].Severity.Weight() > top.Severity.Weight() {
			top = &indicators[i]
		}
	}
	if top == nil {
		return nil
	}

	var iv model.Intervention
	switch top.Type {
	case model.IndicatorRepeatedErrors:
		iv = hintIntervention
		if top.Severity == model.SeverityHigh {
			iv = reviewIntervention
		}
	case model.IndicatorEngagementDrop:
		iv = encouragementIntervention
		if top.Severity == model.SeverityHigh {
			iv = breakIntervention
		}
	default:
		iv = interventions[top.Type]
	}
	return &iv
}

// StruggleSession 单个学习会话的滚动事件窗口，最多保留 model.MaxSessionEvents 条
type StruggleSession struct {
	mu     sync.Mutex
	events []model.InteractionEvent
}

func NewStruggleSession(events ...model.InteractionEvent) *StruggleSession {
	s := &StruggleSession{}
	s.AddEvent(events...)
	return s
}

func (s *StruggleSession) AddEvent(events ...model.InteractionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	if over := len(s.events) - model.MaxSessionEvents; over > 0 {
		s.events = append([]model.InteractionEvent(nil), s.events[over:]...)
	}
}

func (s *StruggleSession) Events() []model.InteractionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InteractionEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Analyze expectedTime <= 0 时使用默认 60 秒
func (s *StruggleSession) Analyze(m model.LearningMetrics, expectedTime float64) model.StruggleDetectionResult {
	return DetectStruggle(s.Events(), m, expectedTime)
}

func (s *StruggleSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
