package service

import (
	"adaptive_learning_backend/internal/model"
	"fmt"
	"math"
	"sort"
	"time"
)

var riskWeights = map[model.RiskFactorType]float64{
	model.RiskLongAbsence:        1.5,
	model.RiskEngagementDrop:     1.3,
	model.RiskPerformanceDecline: 1.2,
	model.RiskDifficultySpike:    1.0,
	model.RiskPaceMismatch:       0.8,
}

const (
	engagementMinDays  = 7
	performanceMinDays = 5
	paceMinDays        = 7
	activityWindowDays = 20
)

// RiskInput 风险预测所需的全部输入
type RiskInput struct {
	Progress model.StudentProgressSnapshot
	Activity []model.DailyActivity // 按日期升序
	Averages model.CourseAverages
	Now      time.Time
}

// IdentifyRiskFactors 各检测器相互独立，可同时命中
func IdentifyRiskFactors(in RiskInput) []model.RiskFactor {
	var factors []model.RiskFactor
	factors = append(factors, detectLongAbsence(in)...)
	factors = append(factors, detectEngagementDrop(in.Activity)...)
	factors = append(factors, detectPerformanceDecline(in)...)
	factors = append(factors, detectDifficultySpike(in.Progress.Metrics)...)
	factors = append(factors, detectPaceMismatch(in)...)
	if factors == nil {
		factors = []model.RiskFactor{}
	}
	return factors
}

func detectLongAbsence(in RiskInput) []model.RiskFactor {
	last := in.Progress.LastAccessedAt
	if last == nil {
		return []model.RiskFactor{{
			Type:        model.RiskLongAbsence,
			Severity:    0.9,
			Description: "student has never accessed the course",
		}}
	}

	days := math.Floor(in.Now.Sub(*last).Hours() / 24)
	var severity float64
	switch {
	case days >= 14:
		severity = math.Min(1, days/30)
	case days >= 7:
		severity = days / 14
	default:
		return nil
	}
	return []model.RiskFactor{{
		Type:        model.RiskLongAbsence,
		Severity:    severity,
		Description: fmt.Sprintf("no activity for %.0f days", days),
		DataPoints:  map[string]float64{"daysSinceLastAccess": days},
	}}
}

func meanActivity(days []model.DailyActivity) (minutes, interactions float64) {
	if len(days) == 0 {
		return 0, 0
	}
	for _, d := range days {
		minutes += d.MinutesSpent
		interactions += float64(d.InteractionsCompleted)
	}
	n := float64(len(days))
	return minutes / n, interactions / n
}

func dropRatio(prior, recent float64) float64 {
	if prior <= 0 {
		return 0
	}
	return (prior - recent) / prior
}

// detectEngagementDrop 最近 3 天与之前最多 7 天比较
func detectEngagementDrop(activity []model.DailyActivity) []model.RiskFactor {
	if len(activity) < engagementMinDays {
		return nil
	}
	n := len(activity)
	recent := activity[n-3:]
	priorStart := n - 3 - 7
	if priorStart < 0 {
		priorStart = 0
	}
	prior := activity[priorStart : n-3]

	recentMin, recentInt := meanActivity(recent)
	priorMin, priorInt := meanActivity(prior)
	minutesDrop := dropRatio(priorMin, recentMin)
	interactionDrop := dropRatio(priorInt, recentInt)
	if minutesDrop <= 0.4 && interactionDrop <= 0.4 {
		return nil
	}
	return []model.RiskFactor{{
		Type:        model.RiskEngagementDrop,
		Severity:    math.Min(1, math.Max(minutesDrop, interactionDrop)),
		Description: "engagement dropped sharply over the last 3 days",
		DataPoints: map[string]float64{
			"minutesDrop":     minutesDrop,
			"interactionDrop": interactionDrop,
		},
	}}
}

func detectPerformanceDecline(in RiskInput) []model.RiskFactor {
	var factors []model.RiskFactor
	activity := in.Activity

	if len(activity) >= performanceMinDays {
		var total, recent float64
		for _, d := range activity {
			total += d.AccuracyPercentage
		}
		for _, d := range activity[len(activity)-performanceMinDays:] {
			recent += d.AccuracyPercentage
		}
		overall := total / float64(len(activity))
		recentMean := recent / performanceMinDays

		if overall > 0 && recentMean < overall*0.7 {
			decline := (overall - recentMean) / overall
			factors = append(factors, model.RiskFactor{
				Type:        model.RiskPerformanceDecline,
				Severity:    math.Min(1, 2*decline),
				Description: fmt.Sprintf("recent accuracy %.0f%% is well below the overall %.0f%%", recentMean, overall),
				DataPoints:  map[string]float64{"recentAccuracy": recentMean, "overallAccuracy": overall},
			})
		}
	}

	m := in.Progress.Metrics
	if m.RecentTrend == model.TrendDeclining && m.IncorrectStreak >= 3 {
		factors = append(factors, model.RiskFactor{
			Type:        model.RiskPerformanceDecline,
			Severity:    0.6,
			Description: "declining trend with repeated incorrect answers",
			DataPoints:  map[string]float64{"incorrectStreak": float64(m.IncorrectStreak)},
		})
	}
	return factors
}

func detectDifficultySpike(m model.LearningMetrics) []model.RiskFactor {
	if !m.HasAccuracyEvidence() {
		return nil
	}
	difficulty := m.DifficultyLevel
	if difficulty == 0 {
		difficulty = model.DefaultDifficulty
	}
	points := map[string]float64{"accuracy": m.Accuracy, "difficulty": float64(difficulty)}

	switch {
	case m.Accuracy < 40 && difficulty >= 7:
		return []model.RiskFactor{{
			Type:        model.RiskDifficultySpike,
			Severity:    0.8,
			Description: "low accuracy on high-difficulty content",
			DataPoints:  points,
		}}
	case m.IncorrectStreak >= 5 && m.Accuracy < 50:
		points["incorrectStreak"] = float64(m.IncorrectStreak)
		return []model.RiskFactor{{
			Type:        model.RiskDifficultySpike,
			Severity:    0.7,
			Description: "long streak of incorrect answers",
			DataPoints:  points,
		}}
	}
	return nil
}

func detectPaceMismatch(in RiskInput) []model.RiskFactor {
	expected := in.Averages.ExpectedMinutesPerModule
	if len(in.Activity) < paceMinDays || expected <= 0 {
		return nil
	}
	var minutes float64
	modules := 0
	for _, d := range in.Activity {
		minutes += d.MinutesSpent
		modules += d.ModulesViewed
	}
	if modules == 0 || !in.Progress.Metrics.HasAccuracyEvidence() {
		return nil
	}

	perModule := minutes / float64(modules)
	ratio := perModule / expected
	accuracy := in.Progress.Metrics.Accuracy
	points := map[string]float64{"minutesPerModule": perModule, "expectedMinutes": expected, "accuracy": accuracy}

	switch {
	case ratio < 0.5 && accuracy < 60:
		return []model.RiskFactor{{
			Type:        model.RiskPaceMismatch,
			Severity:    0.5,
			Description: "rushing through modules with low accuracy",
			DataPoints:  points,
		}}
	case ratio > 2 && accuracy < 70:
		return []model.RiskFactor{{
			Type:        model.RiskPaceMismatch,
			Severity:    0.6,
			Description: "spending much longer than expected on modules",
			DataPoints:  points,
		}}
	}
	return nil
}

// CalculateRiskScore 加权平均后映射到 [0,100]
func CalculateRiskScore(factors []model.RiskFactor) float64 {
	var weighted, weights float64
	for _, f := range factors {
		w := riskWeights[f.Type]
		weighted += f.Severity * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return clampPercent(math.Round(weighted / weights * 100))
}

func PredictOutcome(score float64) model.PredictedOutcome {
	switch {
	case score < 30:
		return model.OutcomeComplete
	case score < 70:
		return model.OutcomeAtRisk
	}
	return model.OutcomeLikelyDropout
}

// CalculateConfidence 证据越多置信度越高，上限 1
func CalculateConfidence(in RiskInput) float64 {
	var c float64
	switch days := len(in.Activity); {
	case days >= 14:
		c += 0.3
	case days >= 7:
		c += 0.2
	case days >= 3:
		c += 0.1
	}
	switch done := in.Progress.CompletedModules; {
	case done >= 10:
		c += 0.3
	case done >= 5:
		c += 0.2
	case done >= 1:
		c += 0.1
	}
	m := in.Progress.Metrics
	if m.HasAccuracyEvidence() {
		c += 0.2
	}
	if m.RecentTrend != "" {
		c += 0.1
	}
	if len(in.Progress.AssessmentScores) > 0 {
		c += 0.2
	}
	return math.Min(1, math.Round(c*100)/100)
}

var priorityRank = map[model.RecommendationPriority]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

func GenerateRecommendations(factors []model.RiskFactor) []model.Recommendation {
	var recs []model.Recommendation
	for _, f := range factors {
		switch f.Type {
		case model.RiskLongAbsence:
			recs = append(recs, model.Recommendation{
				Priority: model.PriorityHigh,
				Action:   "send_reminder",
				Message:  "Send a personalized reminder to re-engage the student.",
				AutomatedAction: &model.AutomatedAction{
					Type:    "send_reminder",
					Payload: map[string]interface{}{"channel": "email", "template": "we_miss_you"},
				},
			})
			if f.Severity >= 0.8 {
				recs = append(recs, model.Recommendation{
					Priority: model.PriorityHigh,
					Action:   "notify_instructor",
					Message:  "Notify the instructor about the prolonged absence.",
					AutomatedAction: &model.AutomatedAction{
						Type:    "notify_instructor",
						Payload: map[string]interface{}{"reason": string(f.Type), "severity": f.Severity},
					},
				})
			}
		case model.RiskEngagementDrop:
			recs = append(recs,
				model.Recommendation{
					Priority: model.PriorityMedium,
					Action:   "suggest_shorter_sessions",
					Message:  "Suggest shorter, more frequent study sessions.",
					AutomatedAction: &model.AutomatedAction{
						Type:    "adjust_session_length",
						Payload: map[string]interface{}{"targetMinutes": 15},
					},
				},
				model.Recommendation{
					Priority: model.PriorityMedium,
					Action:   "send_encouragement",
					Message:  "Send an encouraging message highlighting recent progress.",
					AutomatedAction: &model.AutomatedAction{
						Type:    "send_notification",
						Payload: map[string]interface{}{"template": "progress_highlight"},
					},
				},
			)
		case model.RiskPerformanceDecline:
			recs = append(recs,
				model.Recommendation{
					Priority: model.PriorityHigh,
					Action:   "schedule_review",
					Message:  "Schedule a review of recently covered concepts.",
					AutomatedAction: &model.AutomatedAction{
						Type:    "schedule_review",
						Payload: map[string]interface{}{"scope": "recent_concepts"},
					},
				},
				model.Recommendation{
					Priority: model.PriorityMedium,
					Action:   "offer_tutoring",
					Message:  "Offer a tutoring session.",
					AutomatedAction: &model.AutomatedAction{
						Type:    "offer_tutoring",
						Payload: map[string]interface{}{"mode": "ai_tutor"},
					},
				},
			)
		case model.RiskDifficultySpike:
			recs = append(recs, model.Recommendation{
				Priority: model.PriorityHigh,
				Action:   "adjust_difficulty",
				Message:  "Reduce content difficulty and add scaffolding.",
				AutomatedAction: &model.AutomatedAction{
					Type:    "adjust_difficulty",
					Payload: map[string]interface{}{"difficultyDelta": -2, "addScaffolding": true},
				},
			})
		case model.RiskPaceMismatch:
			recs = append(recs, model.Recommendation{
				Priority: model.PriorityMedium,
				Action:   "adjust_pacing",
				Message:  "Recommend a study pace closer to the course expectation.",
				AutomatedAction: &model.AutomatedAction{
					Type:    "adjust_pacing",
					Payload: map[string]interface{}{"minutesPerModule": f.DataPoints["expectedMinutes"]},
				},
			})
		}
	}

	if len(recs) == 0 {
		return []model.Recommendation{{
			Priority: model.PriorityLow,
			Action:   "continue_monitoring",
			Message:  "No risk factors detected, keep monitoring progress.",
		}}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	return recs
}

func PredictRisk(in RiskInput) model.PredictionModel {
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	factors := IdentifyRiskFactors(in)
	score := CalculateRiskScore(factors)
	return model.PredictionModel{
		StudentID:        in.Progress.StudentID,
		CourseID:         in.Progress.CourseID,
		RiskScore:        score,
		RiskFactors:      factors,
		PredictedOutcome: PredictOutcome(score),
		ConfidenceScore:  CalculateConfidence(in),
		Recommendations:  GenerateRecommendations(factors),
		CalculatedAt:     in.Now,
	}
}

func ShouldTriggerIntervention(riskScore, confidence float64) model.InterventionDecision {
	switch {
	case riskScore >= 70 && confidence >= 0.5:
		return model.InterventionDecision{Trigger: true, Urgency: model.UrgencyImmediate, Type: "critical"}
	case riskScore >= 50 && confidence >= 0.4:
		return model.InterventionDecision{Trigger: true, Urgency: model.UrgencySoon, Type: "proactive"}
	case riskScore >= 30:
		return model.InterventionDecision{Trigger: true, Urgency: model.UrgencyScheduled, Type: "wellness_check"}
	}
	return model.InterventionDecision{Trigger: false}
}
