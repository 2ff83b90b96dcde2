package model

import "time"

type RiskFactorType string

const (
	RiskLongAbsence        RiskFactorType = "long_absence"
	RiskEngagementDrop     RiskFactorType = "engagement_drop"
	RiskPerformanceDecline RiskFactorType = "performance_decline"
	RiskDifficultySpike    RiskFactorType = "difficulty_spike"
	RiskPaceMismatch       RiskFactorType = "pace_mismatch"
)

type PredictedOutcome string

const (
	OutcomeComplete      PredictedOutcome = "complete"
	OutcomeAtRisk        PredictedOutcome = "at_risk"
	OutcomeLikelyDropout PredictedOutcome = "likely_dropout"
)

type RiskFactor struct {
	Type        RiskFactorType     `json:"type"`
	Severity    float64            `json:"severity"` // [0,1]
	Description string             `json:"description"`
	DataPoints  map[string]float64 `json:"dataPoints,omitempty"`
}

type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

type AutomatedAction struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

type Recommendation struct {
	Priority        RecommendationPriority `json:"priority"`
	Action          string                 `json:"action"`
	Message         string                 `json:"message"`
	AutomatedAction *AutomatedAction       `json:"automatedAction,omitempty"`
}

type PredictionModel struct {
	StudentID        string           `json:"studentId"`
	CourseID         string           `json:"courseId"`
	RiskScore        float64          `json:"riskScore"` // [0,100]
	RiskFactors      []RiskFactor     `json:"riskFactors"`
	PredictedOutcome PredictedOutcome `json:"predictedOutcome"`
	ConfidenceScore  float64          `json:"confidenceScore"` // [0,1]
	Recommendations  []Recommendation `json:"recommendations"`
	CalculatedAt     time.Time        `json:"calculatedAt"`
}

type InterventionUrgency string

const (
	UrgencyImmediate InterventionUrgency = "immediate"
	UrgencySoon      InterventionUrgency = "soon"
	UrgencyScheduled InterventionUrgency = "scheduled"
)

type InterventionDecision struct {
	Trigger bool                `json:"trigger"`
	Urgency InterventionUrgency `json:"urgency,omitempty"`
	Type    string              `json:"type,omitempty"` // critical | proactive | wellness_check
}

// StudentProgressSnapshot 风险预测所需的进度元数据
type StudentProgressSnapshot struct {
	StudentID        string
	CourseID         string
	LastAccessedAt   *time.Time
	EnrolledAt       time.Time
	CompletedModules int
	AssessmentScores []float64
	Metrics          LearningMetrics
}
