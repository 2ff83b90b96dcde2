package model

import "time"

type InteractionEventType string

const (
	EventInteractionStarted   InteractionEventType = "interaction_started"
	EventInteractionCompleted InteractionEventType = "interaction_completed"
	EventAnswerSubmitted      InteractionEventType = "answer_submitted"
	EventHintRequested        InteractionEventType = "hint_requested"
	EventContentViewed        InteractionEventType = "content_viewed"
)

func (t InteractionEventType) Valid() bool {
	switch t {
	case EventInteractionStarted, EventInteractionCompleted, EventAnswerSubmitted, EventHintRequested, EventContentViewed:
		return true
	}
	return false
}

// InteractionEvent 实时交互事件，只存在于会话缓冲区中
type InteractionEvent struct {
	Type          InteractionEventType `json:"type" binding:"required"`
	Timestamp     time.Time            `json:"timestamp" binding:"required"`
	InteractionID string               `json:"interactionId,omitempty"`
	Correct       *bool                `json:"correct,omitempty"`
	TimeSpent     *float64             `json:"timeSpent,omitempty"` // 秒
}

type StruggleIndicatorType string

const (
	IndicatorTimeOnTask         StruggleIndicatorType = "time_on_task"
	IndicatorRushing            StruggleIndicatorType = "rushing"
	IndicatorRepeatedErrors     StruggleIndicatorType = "repeated_errors"
	IndicatorHelpSeeking        StruggleIndicatorType = "help_seeking"
	IndicatorEngagementDrop     StruggleIndicatorType = "engagement_drop"
	IndicatorDifficultyMismatch StruggleIndicatorType = "difficulty_mismatch"
)

type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight 加权平均时使用的数值
func (s Severity) Weight() float64 {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	}
	return 0
}

type StruggleIndicator struct {
	Type        StruggleIndicatorType `json:"type"`
	Severity    Severity              `json:"severity"`
	Confidence  float64               `json:"confidence"` // [0,1]
	Description string                `json:"description"`
	Evidence    map[string]float64    `json:"evidence,omitempty"`
}

type Intervention struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

type StruggleDetectionResult struct {
	IsStruggling    bool                `json:"isStruggling"`
	Indicators      []StruggleIndicator `json:"indicators"`
	OverallSeverity Severity            `json:"overallSeverity"`
	Intervention    *Intervention       `json:"intervention,omitempty"`
}

// MaxSessionEvents 每个会话保留的最近事件数
const MaxSessionEvents = 50
