package model

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

const (
	MinDifficulty     = 1
	MaxDifficulty     = 10
	DefaultDifficulty = 5
)

// LearningMetrics 学生在课程上的学习指标快照，由进度存储持有
type LearningMetrics struct {
	BaseModel
	StudentID          string             `gorm:"size:36;not null;uniqueIndex:idx_metrics_student_course,priority:1" json:"studentId"`
	CourseID           string             `gorm:"size:36;not null;uniqueIndex:idx_metrics_student_course,priority:2" json:"courseId"`
	Accuracy           float64            `gorm:"default:0" json:"accuracy"`
	ConceptMastery     map[string]float64 `gorm:"serializer:json;type:json" json:"conceptMastery"`
	MasteredConcepts   []string           `gorm:"serializer:json;type:json" json:"masteredConcepts"`
	StrugglingConcepts []string           `gorm:"serializer:json;type:json" json:"strugglingConcepts"`
	CorrectStreak      int                `gorm:"default:0" json:"correctStreak"`
	IncorrectStreak    int                `gorm:"default:0" json:"incorrectStreak"`
	RecentTrend        Trend              `gorm:"size:16;default:stable" json:"recentTrend"`
	DifficultyLevel    int                `gorm:"default:5" json:"difficultyLevel"`
	GradedResponses    int                `gorm:"default:0" json:"gradedResponses"`
}

func (LearningMetrics) TableName() string {
	return "learning_metrics"
}

// HasAccuracyEvidence 没有任何已评分作答时 Accuracy 的 0 只是缺省值
func (m *LearningMetrics) HasAccuracyEvidence() bool {
	return m.GradedResponses > 0
}

func (m *LearningMetrics) HasMastered(concept string) bool {
	return containsString(m.MasteredConcepts, concept)
}

func (m *LearningMetrics) IsStruggling(concept string) bool {
	return containsString(m.StrugglingConcepts, concept)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
