package model

import (
	"time"

	"gorm.io/datatypes"
)

// InteractionResponse 一次交互作答，创建后不可变
type InteractionResponse struct {
	BlockID     string    `json:"blockId"`
	Kind        string    `json:"kind"`                 // multiple_choice, fill_blank, code, reflection ...
	ConceptKey  string    `json:"conceptKey,omitempty"` // 显式概念标签，缺省时按 Kind 归组
	Correct     *bool     `json:"correct,omitempty"`    // 不评分的题型为 nil
	Score       float64   `json:"score"`
	MaxScore    float64   `json:"maxScore"`
	TimeSpent   float64   `json:"timeSpent"` // 秒
	SubmittedAt time.Time `json:"submittedAt"`
}

func (r InteractionResponse) IsGraded() bool {
	return r.Correct != nil
}

func (r InteractionResponse) IsCorrect() bool {
	return r.Correct != nil && *r.Correct
}

// ConceptGroupKey 概念掌握度的归组键
func (r InteractionResponse) ConceptGroupKey() string {
	if r.ConceptKey != "" {
		return r.ConceptKey
	}
	return r.Kind
}

// ModuleInteractionProgress 学生在某个模块上的作答聚合，由评分流程写入，本服务只读
type ModuleInteractionProgress struct {
	BaseModel
	StudentID       string                                   `gorm:"size:36;not null;uniqueIndex:idx_progress_student_module,priority:1;index:idx_progress_student_course,priority:1" json:"studentId"`
	CourseID        string                                   `gorm:"size:36;not null;index:idx_progress_student_course,priority:2" json:"courseId"`
	ModuleID        string                                   `gorm:"size:36;not null;uniqueIndex:idx_progress_student_module,priority:2" json:"moduleId"`
	Responses       datatypes.JSONSlice[InteractionResponse] `gorm:"type:json" json:"responses"`
	TotalScore      float64                                  `gorm:"default:0" json:"totalScore"`
	MaxScore        float64                                  `gorm:"default:0" json:"maxScore"`
	PercentComplete float64                                  `gorm:"default:0" json:"percentComplete"`
}

func (ModuleInteractionProgress) TableName() string {
	return "module_interaction_progress"
}

func BoolPtr(b bool) *bool {
	return &b
}

func Float64Ptr(f float64) *float64 {
	return &f
}
