package model

import "time"

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewItem 一张间隔重复卡片，(student, module, concept) 唯一；只会重新排期，不会删除
type ReviewItem struct {
	UUIDBase
	StudentID      string     `gorm:"size:36;not null;uniqueIndex:idx_review_item_key,priority:1;index:idx_review_due,priority:1" json:"studentId"`
	CourseID       string     `gorm:"size:36;not null;index" json:"courseId"`
	ModuleID       string     `gorm:"size:36;not null;uniqueIndex:idx_review_item_key,priority:2" json:"moduleId"`
	ConceptKey     string     `gorm:"size:191;not null;uniqueIndex:idx_review_item_key,priority:3" json:"conceptKey"`
	Question       string     `gorm:"type:text" json:"question"`
	Answer         string     `gorm:"type:text" json:"answer"`
	EaseFactor     float64    `gorm:"not null;default:2.5" json:"easeFactor"`
	Interval       int        `gorm:"column:interval_days;not null;default:0" json:"interval"`
	Repetitions    int        `gorm:"not null;default:0" json:"repetitions"`
	NextReviewDate time.Time  `gorm:"not null;index:idx_review_due,priority:2" json:"nextReviewDate"`
	LastReviewDate *time.Time `json:"lastReviewDate,omitempty"`
	CorrectCount   int        `gorm:"default:0" json:"correctCount"`
	IncorrectCount int        `gorm:"default:0" json:"incorrectCount"`
	TotalTimeSpent float64    `gorm:"default:0" json:"totalTimeSpent"`
	Version        int        `gorm:"not null;default:1" json:"version"`
}

func (ReviewItem) TableName() string {
	return "review_items"
}
