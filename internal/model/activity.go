package model

import (
	"time"

	"gorm.io/datatypes"
)

// DailyActivity 每个学生每门课每天一条，只追加
type DailyActivity struct {
	BaseModel
	StudentID             string         `gorm:"size:36;not null;uniqueIndex:idx_activity_day,priority:1" json:"studentId"`
	CourseID              string         `gorm:"size:36;not null;uniqueIndex:idx_activity_day,priority:2" json:"courseId"`
	Date                  datatypes.Date `gorm:"not null;uniqueIndex:idx_activity_day,priority:3" json:"date"`
	MinutesSpent          float64        `gorm:"default:0" json:"minutesSpent"`
	ModulesViewed         int            `gorm:"default:0" json:"modulesViewed"`
	InteractionsCompleted int            `gorm:"default:0" json:"interactionsCompleted"`
	AccuracyPercentage    float64        `gorm:"default:0" json:"accuracyPercentage"`
}

func (DailyActivity) TableName() string {
	return "daily_activities"
}

func (a DailyActivity) Day() time.Time {
	return time.Time(a.Date)
}
