package model

import "time"

// Course 只保留引擎需要的课程级平均值
type Course struct {
	UUIDBase
	Title                    string  `gorm:"size:255;not null" json:"title"`
	ExpectedMinutesPerModule float64 `gorm:"default:0" json:"expectedMinutesPerModule"`
	AverageAccuracy          float64 `gorm:"default:0" json:"averageAccuracy"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseModule struct {
	UUIDBase
	CourseID   string `gorm:"size:36;not null;index" json:"courseId"`
	Title      string `gorm:"size:255;not null" json:"title"`
	ConceptKey string `gorm:"size:191" json:"conceptKey"`
	Difficulty int    `gorm:"default:5" json:"difficulty"`
	Order      int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type Enrollment struct {
	BaseModel
	StudentID        string     `gorm:"size:36;not null;uniqueIndex:idx_enrollment,priority:1" json:"studentId"`
	CourseID         string     `gorm:"size:36;not null;uniqueIndex:idx_enrollment,priority:2;index" json:"courseId"`
	EnrolledAt       time.Time  `json:"enrolledAt"`
	LastAccessedAt   *time.Time `json:"lastAccessedAt,omitempty"`
	CompletedModules int        `gorm:"default:0" json:"completedModules"`
	Status           string     `gorm:"size:20;default:active" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

type AssessmentScore struct {
	BaseModel
	StudentID    string    `gorm:"size:36;not null;index:idx_assessment_student_course,priority:1" json:"studentId"`
	CourseID     string    `gorm:"size:36;not null;index:idx_assessment_student_course,priority:2" json:"courseId"`
	AssessmentID string    `gorm:"size:36" json:"assessmentId"`
	Score        float64   `json:"score"`
	TakenAt      time.Time `json:"takenAt"`
}

func (AssessmentScore) TableName() string {
	return "assessment_scores"
}

// CourseAverages 课程范围的参考值
type CourseAverages struct {
	ExpectedMinutesPerModule float64 `json:"expectedMinutesPerModule"`
	AverageAccuracy          float64 `json:"averageAccuracy"`
}
