package model

import (
	"time"

	"gorm.io/datatypes"
)

type ConceptNode struct {
	ID            string   `json:"id"`
	ModuleID      string   `json:"moduleId"`
	ConceptKey    string   `json:"conceptKey"`
	Title         string   `json:"title"`
	Difficulty    int      `json:"difficulty"`
	Order         int      `json:"order"`
	Prerequisites []string `json:"prerequisites"`
}

type BranchConditionType string

const (
	ConditionAccuracyBelow     BranchConditionType = "accuracy_below"
	ConditionAccuracyAbove     BranchConditionType = "accuracy_above"
	ConditionStrugglingConcept BranchConditionType = "struggling_concept"
	ConditionMasteredConcept   BranchConditionType = "mastered_concept"
)

type BranchCondition struct {
	Type       BranchConditionType `json:"type"`
	Threshold  float64             `json:"threshold,omitempty"`
	ConceptKey string              `json:"conceptKey,omitempty"`
}

type BranchType string

const (
	BranchRemedial BranchType = "remedial"
	BranchAdvanced BranchType = "advanced"
)

type PathBranch struct {
	ID         string          `json:"id"`
	FromNodeID string          `json:"fromNodeId,omitempty"` // 为空表示课程级规则
	ToNodeID   string          `json:"toNodeId"`
	Type       BranchType      `json:"type"`
	Condition  BranchCondition `json:"condition"`
}

// CourseLearningPath 课程级路径图，一门课一条
type CourseLearningPath struct {
	UUIDBase
	CourseID string                           `gorm:"size:36;not null;uniqueIndex" json:"courseId"`
	Nodes    datatypes.JSONSlice[ConceptNode] `gorm:"type:json" json:"nodes"`
	Branches datatypes.JSONSlice[PathBranch]  `gorm:"type:json" json:"branches"`
	Version  int                              `gorm:"not null;default:1" json:"version"`
}

func (CourseLearningPath) TableName() string {
	return "course_learning_paths"
}

func (p *CourseLearningPath) NodeIndex(nodeID string) int {
	for i, n := range p.Nodes {
		if n.ID == nodeID {
			return i
		}
	}
	return -1
}

type BranchEvent struct {
	BranchID   string     `json:"branchId"`
	Type       BranchType `json:"type"`
	FromNodeID string     `json:"fromNodeId"`
	ToNodeID   string     `json:"toNodeId"`
	Reason     string     `json:"reason"`
	At         time.Time  `json:"at"`
}

// StudentLearningPath 学生在课程路径上的位置，使用 Version 做乐观并发控制
type StudentLearningPath struct {
	UUIDBase
	StudentID      string        `gorm:"size:36;not null;uniqueIndex:idx_student_path,priority:1" json:"studentId"`
	CourseID       string        `gorm:"size:36;not null;uniqueIndex:idx_student_path,priority:2" json:"courseId"`
	CurrentNodeID  string        `gorm:"size:64" json:"currentNodeId"`
	CompletedNodes []string      `gorm:"serializer:json;type:json" json:"completedNodes"`
	SkippedNodes   []string      `gorm:"serializer:json;type:json" json:"skippedNodes"`
	BranchHistory  []BranchEvent `gorm:"serializer:json;type:json" json:"branchHistory"`
	Version        int           `gorm:"not null;default:1" json:"version"`
}

func (StudentLearningPath) TableName() string {
	return "student_learning_paths"
}

func (p *StudentLearningPath) IsCompleted(nodeID string) bool {
	return containsString(p.CompletedNodes, nodeID)
}

func (p *StudentLearningPath) IsSkipped(nodeID string) bool {
	return containsString(p.SkippedNodes, nodeID)
}
