package service

import (
	"adaptive_learning_backend/internal/model"
	"fmt"
	"sort"
)

const (
	branchErrorStreak   = 3
	branchCorrectStreak = 5

	remedialJump       = 3
	remedialThreshold  = 60.0
	advancedMaxLevel   = 5
	advancedThreshold  = 90.0
	advancedSkipOffset = 2
)

type BranchDecision struct {
	ShouldBranch bool              `json:"shouldBranch"`
	Branch       *model.PathBranch `json:"branch,omitempty"`
	Reason       string            `json:"reason"`
}

// CheckBranchConditions 只考虑挂在当前节点上或课程级的分支；按顺序第一条满足即返回。
// 补救分支本就指向已学过的节点，只有跳级分支会因目标已完成而忽略
func CheckBranchConditions(m model.LearningMetrics, branches []model.PathBranch, state model.StudentLearningPath) BranchDecision {
	for i := range branches {
		b := branches[i]
		if b.FromNodeID != "" && b.FromNodeID != state.CurrentNodeID {
			continue
		}
		if b.Type == model.BranchAdvanced && state.IsCompleted(b.ToNodeID) {
			continue
		}
		if ok, reason := conditionMet(m, b.Condition); ok {
			return BranchDecision{ShouldBranch: true, Branch: &b, Reason: reason}
		}
	}
	return BranchDecision{ShouldBranch: false, Reason: "no branch conditions met"}
}

func conditionMet(m model.LearningMetrics, c model.BranchCondition) (bool, string) {
	switch c.Type {
	case model.ConditionAccuracyBelow:
		if m.Accuracy < c.Threshold && m.IncorrectStreak >= branchErrorStreak {
			return true, fmt.Sprintf("accuracy %.0f%% is below %.0f%% with %d consecutive incorrect answers",
				m.Accuracy, c.Threshold, m.IncorrectStreak)
		}
	case model.ConditionAccuracyAbove:
		if m.Accuracy >= c.Threshold && m.CorrectStreak >= branchCorrectStreak {
			return true, fmt.Sprintf("accuracy %.0f%% meets %.0f%% with %d consecutive correct answers",
				m.Accuracy, c.Threshold, m.CorrectStreak)
		}
	case model.ConditionStrugglingConcept:
		if m.IsStruggling(c.ConceptKey) {
			return true, fmt.Sprintf("struggling with concept %q", c.ConceptKey)
		}
	case model.ConditionMasteredConcept:
		if m.HasMastered(c.ConceptKey) {
			return true, fmt.Sprintf("mastered concept %q", c.ConceptKey)
		}
	}
	return false, ""
}

// GenerateLearningPath 按模块顺序生成节点，并自动派生补救和跳级分支
func GenerateLearningPath(courseID string, modules []model.CourseModule) model.CourseLearningPath {
	ordered := make([]model.CourseModule, len(modules))
	copy(ordered, modules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	nodes := make([]model.ConceptNode, 0, len(ordered))
	for i, m := range ordered {
		concept := m.ConceptKey
		if concept == "" {
			concept = m.ID
		}
		node := model.ConceptNode{
			ID:            m.ID,
			ModuleID:      m.ID,
			ConceptKey:    concept,
			Title:         m.Title,
			Difficulty:    clampDifficulty(m.Difficulty),
			Order:         i + 1,
			Prerequisites: []string{},
		}
		if i > 0 {
			node.Prerequisites = []string{nodes[i-1].ID}
		}
		nodes = append(nodes, node)
	}

	branches := []model.PathBranch{}
	for i := 1; i < len(nodes); i++ {
		// 上一个节点即难度不高于跳变前水平的最近节点
		if nodes[i].Difficulty-nodes[i-1].Difficulty < remedialJump {
			continue
		}
		branches = append(branches, model.PathBranch{
			ID:         fmt.Sprintf("remedial-%s", nodes[i].ID),
			FromNodeID: nodes[i].ID,
			ToNodeID:   nodes[i-1].ID,
			Type:       model.BranchRemedial,
			Condition:  model.BranchCondition{Type: model.ConditionAccuracyBelow, Threshold: remedialThreshold},
		})
	}
	for i := 0; i+advancedSkipOffset < len(nodes); i++ {
		if nodes[i].Difficulty > advancedMaxLevel {
			continue
		}
		branches = append(branches, model.PathBranch{
			ID:         fmt.Sprintf("advanced-%s", nodes[i].ID),
			FromNodeID: nodes[i].ID,
			ToNodeID:   nodes[i+advancedSkipOffset].ID,
			Type:       model.BranchAdvanced,
			Condition:  model.BranchCondition{Type: model.ConditionAccuracyAbove, Threshold: advancedThreshold},
		})
	}

	return model.CourseLearningPath{
		CourseID: courseID,
		Nodes:    nodes,
		Branches: branches,
	}
}
