package service

import (
	"adaptive_learning_backend/internal/model"
	"math"
)

const (
	RecommendSlowDown      = "Slow down and read each question carefully before answering."
	RecommendReview        = "Review the previous material before moving on."
	RecommendSimplify      = "Switch to simpler explanations of the core ideas."
	RecommendExtraExamples = "Work through additional worked examples."
	RecommendSpeedUp       = "You are ready to move faster through the material."
	RecommendChallenge     = "Try the challenge problems to stretch your skills."
	RecommendEncouragement = "Great work, keep up the steady progress!"
)

type DifficultyAdjustment struct {
	CurrentDifficulty int      `json:"currentDifficulty"`
	NewDifficulty     int      `json:"newDifficulty"`
	Adjustment        int      `json:"adjustment"`
	Reason            string   `json:"reason"`
	Recommendations   []string `json:"recommendations"`
}

// CalculateDifficultyAdjustment 规则按优先级匹配，第一条命中即返回
func CalculateDifficultyAdjustment(m model.LearningMetrics, current int) DifficultyAdjustment {
	current = clampDifficulty(current)

	var (
		adj    int
		reason string
		recs   []string
	)
	switch {
	case m.IncorrectStreak >= 3:
		adj, reason = -2, "multiple consecutive incorrect answers"
		recs = []string{RecommendSlowDown, RecommendReview}
	case m.Accuracy < 50:
		adj, reason = -2, "accuracy below 50%"
		recs = []string{RecommendSimplify, RecommendExtraExamples}
	case m.Accuracy < 70:
		adj, reason = -1, "accuracy between 50% and 70%"
		recs = []string{RecommendExtraExamples}
	case m.Accuracy >= 90 && m.RecentTrend == model.TrendImproving:
		adj, reason = 2, "excellent accuracy with an improving trend"
		recs = []string{RecommendSpeedUp, RecommendChallenge}
	case m.CorrectStreak >= 5:
		adj, reason = 1, "long streak of correct answers"
		recs = []string{RecommendChallenge}
	case m.RecentTrend == model.TrendDeclining:
		adj, reason = 0, "good accuracy but performance is declining"
		recs = []string{RecommendReview}
	default:
		adj, reason = 0, "performance is on track"
		recs = []string{RecommendEncouragement}
	}

	next := clampDifficulty(current + adj)
	return DifficultyAdjustment{
		CurrentDifficulty: current,
		NewDifficulty:     next,
		Adjustment:        next - current,
		Reason:            reason,
		Recommendations:   recs,
	}
}

// ShouldSkipModule 表现优秀且模块难度比当前等级低 2 级以上时自动跳过
func ShouldSkipModule(m model.LearningMetrics, moduleDifficulty, currentLevel int) bool {
	return m.Accuracy >= 90 &&
		m.RecentTrend == model.TrendImproving &&
		moduleDifficulty <= currentLevel-2
}

type ModuleCandidate struct {
	ModuleID   string `json:"moduleId"`
	Title      string `json:"title"`
	Difficulty int    `json:"difficulty"`
	Order      int    `json:"order"`
	Completed  bool   `json:"completed"`
}

type NextModuleSelection struct {
	Module  *ModuleCandidate `json:"module,omitempty"`
	Skipped []string         `json:"skipped"`
}

// SelectNextModule 选难度最接近当前等级的未完成模块；
// 距离相同时准确率 <70 偏向更简单的，>=90 偏向更难的，否则按课程顺序
func SelectNextModule(m model.LearningMetrics, currentLevel int, candidates []ModuleCandidate) NextModuleSelection {
	currentLevel = clampDifficulty(currentLevel)
	sel := NextModuleSelection{Skipped: []string{}}

	var best *ModuleCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.Completed {
			continue
		}
		if ShouldSkipModule(m, c.Difficulty, currentLevel) {
			sel.Skipped = append(sel.Skipped, c.ModuleID)
			continue
		}
		if best == nil || betterCandidate(m.Accuracy, currentLevel, c, best) {
			best = c
		}
	}
	if best != nil {
		chosen := *best
		sel.Module = &chosen
	}
	return sel
}

func betterCandidate(accuracy float64, level int, a, b *ModuleCandidate) bool {
	da := math.Abs(float64(a.Difficulty - level))
	db := math.Abs(float64(b.Difficulty - level))
	if da != db {
		return da < db
	}
	if a.Difficulty != b.Difficulty {
		switch {
		case accuracy < 70:
			return a.Difficulty < b.Difficulty
		case accuracy >= 90:
			return a.Difficulty > b.Difficulty
		}
	}
	return a.Order < b.Order
}
