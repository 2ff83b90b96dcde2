package service

import (
	"adaptive_learning_backend/internal/model"
	"math"
	"sort"
)

const (
	masteredThreshold   = 80.0
	strugglingThreshold = 60.0

	trendMinResponses = 5
	trendWindow       = 10
	trendDelta        = 10.0
)

// PerformanceMetrics 由作答记录聚合得到的学习指标
type PerformanceMetrics struct {
	Accuracy               float64            `json:"accuracy"`
	AverageTimePerQuestion float64            `json:"averageTimePerQuestion"`
	ConceptMastery         map[string]float64 `json:"conceptMastery"`
	MasteredConcepts       []string           `json:"masteredConcepts"`
	StrugglingConcepts     []string           `json:"strugglingConcepts"`
	CorrectStreak          int                `json:"correctStreak"`
	IncorrectStreak        int                `json:"incorrectStreak"`
	RecentTrend            model.Trend        `json:"recentTrend"`
	AverageScore           float64            `json:"averageScore"`
	CompletionRate         float64            `json:"completionRate"`
	DifficultyLevel        int                `json:"difficultyLevel"`
	TotalResponses         int                `json:"totalResponses"`
	GradedResponses        int                `json:"gradedResponses"`
}

// Snapshot 转换为其他引擎使用的 LearningMetrics
func (m PerformanceMetrics) Snapshot(studentID, courseID string) model.LearningMetrics {
	return model.LearningMetrics{
		StudentID:          studentID,
		CourseID:           courseID,
		Accuracy:           m.Accuracy,
		ConceptMastery:     m.ConceptMastery,
		MasteredConcepts:   m.MasteredConcepts,
		StrugglingConcepts: m.StrugglingConcepts,
		CorrectStreak:      m.CorrectStreak,
		IncorrectStreak:    m.IncorrectStreak,
		RecentTrend:        m.RecentTrend,
		DifficultyLevel:    m.DifficultyLevel,
		GradedResponses:    m.GradedResponses,
	}
}

// CalculateMetrics 聚合学生在一门课程上的全部作答；prior 为已存储的快照，可为 nil
func CalculateMetrics(progress []model.ModuleInteractionProgress, prior *model.LearningMetrics) PerformanceMetrics {
	var (
		all        []model.InteractionResponse
		graded     []model.InteractionResponse
		totalScore float64
		maxScore   float64
		completed  int
	)
	for _, p := range progress {
		for _, r := range p.Responses {
			all = append(all, r)
			if r.IsGraded() {
				graded = append(graded, r)
			}
		}
		totalScore += p.TotalScore
		maxScore += p.MaxScore
		if p.PercentComplete >= 100 {
			completed++
		}
	}

	sort.SliceStable(graded, func(i, j int) bool {
		return graded[i].SubmittedAt.Before(graded[j].SubmittedAt)
	})

	m := PerformanceMetrics{
		Accuracy:        accuracyOf(graded),
		RecentTrend:     calculateTrend(graded),
		DifficultyLevel: model.DefaultDifficulty,
		TotalResponses:  len(all),
		GradedResponses: len(graded),
	}

	if len(all) > 0 {
		var spent float64
		for _, r := range all {
			spent += r.TimeSpent
		}
		m.AverageTimePerQuestion = math.Round(spent / float64(len(all)))
	}
	if maxScore > 0 {
		m.AverageScore = clampPercent(math.Round(totalScore / maxScore * 100))
	}
	if len(progress) > 0 {
		m.CompletionRate = math.Round(float64(completed) / float64(len(progress)) * 100)
	}

	m.CorrectStreak, m.IncorrectStreak = calculateStreaks(graded)

	mastery := conceptMastery(graded)
	var mastered, struggling []string
	for concept, pct := range mastery {
		if pct >= masteredThreshold {
			mastered = append(mastered, concept)
		}
		if pct < strugglingThreshold {
			struggling = append(struggling, concept)
		}
	}
	sort.Strings(mastered)
	sort.Strings(struggling)

	if prior == nil {
		m.ConceptMastery = mastery
		m.MasteredConcepts = mastered
		m.StrugglingConcepts = struggling
		return m
	}

	// 与已有快照合并：集合只增不减，掌握度按本次重新计算的概念覆盖
	m.ConceptMastery = make(map[string]float64, len(prior.ConceptMastery)+len(mastery))
	for k, v := range prior.ConceptMastery {
		m.ConceptMastery[k] = v
	}
	for k, v := range mastery {
		m.ConceptMastery[k] = v
	}
	m.MasteredConcepts = unionStrings(prior.MasteredConcepts, mastered)
	m.StrugglingConcepts = unionStrings(prior.StrugglingConcepts, struggling)

	if len(graded) == 0 {
		m.CorrectStreak = prior.CorrectStreak
		m.IncorrectStreak = prior.IncorrectStreak
	}
	if prior.DifficultyLevel != 0 {
		m.DifficultyLevel = clampDifficulty(prior.DifficultyLevel)
	}
	return m
}

func accuracyOf(graded []model.InteractionResponse) float64 {
	if len(graded) == 0 {
		return 0
	}
	correct := 0
	for _, r := range graded {
		if r.IsCorrect() {
			correct++
		}
	}
	return clampPercent(math.Round(float64(correct) / float64(len(graded)) * 100))
}

// calculateTrend graded 需按提交时间升序；总数不超过一个窗口时，最近一半与之前一半比较
func calculateTrend(graded []model.InteractionResponse) model.Trend {
	n := len(graded)
	if n < trendMinResponses {
		return model.TrendStable
	}
	window := trendWindow
	if n <= trendWindow {
		window = n / 2
	}
	recentStart := n - window
	previousStart := recentStart - trendWindow
	if previousStart < 0 {
		previousStart = 0
	}

	recent := accuracyOf(graded[recentStart:])
	previous := accuracyOf(graded[previousStart:recentStart])
	switch diff := recent - previous; {
	case diff > trendDelta:
		return model.TrendImproving
	case diff < -trendDelta:
		return model.TrendDeclining
	}
	return model.TrendStable
}

// calculateStreaks graded 需按提交时间升序，从最新一条向前数
func calculateStreaks(graded []model.InteractionResponse) (correct, incorrect int) {
	if len(graded) == 0 {
		return 0, 0
	}
	last := graded[len(graded)-1].IsCorrect()
	run := 0
	for i := len(graded) - 1; i >= 0; i-- {
		if graded[i].IsCorrect() != last {
			break
		}
		run++
	}
	if last {
		return run, 0
	}
	return 0, run
}

func conceptMastery(graded []model.InteractionResponse) map[string]float64 {
	type tally struct{ correct, total int }
	groups := make(map[string]*tally)
	for _, r := range graded {
		key := r.ConceptGroupKey()
		if key == "" {
			continue
		}
		t, ok := groups[key]
		if !ok {
			t = &tally{}
			groups[key] = t
		}
		t.total++
		if r.IsCorrect() {
			t.correct++
		}
	}

	mastery := make(map[string]float64, len(groups))
	for k, t := range groups {
		mastery[k] = clampPercent(math.Round(float64(t.correct) / float64(t.total) * 100))
	}
	return mastery
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func clampDifficulty(d int) int {
	if d < model.MinDifficulty {
		return model.MinDifficulty
	}
	if d > model.MaxDifficulty {
		return model.MaxDifficulty
	}
	return d
}
