package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/util"
	"adaptive_learning_backend/pkg/logger"
	"adaptive_learning_backend/pkg/monitoring"
	"adaptive_learning_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type LearningPathService struct {
	Paths    LearningPathStore
	Progress ProgressStore
	Metrics  *MetricsService
	now      func() time.Time
}

func NewLearningPathService(paths LearningPathStore, progress ProgressStore, metrics *MetricsService) *LearningPathService {
	return &LearningPathService{Paths: paths, Progress: progress, Metrics: metrics, now: time.Now}
}

type PathEvaluation struct {
	Decision BranchDecision             `json:"decision"`
	Applied  bool                       `json:"applied"`
	Path     *model.StudentLearningPath `json:"path"`
}

// GenerateCoursePath 根据课程模块重新生成课程路径
func (s *LearningPathService) GenerateCoursePath(ctx context.Context, courseID string) (p *model.CourseLearningPath, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearningPathService.GenerateCoursePath", attribute.String("course.id", courseID))
	defer func() { tracing.EndSpan(span, err) }()

	modules, err := s.Progress.ListCourseModules(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("%w: course %s has no modules", util.ErrLearningPathNotFound, courseID)
	}
	for _, m := range modules {
		if m.Difficulty < model.MinDifficulty || m.Difficulty > model.MaxDifficulty {
			return nil, fmt.Errorf("%w: module %s has difficulty %d", util.ErrInvalidDifficulty, m.ID, m.Difficulty)
		}
	}

	generated := GenerateLearningPath(courseID, modules)
	saved, err := s.Paths.UpsertCoursePath(ctx, &generated)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("课程学习路径已生成",
		zap.String("courseId", courseID),
		zap.Int("nodes", len(saved.Nodes)),
		zap.Int("branches", len(saved.Branches)),
	)
	return saved, nil
}

// GetStudentPath 不存在时在第一个节点创建；并发创建时以先写入者为准
func (s *LearningPathService) GetStudentPath(ctx context.Context, studentID, courseID string) (*model.StudentLearningPath, error) {
	p, err := s.Paths.GetStudentPath(ctx, studentID, courseID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, util.ErrLearningPathNotFound) {
		return nil, err
	}

	course, err := s.Paths.GetCoursePath(ctx, courseID)
	if err != nil {
		return nil, err
	}
	p = &model.StudentLearningPath{
		StudentID:      studentID,
		CourseID:       courseID,
		CompletedNodes: []string{},
		SkippedNodes:   []string{},
		BranchHistory:  []model.BranchEvent{},
		Version:        1,
	}
	if len(course.Nodes) > 0 {
		p.CurrentNodeID = course.Nodes[0].ID
	}
	if err := s.Paths.CreateStudentPath(ctx, p); err != nil {
		if repository.IsDuplicateKey(err) {
			return s.Paths.GetStudentPath(ctx, studentID, courseID)
		}
		return nil, err
	}
	return p, nil
}

// Evaluate 计算分支决策；apply 为 true 且命中时直接应用
func (s *LearningPathService) Evaluate(ctx context.Context, studentID, courseID string, apply bool) (ev *PathEvaluation, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearningPathService.Evaluate",
		attribute.String("student.id", studentID),
		attribute.String("course.id", courseID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	course, err := s.Paths.GetCoursePath(ctx, courseID)
	if err != nil {
		return nil, err
	}
	state, err := s.GetStudentPath(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.Metrics.Snapshot(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	decision := CheckBranchConditions(snapshot, course.Branches, *state)
	label := "none"
	if decision.ShouldBranch {
		label = string(decision.Branch.Type)
	}
	monitoring.BranchDecisions.WithLabelValues(label).Inc()

	ev = &PathEvaluation{Decision: decision, Path: state}
	if apply && decision.ShouldBranch {
		applied, err := s.ApplyBranch(ctx, studentID, courseID, decision.Branch.ID, decision.Reason)
		if err != nil {
			return nil, err
		}
		ev.Applied = true
		ev.Path = applied
	}
	return ev, nil
}

// ApplyBranch 跳转到分支目标节点并记录历史；跳级分支跨过的节点记为已跳过
func (s *LearningPathService) ApplyBranch(ctx context.Context, studentID, courseID, branchID, reason string) (*model.StudentLearningPath, error) {
	course, err := s.Paths.GetCoursePath(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var branch *model.PathBranch
	for i := range course.Branches {
		if course.Branches[i].ID == branchID {
			branch = &course.Branches[i]
			break
		}
	}
	if branch == nil {
		return nil, util.ErrBranchNotFound
	}
	if course.NodeIndex(branch.ToNodeID) < 0 {
		return nil, util.ErrNodeNotFound
	}

	var result *model.StudentLearningPath
	err = withVersionRetry(ctx, "student_learning_path", func() error {
		p, err := s.GetStudentPath(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		from := p.CurrentNodeID
		if branch.Type == model.BranchAdvanced {
			start, end := course.NodeIndex(from), course.NodeIndex(branch.ToNodeID)
			for i := start + 1; start >= 0 && i < end; i++ {
				id := course.Nodes[i].ID
				if !p.IsCompleted(id) && !p.IsSkipped(id) {
					p.SkippedNodes = append(p.SkippedNodes, id)
				}
			}
		}
		p.CurrentNodeID = branch.ToNodeID
		p.BranchHistory = append(p.BranchHistory, model.BranchEvent{
			BranchID:   branch.ID,
			Type:       branch.Type,
			FromNodeID: from,
			ToNodeID:   branch.ToNodeID,
			Reason:     reason,
			At:         s.now(),
		})
		if err := s.Paths.UpdateStudentPathVersioned(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("学习路径分支已应用",
		zap.String("studentId", studentID),
		zap.String("courseId", courseID),
		zap.String("branchId", branchID),
		zap.String("type", string(branch.Type)),
	)
	return result, nil
}

// CompleteNode 标记节点完成；完成的是当前节点时前进到下一个未完成、未跳过的节点
func (s *LearningPathService) CompleteNode(ctx context.Context, studentID, courseID, nodeID string) (*model.StudentLearningPath, error) {
	course, err := s.Paths.GetCoursePath(ctx, courseID)
	if err != nil {
		return nil, err
	}
	idx := course.NodeIndex(nodeID)
	if idx < 0 {
		return nil, util.ErrNodeNotFound
	}

	var result *model.StudentLearningPath
	err = withVersionRetry(ctx, "student_learning_path", func() error {
		p, err := s.GetStudentPath(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if !p.IsCompleted(nodeID) {
			p.CompletedNodes = append(p.CompletedNodes, nodeID)
		}
		if p.CurrentNodeID == nodeID {
			p.CurrentNodeID = ""
			for i := idx + 1; i < len(course.Nodes); i++ {
				id := course.Nodes[i].ID
				if !p.IsCompleted(id) && !p.IsSkipped(id) {
					p.CurrentNodeID = id
					break
				}
			}
		}
		if err := s.Paths.UpdateStudentPathVersioned(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
