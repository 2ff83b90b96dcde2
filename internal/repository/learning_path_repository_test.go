package repository

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/testutil"
	"adaptive_learning_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearningPathRepository_UpsertCoursePath(t *testing.T) {
	repo := NewLearningPathRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.GetCoursePath(ctx, "c1")
	assert.ErrorIs(t, err, util.ErrLearningPathNotFound)

	first, err := repo.UpsertCoursePath(ctx, &model.CourseLearningPath{
		CourseID: "c1",
		Nodes:    []model.ConceptNode{{ID: "n1", Difficulty: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := repo.UpsertCoursePath(ctx, &model.CourseLearningPath{
		CourseID: "c1",
		Nodes:    []model.ConceptNode{{ID: "n1"}, {ID: "n2"}},
		Branches: []model.PathBranch{{ID: "b1", ToNodeID: "n1", Type: model.BranchRemedial}},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Version)
	assert.Len(t, second.Nodes, 2)
	assert.Len(t, second.Branches, 1)
}

func TestLearningPathRepository_StudentPath(t *testing.T) {
	repo := NewLearningPathRepository(testutil.NewDB(t))
	ctx := context.Background()

	p := &model.StudentLearningPath{StudentID: "s1", CourseID: "c1", CurrentNodeID: "n1"}
	require.NoError(t, repo.CreateStudentPath(ctx, p))
	assert.True(t, IsDuplicateKey(repo.CreateStudentPath(ctx, &model.StudentLearningPath{StudentID: "s1", CourseID: "c1"})))

	stale, err := repo.GetStudentPath(ctx, "s1", "c1")
	require.NoError(t, err)

	p.CompletedNodes = []string{"n1"}
	p.CurrentNodeID = "n2"
	require.NoError(t, repo.UpdateStudentPathVersioned(ctx, p))
	assert.ErrorIs(t, repo.UpdateStudentPathVersioned(ctx, stale), util.ErrVersionConflict)

	got, err := repo.GetStudentPath(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "n2", got.CurrentNodeID)
	assert.Equal(t, []string{"n1"}, got.CompletedNodes)
	assert.Equal(t, 2, got.Version)
}
