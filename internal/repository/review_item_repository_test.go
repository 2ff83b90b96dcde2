package repository

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/testutil"
	"adaptive_learning_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(student, module, concept string, due time.Time) *model.ReviewItem {
	return &model.ReviewItem{
		StudentID:      student,
		CourseID:       "c1",
		ModuleID:       module,
		ConceptKey:     concept,
		Question:       "q",
		Answer:         "a",
		EaseFactor:     model.DefaultEaseFactor,
		NextReviewDate: due,
	}
}

func TestReviewItemRepository_CreateDuplicate(t *testing.T) {
	repo := NewReviewItemRepository(testutil.NewDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newItem("s1", "m1", "loops", time.Now())))
	err := repo.Create(ctx, newItem("s1", "m1", "loops", time.Now()))
	assert.True(t, IsDuplicateKey(err), "got %v", err)

	found, err := repo.FindByKey(ctx, "s1", "m1", "loops")
	require.NoError(t, err)
	assert.Equal(t, 1, found.Version)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrReviewItemNotFound)
}

func TestReviewItemRepository_FindDue(t *testing.T) {
	repo := NewReviewItemRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newItem("s1", "m1", "a", now.AddDate(0, 0, -2))))
	require.NoError(t, repo.Create(ctx, newItem("s1", "m1", "b", util.StartOfDay(now))))
	require.NoError(t, repo.Create(ctx, newItem("s1", "m1", "c", now.AddDate(0, 0, 1))))
	require.NoError(t, repo.Create(ctx, newItem("s2", "m1", "a", now.AddDate(0, 0, -5))))

	due, err := repo.FindDue(ctx, "s1", "", util.EndOfDay(now), 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "a", due[0].ConceptKey)
	assert.Equal(t, "b", due[1].ConceptKey)

	due, err = repo.FindDue(ctx, "s1", "c1", util.EndOfDay(now), 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestReviewItemRepository_UpdateVersioned(t *testing.T) {
	repo := NewReviewItemRepository(testutil.NewDB(t))
	ctx := context.Background()

	item := newItem("s1", "m1", "loops", time.Now())
	require.NoError(t, repo.Create(ctx, item))

	stale, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)

	item.Repetitions = 1
	item.Interval = 1
	require.NoError(t, repo.UpdateVersioned(ctx, item))
	assert.Equal(t, 2, item.Version)

	stale.Repetitions = 5
	assert.ErrorIs(t, repo.UpdateVersioned(ctx, stale), util.ErrVersionConflict)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Repetitions)
	assert.Equal(t, 1, got.Interval)
	assert.Equal(t, 2, got.Version)
}
