package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

func exercise(id, name, course string, week int, tags ...string) domain.Exercise {
	return domain.Exercise{ID: id, Name: name, Course: course, Week: week, Tags: tags}
}

func TestHierarchyStore_ReplaceWeekExercises(t *testing.T) {
	store := NewHierarchyStore(nil)
	ctx := context.Background()

	require.NoError(t, store.ReplaceWeekExercises(ctx, "Algebra", 1, []domain.Exercise{
		exercise("a", "Ex A", "Algebra", 1, "exercise"),
		exercise("b", "Ex B", "Algebra", 1, "homework"),
	}))
	require.NoError(t, store.ReplaceWeekExercises(ctx, "Algebra", 1, []domain.Exercise{
		exercise("c", "Ex C", "Algebra", 1, "exam"),
	}))

	course, err := store.GetCourse(ctx, "Algebra")
	require.NoError(t, err)
	require.Len(t, course.Weeks, 1)
	require.Len(t, course.Weeks[0].Exercises, 1)
	assert.Equal(t, "c", course.Weeks[0].Exercises[0].ID)
}

func TestHierarchyStore_UpdateExercise(t *testing.T) {
	store := NewHierarchyStore(nil)
	ctx := context.Background()

	require.NoError(t, store.UpsertExercise(ctx, exercise("a", "Old", "Algebra", 1, "exercise")))
	require.NoError(t, store.UpdateExercise(ctx, "a", "New", []string{"homework"}))

	results, err := store.Search(ctx, "new")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"homework"}, results[0].Tags)

	err = store.UpdateExercise(ctx, "missing", "X", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHierarchyStore_DeleteSweepsAssets(t *testing.T) {
	assets := NewAssetStore()
	store := NewHierarchyStore(assets)
	ctx := context.Background()

	ex := exercise("a", "Ex A", "Algebra", 1, "exercise")
	ex.PageImagePath = "images/page.png"
	ex.ImagePath = "images/crop.png"
	require.NoError(t, store.UpsertExercise(ctx, ex))

	require.NoError(t, store.DeleteCourse(ctx, "Algebra"))
	assert.ElementsMatch(t, []string{"images/page.png", "images/crop.png"}, assets.Deleted())
}

func TestHierarchyStore_DeleteKeepsSharedPageImage(t *testing.T) {
	assets := NewAssetStore()
	store := NewHierarchyStore(assets)
	ctx := context.Background()

	pageRef, err := assets.Save("data:image/png;base64,cGFnZQ==")
	require.NoError(t, err)

	ex1 := exercise("ex-1", "Ex 1", "Algebra", 1, "exercise")
	ex1.PageImagePath = pageRef
	ex2 := exercise("ex-2", "Ex 2", "Algebra", 1, "exercise")
	ex2.PageImagePath = pageRef
	require.NoError(t, store.UpsertExercise(ctx, ex1))
	require.NoError(t, store.UpsertExercise(ctx, ex2))

	require.NoError(t, store.DeleteExercise(ctx, "ex-1"))

	// The page image is still referenced by the sibling and stays
	// readable.
	_, err = assets.Read(pageRef)
	require.NoError(t, err)
	assert.Empty(t, assets.Deleted())

	require.NoError(t, store.DeleteExercise(ctx, "ex-2"))
	assert.Equal(t, []string{pageRef}, assets.Deleted())
}

func TestHierarchyStore_RenameCourse(t *testing.T) {
	store := NewHierarchyStore(nil)
	ctx := context.Background()

	require.NoError(t, store.UpsertExercise(ctx, exercise("a", "Ex A", "Algebra", 1, "exercise")))
	require.NoError(t, store.UpsertExercise(ctx, exercise("b", "Ex B", "Calculus", 1, "exercise")))

	err := store.RenameCourse(ctx, "Algebra", "Calculus")
	assert.ErrorIs(t, err, domain.ErrIntegrityViolation)

	require.NoError(t, store.RenameCourse(ctx, "Algebra", "Linear Algebra"))
	course, err := store.GetCourse(ctx, "Linear Algebra")
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", course.Weeks[0].Exercises[0].Course)

	err = store.RenameCourse(ctx, "Missing", "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHierarchyStore_FilterByTags(t *testing.T) {
	store := NewHierarchyStore(nil)
	ctx := context.Background()

	require.NoError(t, store.UpsertExercise(ctx, exercise("a", "Ex A", "ML", 1, "homework", "trees")))
	require.NoError(t, store.UpsertExercise(ctx, exercise("b", "Ex B", "ML", 1, "exercise")))

	results, err := store.FilterByTags(ctx, []string{"TREES"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestAssetStore_RoundTrip(t *testing.T) {
	assets := NewAssetStore()

	ref, err := assets.Save("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, 1, assets.Len())

	data, err := assets.Read(ref)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", data)

	require.NoError(t, assets.Delete(ref))
	assert.Equal(t, 0, assets.Len())
	_, err = assets.Read(ref)
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}
