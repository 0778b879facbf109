package driven

import (
	"context"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

// HierarchyStore persists the course -> week -> exercise hierarchy with
// referential integrity. Backed by SQLite.
//
// Course and week rows are created implicitly on first save for their
// natural key; they are never created explicitly. Deletions cascade
// downward and instruct the asset store to remove files referenced by
// the deleted exercises. Asset removal is best-effort: a file-deletion
// failure never fails the row deletion.
type HierarchyStore interface {
	// ReplaceWeekExercises atomically makes the stored exercise set for
	// (course, week) exactly equal to exercises. The course and week
	// rows are created if absent; existing exercises for the week are
	// deleted first. All of this happens in a single transaction.
	ReplaceWeekExercises(ctx context.Context, course string, week int, exercises []domain.Exercise) error

	// UpsertExercise inserts or replaces a single exercise by ID,
	// creating its course and week rows if absent.
	UpsertExercise(ctx context.Context, exercise domain.Exercise) error

	// UpdateExercise updates the name and tags of an existing exercise.
	UpdateExercise(ctx context.Context, id, name string, tags []string) error

	// DeleteExercise removes an exercise and best-effort removes its
	// referenced asset files, keeping any file another exercise still
	// references (page images are shared by every exercise on the same
	// page). Deleting an absent exercise is a no-op.
	DeleteExercise(ctx context.Context, id string) error

	// DeleteWeek removes a week and all its exercises.
	DeleteWeek(ctx context.Context, course string, week int) error

	// DeleteCourse removes a course, cascading to all weeks and
	// exercises, and sweeps every asset those exercises referenced.
	DeleteCourse(ctx context.Context, course string) error

	// RenameCourse changes a course's name on all matching rows.
	// Returns domain.ErrIntegrityViolation if the new name is taken,
	// validated before commit.
	RenameCourse(ctx context.Context, oldName, newName string) error

	// ListAll returns the full hierarchy with courses ordered by name,
	// weeks by number, and exercises by name.
	ListAll(ctx context.Context) ([]domain.Course, error)

	// GetCourse returns one course branch, or domain.ErrNotFound.
	GetCourse(ctx context.Context, name string) (*domain.Course, error)

	// Search returns exercises whose name contains the query as a
	// substring, case-insensitively for ASCII content, ordered by name.
	Search(ctx context.Context, query string) ([]domain.Exercise, error)

	// FilterByTags returns exercises sharing at least one tag with the
	// filter set, compared case-insensitively.
	FilterByTags(ctx context.Context, tags []string) ([]domain.Exercise, error)
}

// SettingsStore persists flat key/value application settings such as
// the classification-service credential.
type SettingsStore interface {
	// SetSetting stores or replaces a settings value.
	SetSetting(ctx context.Context, key, value string) error

	// GetSetting retrieves a settings value, or domain.ErrNotFound.
	GetSetting(ctx context.Context, key string) (string, error)
}
