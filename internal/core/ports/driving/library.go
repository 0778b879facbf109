package driving

import (
	"context"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

// LibraryService exposes the stored course/week/exercise hierarchy.
type LibraryService interface {
	// ReplaceWeekExercises atomically replaces the exercise set for a
	// week (creating course and week as needed).
	ReplaceWeekExercises(ctx context.Context, course string, week int, exercises []domain.Exercise) error

	// UpsertExercise inserts or replaces a single exercise by ID.
	UpsertExercise(ctx context.Context, exercise domain.Exercise) error

	// UpdateExercise edits the name and tags of an existing exercise.
	UpdateExercise(ctx context.Context, id, name string, tags []string) error

	// DeleteExercise removes an exercise and its asset files.
	DeleteExercise(ctx context.Context, id string) error

	// DeleteWeek removes a week and its exercises.
	DeleteWeek(ctx context.Context, course string, week int) error

	// DeleteCourse removes a course with all weeks and exercises.
	DeleteCourse(ctx context.Context, course string) error

	// RenameCourse renames a course, rejecting name collisions.
	RenameCourse(ctx context.Context, oldName, newName string) error

	// ListAll returns the full hierarchy.
	ListAll(ctx context.Context) ([]domain.Course, error)

	// GetCourse returns one course branch, or domain.ErrNotFound.
	GetCourse(ctx context.Context, name string) (*domain.Course, error)

	// Search finds exercises by name substring.
	Search(ctx context.Context, query string) ([]domain.Exercise, error)

	// FilterByTags finds exercises sharing at least one tag.
	FilterByTags(ctx context.Context, tags []string) ([]domain.Exercise, error)
}

// SettingsService manages persisted application settings.
type SettingsService interface {
	// SaveAPIKey stores the classification-service credential.
	SaveAPIKey(ctx context.Context, key string) error

	// APIKey returns the stored credential, or domain.ErrNotFound.
	APIKey(ctx context.Context) (string, error)
}
