package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
	"github.com/vaulty-app/vaulty/internal/core/ports/driving"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService exposes the stored course/week/exercise hierarchy.
type LibraryService struct {
	hierarchy driven.HierarchyStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(hierarchy driven.HierarchyStore) *LibraryService {
	return &LibraryService{hierarchy: hierarchy}
}

// ReplaceWeekExercises atomically replaces the exercise set for a week.
func (s *LibraryService) ReplaceWeekExercises(ctx context.Context, course string, week int, exercises []domain.Exercise) error {
	if week < 1 {
		return fmt.Errorf("%w: week number must be positive", domain.ErrInvalidInput)
	}
	for i := range exercises {
		if exercises[i].ID == "" {
			exercises[i].ID = uuid.NewString()
		}
	}
	return s.hierarchy.ReplaceWeekExercises(ctx, course, week, exercises)
}

// UpsertExercise inserts or replaces a single exercise. An exercise
// without an ID gets a fresh one.
func (s *LibraryService) UpsertExercise(ctx context.Context, exercise domain.Exercise) error {
	if exercise.ID == "" {
		exercise.ID = uuid.NewString()
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	return s.hierarchy.UpsertExercise(ctx, exercise)
}

// UpdateExercise edits the name and tags of an existing exercise.
func (s *LibraryService) UpdateExercise(ctx context.Context, id, name string, tags []string) error {
	if id == "" || name == "" {
		return fmt.Errorf("%w: exercise id and name are required", domain.ErrInvalidInput)
	}
	return s.hierarchy.UpdateExercise(ctx, id, name, tags)
}

// DeleteExercise removes an exercise and its asset files.
func (s *LibraryService) DeleteExercise(ctx context.Context, id string) error {
	return s.hierarchy.DeleteExercise(ctx, id)
}

// DeleteWeek removes a week and its exercises.
func (s *LibraryService) DeleteWeek(ctx context.Context, course string, week int) error {
	return s.hierarchy.DeleteWeek(ctx, course, week)
}

// DeleteCourse removes a course with all weeks and exercises.
func (s *LibraryService) DeleteCourse(ctx context.Context, course string) error {
	return s.hierarchy.DeleteCourse(ctx, course)
}

// RenameCourse renames a course, rejecting name collisions.
func (s *LibraryService) RenameCourse(ctx context.Context, oldName, newName string) error {
	return s.hierarchy.RenameCourse(ctx, oldName, newName)
}

// ListAll returns the full hierarchy.
func (s *LibraryService) ListAll(ctx context.Context) ([]domain.Course, error) {
	return s.hierarchy.ListAll(ctx)
}

// GetCourse returns one course branch, or domain.ErrNotFound.
func (s *LibraryService) GetCourse(ctx context.Context, name string) (*domain.Course, error) {
	return s.hierarchy.GetCourse(ctx, name)
}

// Search finds exercises by name substring.
func (s *LibraryService) Search(ctx context.Context, query string) ([]domain.Exercise, error) {
	return s.hierarchy.Search(ctx, query)
}

// FilterByTags finds exercises sharing at least one tag.
func (s *LibraryService) FilterByTags(ctx context.Context, tags []string) ([]domain.Exercise, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no tags provided", domain.ErrInvalidInput)
	}
	return s.hierarchy.FilterByTags(ctx, tags)
}
