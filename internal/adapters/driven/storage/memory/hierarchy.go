// Package memory provides in-memory store implementations used by
// service tests and as lightweight stand-ins before the SQLite store
// is wired.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
)

// Ensure HierarchyStore implements the interface.
var _ driven.HierarchyStore = (*HierarchyStore)(nil)

// HierarchyStore is an in-memory implementation of
// driven.HierarchyStore.
type HierarchyStore struct {
	mu        sync.RWMutex
	exercises map[string]domain.Exercise
	courses   map[string]bool
	weeks     map[string]map[int]bool
	assets    driven.AssetStore
}

// NewHierarchyStore creates an empty in-memory hierarchy store.
// assets may be nil.
func NewHierarchyStore(assets driven.AssetStore) *HierarchyStore {
	return &HierarchyStore{
		exercises: make(map[string]domain.Exercise),
		courses:   make(map[string]bool),
		weeks:     make(map[string]map[int]bool),
		assets:    assets,
	}
}

// ReplaceWeekExercises replaces the exercise set for a week.
func (s *HierarchyStore) ReplaceWeekExercises(_ context.Context, course string, week int, exercises []domain.Exercise) error {
	if course == "" {
		return fmt.Errorf("%w: course name is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureWeek(course, week)
	for id, ex := range s.exercises {
		if ex.Course == course && ex.Week == week {
			delete(s.exercises, id)
		}
	}
	for _, ex := range exercises {
		ex.Course = course
		ex.Week = week
		if ex.CreatedAt.IsZero() {
			ex.CreatedAt = time.Now().UTC()
		}
		s.exercises[ex.ID] = ex
	}
	return nil
}

// UpsertExercise inserts or replaces one exercise by ID.
func (s *HierarchyStore) UpsertExercise(_ context.Context, exercise domain.Exercise) error {
	if exercise.ID == "" || exercise.Course == "" {
		return fmt.Errorf("%w: exercise id and course are required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureWeek(exercise.Course, exercise.Week)
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	s.exercises[exercise.ID] = exercise
	return nil
}

// UpdateExercise updates name and tags of an existing exercise.
func (s *HierarchyStore) UpdateExercise(_ context.Context, id, name string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, ok := s.exercises[id]
	if !ok {
		return domain.ErrNotFound
	}
	ex.Name = name
	ex.Tags = tags
	s.exercises[id] = ex
	return nil
}

// DeleteExercise removes one exercise and sweeps its assets.
func (s *HierarchyStore) DeleteExercise(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, ok := s.exercises[id]
	if !ok {
		return nil
	}
	delete(s.exercises, id)
	s.sweep(s.unreferenced(ex.AssetRefs()))
	return nil
}

// DeleteWeek removes a week and its exercises.
func (s *HierarchyStore) DeleteWeek(_ context.Context, course string, week int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var refs []string
	for id, ex := range s.exercises {
		if ex.Course == course && ex.Week == week {
			refs = append(refs, ex.AssetRefs()...)
			delete(s.exercises, id)
		}
	}
	if weeks, ok := s.weeks[course]; ok {
		delete(weeks, week)
	}
	s.sweep(s.unreferenced(refs))
	return nil
}

// DeleteCourse removes a course with all weeks and exercises.
func (s *HierarchyStore) DeleteCourse(_ context.Context, course string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var refs []string
	for id, ex := range s.exercises {
		if ex.Course == course {
			refs = append(refs, ex.AssetRefs()...)
			delete(s.exercises, id)
		}
	}
	delete(s.courses, course)
	delete(s.weeks, course)
	s.sweep(s.unreferenced(refs))
	return nil
}

// RenameCourse renames a course, rejecting collisions.
func (s *HierarchyStore) RenameCourse(_ context.Context, oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("%w: new course name is empty", domain.ErrInvalidInput)
	}
	if oldName == newName {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.courses[newName] {
		return fmt.Errorf("%w: course %q already exists", domain.ErrIntegrityViolation, newName)
	}
	if !s.courses[oldName] {
		return fmt.Errorf("%w: course %q", domain.ErrNotFound, oldName)
	}

	s.courses[newName] = true
	delete(s.courses, oldName)
	s.weeks[newName] = s.weeks[oldName]
	delete(s.weeks, oldName)
	for id, ex := range s.exercises {
		if ex.Course == oldName {
			ex.Course = newName
			s.exercises[id] = ex
		}
	}
	return nil
}

// ListAll returns the full hierarchy in deterministic order.
func (s *HierarchyStore) ListAll(_ context.Context) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.courses))
	for name := range s.courses {
		names = append(names, name)
	}
	sort.Strings(names)

	courses := make([]domain.Course, 0, len(names))
	for _, name := range names {
		courses = append(courses, s.buildCourse(name))
	}
	return courses, nil
}

// GetCourse returns one course branch, or domain.ErrNotFound.
func (s *HierarchyStore) GetCourse(_ context.Context, name string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.courses[name] {
		return nil, domain.ErrNotFound
	}
	course := s.buildCourse(name)
	return &course, nil
}

// Search finds exercises by case-insensitive name substring.
func (s *HierarchyStore) Search(_ context.Context, query string) ([]domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var matched []domain.Exercise
	for _, ex := range s.exercises {
		if strings.Contains(strings.ToLower(ex.Name), q) {
			matched = append(matched, ex)
		}
	}
	sortExercises(matched)
	return matched, nil
}

// FilterByTags finds exercises sharing at least one tag.
func (s *HierarchyStore) FilterByTags(_ context.Context, tags []string) ([]domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Exercise
	for _, ex := range s.exercises {
		if domain.HasAnyTag(ex.Tags, tags) {
			matched = append(matched, ex)
		}
	}
	sortExercises(matched)
	return matched, nil
}

// ensureWeek records course and week existence (caller must hold lock).
func (s *HierarchyStore) ensureWeek(course string, week int) {
	s.courses[course] = true
	if s.weeks[course] == nil {
		s.weeks[course] = make(map[int]bool)
	}
	s.weeks[course][week] = true
}

// buildCourse assembles a course branch (caller must hold lock).
func (s *HierarchyStore) buildCourse(name string) domain.Course {
	weekNumbers := make([]int, 0, len(s.weeks[name]))
	for number := range s.weeks[name] {
		weekNumbers = append(weekNumbers, number)
	}
	sort.Ints(weekNumbers)

	course := domain.Course{Name: name}
	for _, number := range weekNumbers {
		week := domain.Week{Number: number}
		for _, ex := range s.exercises {
			if ex.Course == name && ex.Week == number {
				week.Exercises = append(week.Exercises, ex)
			}
		}
		sortExercises(week.Exercises)
		course.Weeks = append(course.Weeks, week)
	}
	return course
}

// unreferenced keeps only the refs no remaining exercise points at
// (caller must hold lock). Page images are shared by every exercise
// found on the same page, so deleting one sibling must leave them
// behind.
func (s *HierarchyStore) unreferenced(refs []string) []string {
	var out []string
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true

		inUse := false
		for _, ex := range s.exercises {
			if ex.ImagePath == ref || ex.PageImagePath == ref {
				inUse = true
				break
			}
		}
		if !inUse {
			out = append(out, ref)
		}
	}
	return out
}

// sweep best-effort deletes asset files (caller must hold lock).
func (s *HierarchyStore) sweep(refs []string) {
	if s.assets == nil {
		return
	}
	for _, ref := range refs {
		_ = s.assets.Delete(ref)
	}
}

// sortExercises orders exercises by name for deterministic output.
func sortExercises(exercises []domain.Exercise) {
	sort.Slice(exercises, func(i, j int) bool {
		return exercises[i].Name < exercises[j].Name
	})
}
