package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/logger"
)

// exerciseColumns is the column list for exercise queries joined with
// their week and course rows.
const exerciseColumns = `
	e.id, e.name, e.tags_json, c.name, w.week_number,
	e.content, e.notes, e.image_path, e.page_image_path,
	e.bounding_box_json, e.created_at`

// exerciseJoin joins exercises to their owning week and course.
const exerciseJoin = `
	FROM exercises e
	JOIN weeks w ON e.week_id = w.id
	JOIN courses c ON w.course_id = c.id`

// ReplaceWeekExercises atomically replaces the exercise set for a week.
func (s *Store) ReplaceWeekExercises(ctx context.Context, course string, week int, exercises []domain.Exercise) error {
	if course == "" {
		return fmt.Errorf("%w: course name is empty", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	weekID, err := ensureWeek(ctx, tx, course, week)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM exercises WHERE week_id = ?", weekID); err != nil {
		return fmt.Errorf("deleting existing exercises: %w", err)
	}

	for i := range exercises {
		ex := exercises[i]
		ex.Course = course
		ex.Week = week
		if err := upsertExercise(ctx, tx, weekID, ex); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpsertExercise inserts or replaces a single exercise by ID.
func (s *Store) UpsertExercise(ctx context.Context, exercise domain.Exercise) error {
	if exercise.ID == "" || exercise.Course == "" {
		return fmt.Errorf("%w: exercise id and course are required", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	weekID, err := ensureWeek(ctx, tx, exercise.Course, exercise.Week)
	if err != nil {
		return err
	}

	if err := upsertExercise(ctx, tx, weekID, exercise); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpdateExercise updates the name and tags of an existing exercise.
func (s *Store) UpdateExercise(ctx context.Context, id, name string, tags []string) error {
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE exercises SET name = ?, tags_json = ? WHERE id = ?",
		name, string(tagsJSON), id)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteExercise removes an exercise row and best-effort removes its
// referenced asset files. Deleting an absent exercise is a no-op.
func (s *Store) DeleteExercise(ctx context.Context, id string) error {
	refs, err := s.collectAssetRefs(ctx,
		"SELECT image_path, page_image_path FROM exercises WHERE id = ?", id)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}

	unreferenced, err := s.filterUnreferenced(ctx, refs)
	if err != nil {
		return err
	}
	s.sweepAssets(unreferenced)
	return nil
}

// DeleteWeek removes a week and all its exercises.
func (s *Store) DeleteWeek(ctx context.Context, course string, week int) error {
	refs, err := s.collectAssetRefs(ctx, `
		SELECT e.image_path, e.page_image_path `+exerciseJoin+`
		WHERE c.name = ? AND w.week_number = ?`, course, week)
	if err != nil {
		return err
	}

	// Exercises cascade via the week foreign key.
	_, err = s.db.ExecContext(ctx, `
		DELETE FROM weeks WHERE week_number = ?
		AND course_id IN (SELECT id FROM courses WHERE name = ?)`, week, course)
	if err != nil {
		return fmt.Errorf("deleting week: %w", err)
	}

	unreferenced, err := s.filterUnreferenced(ctx, refs)
	if err != nil {
		return err
	}
	s.sweepAssets(unreferenced)
	return nil
}

// DeleteCourse removes a course, cascading to all weeks and exercises.
func (s *Store) DeleteCourse(ctx context.Context, course string) error {
	refs, err := s.collectAssetRefs(ctx, `
		SELECT e.image_path, e.page_image_path `+exerciseJoin+`
		WHERE c.name = ?`, course)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM courses WHERE name = ?", course); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}

	unreferenced, err := s.filterUnreferenced(ctx, refs)
	if err != nil {
		return err
	}
	s.sweepAssets(unreferenced)
	return nil
}

// RenameCourse renames a course. The uniqueness of the new name is
// validated inside the transaction before the update commits.
func (s *Store) RenameCourse(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("%w: new course name is empty", domain.ErrInvalidInput)
	}
	if oldName == newName {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var taken int
	row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses WHERE name = ?", newName)
	if err := row.Scan(&taken); err != nil {
		return fmt.Errorf("checking course name: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("%w: course %q already exists", domain.ErrIntegrityViolation, newName)
	}

	res, err := tx.ExecContext(ctx, "UPDATE courses SET name = ? WHERE name = ?", newName, oldName)
	if err != nil {
		return fmt.Errorf("renaming course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rename result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: course %q", domain.ErrNotFound, oldName)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListAll returns the full hierarchy in deterministic order.
func (s *Store) ListAll(ctx context.Context) ([]domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM courses ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	type courseRow struct {
		id   int64
		name string
	}
	var courseRows []courseRow //nolint:prealloc // size unknown from query
	for rows.Next() {
		var cr courseRow
		if err := rows.Scan(&cr.id, &cr.name); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courseRows = append(courseRows, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}

	var courses []domain.Course //nolint:prealloc // size unknown from query
	for _, cr := range courseRows {
		weeks, err := s.loadWeeks(ctx, cr.id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, domain.Course{Name: cr.name, Weeks: weeks})
	}
	return courses, nil
}

// GetCourse returns one course branch, or domain.ErrNotFound.
func (s *Store) GetCourse(ctx context.Context, name string) (*domain.Course, error) {
	var courseID int64
	row := s.db.QueryRowContext(ctx, "SELECT id FROM courses WHERE name = ?", name)
	if err := row.Scan(&courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying course: %w", err)
	}

	weeks, err := s.loadWeeks(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &domain.Course{Name: name, Weeks: weeks}, nil
}

// Search returns exercises whose name contains the query, ordered by
// name. Matching is case-insensitive for ASCII content only (SQLite
// LIKE semantics); non-ASCII case folding is not supported.
func (s *Store) Search(ctx context.Context, query string) ([]domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exerciseColumns+exerciseJoin+`
		WHERE e.name LIKE ?
		ORDER BY e.name`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("searching exercises: %w", err)
	}
	defer rows.Close()

	return scanExercises(rows)
}

// FilterByTags returns exercises sharing at least one tag with the
// filter set. The tag comparison happens in memory because tags are
// stored as serialized JSON.
func (s *Store) FilterByTags(ctx context.Context, tags []string) ([]domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exerciseColumns+exerciseJoin+`
		ORDER BY e.name`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	all, err := scanExercises(rows)
	if err != nil {
		return nil, err
	}

	var matched []domain.Exercise
	for _, ex := range all {
		if domain.HasAnyTag(ex.Tags, tags) {
			matched = append(matched, ex)
		}
	}
	return matched, nil
}

// ensureWeek inserts the course and week rows if absent and returns the
// week row ID.
func ensureWeek(ctx context.Context, tx *sql.Tx, course string, week int) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO courses (name) VALUES (?) ON CONFLICT(name) DO NOTHING", course); err != nil {
		return 0, fmt.Errorf("upserting course: %w", err)
	}

	var courseID int64
	row := tx.QueryRowContext(ctx, "SELECT id FROM courses WHERE name = ?", course)
	if err := row.Scan(&courseID); err != nil {
		return 0, fmt.Errorf("resolving course id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO weeks (course_id, week_number) VALUES (?, ?)
		ON CONFLICT(course_id, week_number) DO NOTHING`, courseID, week); err != nil {
		return 0, fmt.Errorf("upserting week: %w", err)
	}

	var weekID int64
	row = tx.QueryRowContext(ctx,
		"SELECT id FROM weeks WHERE course_id = ? AND week_number = ?", courseID, week)
	if err := row.Scan(&weekID); err != nil {
		return 0, fmt.Errorf("resolving week id: %w", err)
	}

	return weekID, nil
}

// upsertExercise writes one exercise row within a transaction.
func upsertExercise(ctx context.Context, tx *sql.Tx, weekID int64, ex domain.Exercise) error {
	tagsJSON, err := json.Marshal(ex.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	var bboxJSON any
	if ex.BoundingBox != nil {
		b, err := json.Marshal(ex.BoundingBox)
		if err != nil {
			return fmt.Errorf("marshalling bounding box: %w", err)
		}
		bboxJSON = string(b)
	}

	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO exercises (id, week_id, name, tags_json, content, notes,
			image_path, page_image_path, bounding_box_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			week_id = excluded.week_id,
			name = excluded.name,
			tags_json = excluded.tags_json,
			content = excluded.content,
			notes = excluded.notes,
			image_path = excluded.image_path,
			page_image_path = excluded.page_image_path,
			bounding_box_json = excluded.bounding_box_json,
			created_at = excluded.created_at
	`, ex.ID, weekID, ex.Name, string(tagsJSON),
		nullString(ex.Content), nullString(ex.Notes),
		nullString(ex.ImagePath), nullString(ex.PageImagePath),
		bboxJSON, ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving exercise: %w", err)
	}
	return nil
}

// loadWeeks loads all weeks and exercises for a course.
func (s *Store) loadWeeks(ctx context.Context, courseID int64) ([]domain.Week, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, week_number FROM weeks WHERE course_id = ? ORDER BY week_number", courseID)
	if err != nil {
		return nil, fmt.Errorf("querying weeks: %w", err)
	}
	defer rows.Close()

	type weekRow struct {
		id     int64
		number int
	}
	var weekRows []weekRow //nolint:prealloc // size unknown from query
	for rows.Next() {
		var wr weekRow
		if err := rows.Scan(&wr.id, &wr.number); err != nil {
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		weekRows = append(weekRows, wr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weeks: %w", err)
	}

	var weeks []domain.Week //nolint:prealloc // size unknown from query
	for _, wr := range weekRows {
		exRows, err := s.db.QueryContext(ctx, `
			SELECT `+exerciseColumns+exerciseJoin+`
			WHERE e.week_id = ?
			ORDER BY e.name`, wr.id)
		if err != nil {
			return nil, fmt.Errorf("querying exercises: %w", err)
		}
		exercises, err := scanExercises(exRows)
		exRows.Close()
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, domain.Week{Number: wr.number, Exercises: exercises})
	}
	return weeks, nil
}

// scanExercises reads exercise rows produced with exerciseColumns.
func scanExercises(rows *sql.Rows) ([]domain.Exercise, error) {
	var exercises []domain.Exercise //nolint:prealloc // size unknown from query
	for rows.Next() {
		var ex domain.Exercise
		var tagsJSON string
		var content, notes, imagePath, pageImagePath, bboxJSON sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&ex.ID, &ex.Name, &tagsJSON, &ex.Course, &ex.Week,
			&content, &notes, &imagePath, &pageImagePath, &bboxJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}

		if err := json.Unmarshal([]byte(tagsJSON), &ex.Tags); err != nil {
			return nil, fmt.Errorf("unmarshalling tags: %w", err)
		}
		if bboxJSON.Valid && bboxJSON.String != "" {
			var bbox domain.BoundingBox
			if err := json.Unmarshal([]byte(bboxJSON.String), &bbox); err != nil {
				return nil, fmt.Errorf("unmarshalling bounding box: %w", err)
			}
			ex.BoundingBox = &bbox
		}

		ex.Content = content.String
		ex.Notes = notes.String
		ex.ImagePath = imagePath.String
		ex.PageImagePath = pageImagePath.String
		if createdAt.Valid {
			ex.CreatedAt = createdAt.Time
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exercises: %w", err)
	}
	return exercises, nil
}

// collectAssetRefs gathers non-null image references from a two-column
// (image_path, page_image_path) query.
func (s *Store) collectAssetRefs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying asset references: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var imagePath, pageImagePath sql.NullString
		if err := rows.Scan(&imagePath, &pageImagePath); err != nil {
			return nil, fmt.Errorf("scanning asset references: %w", err)
		}
		if imagePath.Valid && imagePath.String != "" {
			refs = append(refs, imagePath.String)
		}
		if pageImagePath.Valid && pageImagePath.String != "" {
			refs = append(refs, pageImagePath.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating asset references: %w", err)
	}
	return refs, nil
}

// filterUnreferenced keeps only the refs no remaining exercise row
// points at. Page images are shared by every exercise found on the
// same page, so deleting one sibling must leave them behind.
func (s *Store) filterUnreferenced(ctx context.Context, refs []string) ([]string, error) {
	var unreferenced []string
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true

		var count int
		row := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM exercises WHERE image_path = ? OR page_image_path = ?", ref, ref)
		if err := row.Scan(&count); err != nil {
			return nil, fmt.Errorf("checking asset references: %w", err)
		}
		if count == 0 {
			unreferenced = append(unreferenced, ref)
		}
	}
	return unreferenced, nil
}

// sweepAssets best-effort deletes the given asset files. Failures are
// logged and never propagate: row deletion has already succeeded.
func (s *Store) sweepAssets(refs []string) {
	if s.assets == nil {
		return
	}
	for _, ref := range refs {
		if err := s.assets.Delete(ref); err != nil {
			logger.Warn("failed to delete asset %s: %v", ref, err)
		}
	}
}

// nullString converts an empty string to nil for nullable columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
