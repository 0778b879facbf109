package domain

import "time"

// BoundingBox locates an exercise vertically within its source page image.
type BoundingBox struct {
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// Exercise is a single exercise, problem, or question extracted from a
// document page or entered by hand.
type Exercise struct {
	// ID is the opaque, immutable identifier.
	ID string

	// Name is the exercise title (e.g. "Ex 1.2 Ridge Regression").
	Name string

	// Tags is the ordered tag list. By convention the first element is
	// the classification tag; the remainder are topic keywords.
	Tags []string

	// Course is the owning course name.
	Course string

	// Week is the owning week number within the course.
	Week int

	// Content is optional extracted text.
	Content string

	// Notes is optional user-authored text.
	Notes string

	// ImagePath references the exercise's own image in the asset store.
	ImagePath string

	// PageImagePath references the source page image in the asset store.
	PageImagePath string

	// BoundingBox locates the exercise within the page image, if known.
	BoundingBox *BoundingBox

	// CreatedAt is when the exercise record was created.
	CreatedAt time.Time
}

// AssetRefs returns the non-empty asset references held by the exercise.
func (e *Exercise) AssetRefs() []string {
	var refs []string
	if e.ImagePath != "" {
		refs = append(refs, e.ImagePath)
	}
	if e.PageImagePath != "" {
		refs = append(refs, e.PageImagePath)
	}
	return refs
}

// Week is a numbered week within a course together with its exercises.
type Week struct {
	Number    int
	Exercises []Exercise
}

// Course is a named course together with its weeks.
// The name is the natural key; it is unique across the library.
type Course struct {
	Name  string
	Weeks []Week
}
