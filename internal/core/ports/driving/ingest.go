package driving

import "context"

// IngestOptions controls a document ingestion run.
type IngestOptions struct {
	// Course is the course the exercises belong to.
	Course string

	// Week is the week number within the course.
	Week int

	// Analyze enables AI extraction per page. When false, only page
	// images are rasterized and stored.
	Analyze bool

	// Batch sends all pages to the classification service in a single
	// call and commits the result as one atomic week replacement
	// instead of page-by-page upserts.
	Batch bool
}

// PageFailure records an extraction failure scoped to a single page.
type PageFailure struct {
	Page int
	Err  error
}

// IngestReport summarises a completed ingestion run.
type IngestReport struct {
	// PageCount is the structural page count of the document.
	PageCount int

	// PagesRendered is the number of page images produced.
	PagesRendered int

	// PlaceholdersUsed is true when rendering degraded to blank pages.
	PlaceholdersUsed bool

	// ExercisesSaved is the number of exercise records persisted.
	ExercisesSaved int

	// DetectedCourse is the course name the classification service
	// detected in batch mode. Informational: persistence always uses
	// the course given in the options.
	DetectedCourse string

	// Warnings carries rasterizer warnings (missing rendered pages,
	// renderer fallback).
	Warnings []string

	// PageFailures lists pages whose extraction failed. Failures are
	// page-scoped: earlier pages stay persisted.
	PageFailures []PageFailure
}

// IngestService runs the document ingestion pipeline:
// rasterize -> extract -> persist.
type IngestService interface {
	IngestDocument(ctx context.Context, documentPath string, opts IngestOptions) (*IngestReport, error)
}
