package driven

import (
	"context"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

// PageInput is the image input for a single-page extraction. Exactly
// one of Inline or Path must be set. Inline accepts base64 data with or
// without a data-URL prefix; Path reads the image from disk and fails
// if the file is missing.
type PageInput struct {
	Inline string
	Path   string
}

// Extractor sends page images to an external classification service
// and parses its structured response into exercise candidates.
//
// Returned exercises carry a freshly generated ID, a creation
// timestamp, and normalized tags (classification first, remainder
// deduplicated and sorted).
type Extractor interface {
	// ExtractPage classifies one page image into exercise candidates.
	ExtractPage(ctx context.Context, input PageInput) ([]domain.Exercise, error)

	// ExtractDocument classifies a whole document's pages in one call,
	// detecting the course name alongside the exercises.
	ExtractDocument(ctx context.Context, pages []string) (*domain.DocumentExtraction, error)
}
