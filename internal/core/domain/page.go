package domain

import "strings"

// dataURLPrefix is the transport prefix for base64-embedded PNG pages.
const dataURLPrefix = "data:image/png;base64,"

// PageImage is one rasterized document page. The payload is a
// self-describing data URL so consumers need no separate file handle.
type PageImage struct {
	// Number is the 1-based page number within the source document.
	Number int

	// DataURL is the base64-embedded PNG payload.
	DataURL string

	// Placeholder is true when the page is a synthetic blank image
	// produced because no renderer was available.
	Placeholder bool
}

// RasterResult is the outcome of rasterizing one document.
type RasterResult struct {
	// Pages holds the rendered pages in document order.
	Pages []PageImage

	// PageCount is the structural page count of the source document.
	// len(Pages) < PageCount only when individual rendered pages could
	// not be located; each such gap appears in Warnings.
	PageCount int

	// Warnings reports non-fatal conditions such as missing rendered
	// pages or renderer fallback to placeholders.
	Warnings []string
}

// EncodePNG wraps raw base64 PNG data in a data URL.
func EncodePNG(base64Data string) string {
	return dataURLPrefix + base64Data
}

// StripDataURL removes a data-URL transport prefix
// ("data:image/png;base64," and friends) from an encoded image,
// returning the bare base64 payload.
func StripDataURL(encoded string) string {
	if _, rest, ok := strings.Cut(encoded, "base64,"); ok {
		return rest
	}
	return encoded
}

// DocumentExtraction is the result of classifying a whole document in a
// single call: the detected course name plus every exercise found.
type DocumentExtraction struct {
	CourseName string
	Exercises  []Exercise
}
