package raster

import "fmt"

// pageFileCandidates returns the rendered-file names to probe for a
// 1-based page number, in priority order. Different renderer backends
// disagree on padding: pdftoppm pads to the page-count width, sips and
// others use bare numbers.
func pageFileCandidates(page int) []string {
	return []string{
		fmt.Sprintf("page-%d.png", page),
		fmt.Sprintf("page-%02d.png", page),
		fmt.Sprintf("page-%03d.png", page),
		fmt.Sprintf("%d.png", page),
	}
}
