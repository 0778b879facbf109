package driven

import (
	"context"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

// Rasterizer converts a PDF document into an ordered sequence of page
// images, one per page.
//
// Rendering tries a prioritized list of external backend strategies;
// the first strategy that succeeds is accepted in full. If none
// succeeds the rasterizer degrades to one synthetic blank page per
// page so callers can always index pages 1..N. Individual rendered
// pages that cannot be located reduce the output and are reported as
// warnings on the result.
type Rasterizer interface {
	Rasterize(ctx context.Context, documentPath string) (*domain.RasterResult, error)
}
