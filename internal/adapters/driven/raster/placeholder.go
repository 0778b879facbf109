package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

// Placeholder page dimensions, matching a letter page at 150 DPI.
const (
	placeholderWidth  = 1224
	placeholderHeight = 1584
)

// placeholderPage renders a blank white page and returns it as a data
// URL. Used when no renderer backend is available so downstream
// consumers still see one image per page.
func placeholderPage() (string, error) {
	dc := gg.NewContext(placeholderWidth, placeholderHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encoding placeholder page: %w", err)
	}
	return domain.EncodePNG(base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
