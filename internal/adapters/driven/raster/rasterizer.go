// Package raster converts PDF documents into page images by driving
// external renderer processes with a prioritized fallback chain.
package raster

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	rpdf "rsc.io/pdf"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
	"github.com/vaulty-app/vaulty/internal/logger"
)

// DefaultDPI is the render resolution when none is configured.
const DefaultDPI = 150

// Ensure Rasterizer implements the interface.
var _ driven.Rasterizer = (*Rasterizer)(nil)

// Strategy is one renderer invocation attempt. Command returns the
// process that renders every page of the document into scratchDir, or
// nil when the strategy does not apply on this platform.
type Strategy struct {
	// Name identifies the strategy in logs.
	Name string

	// Command builds the renderer process.
	Command func(ctx context.Context, documentPath, scratchDir string, dpi int) *exec.Cmd
}

// Config holds rasterizer configuration.
type Config struct {
	// DPI is the render resolution (default: 150).
	DPI int

	// Strategies overrides the default renderer chain. Mainly for
	// tests.
	Strategies []Strategy
}

// Rasterizer renders PDFs via external processes, trying each strategy
// in priority order and degrading to blank placeholder pages when all
// of them fail.
type Rasterizer struct {
	dpi        int
	strategies []Strategy
}

// NewRasterizer creates a rasterizer from cfg.
func NewRasterizer(cfg Config) *Rasterizer {
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	strategies := cfg.Strategies
	if strategies == nil {
		strategies = DefaultStrategies()
	}
	return &Rasterizer{dpi: cfg.DPI, strategies: strategies}
}

// DefaultStrategies returns the built-in renderer chain: pdftoppm from
// PATH, pdftoppm at common install locations, then sips on macOS.
func DefaultStrategies() []Strategy {
	pdftoppm := func(bin string) Strategy {
		return Strategy{
			Name: bin,
			Command: func(ctx context.Context, documentPath, scratchDir string, dpi int) *exec.Cmd {
				return exec.CommandContext(ctx, bin,
					"-png",
					"-r", strconv.Itoa(dpi),
					documentPath,
					filepath.Join(scratchDir, "page"))
			},
		}
	}

	return []Strategy{
		pdftoppm("pdftoppm"),
		pdftoppm("/usr/local/bin/pdftoppm"),
		pdftoppm("/opt/homebrew/bin/pdftoppm"),
		{
			Name: "sips",
			Command: func(ctx context.Context, documentPath, scratchDir string, _ int) *exec.Cmd {
				if runtime.GOOS != "darwin" {
					return nil
				}
				return exec.CommandContext(ctx, "sips",
					"-s", "format", "png",
					documentPath,
					"--out", scratchDir)
			},
		},
	}
}

// Rasterize converts the document into one page image per page.
func (r *Rasterizer) Rasterize(ctx context.Context, documentPath string) (*domain.RasterResult, error) {
	pageCount, err := pageCount(documentPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("document %s has %d pages", documentPath, pageCount)

	scratchDir := filepath.Join(os.TempDir(), "vaulty-pdf-"+uuid.NewString())
	if err := os.MkdirAll(scratchDir, 0700); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	// Scratch storage is removed on every path, success or failure.
	defer os.RemoveAll(scratchDir)

	result := &domain.RasterResult{PageCount: pageCount}

	for _, strategy := range r.strategies {
		cmd := strategy.Command(ctx, documentPath, scratchDir, r.dpi)
		if cmd == nil {
			continue
		}
		if err := cmd.Run(); err != nil {
			logger.Debug("renderer %s failed: %v", strategy.Name, err)
			continue
		}

		pages, warnings := collectPages(scratchDir, pageCount)
		if len(pages) == 0 {
			// The renderer exited zero but produced nothing usable;
			// treat it like a failure and move on.
			logger.Warn("renderer %s produced no readable pages", strategy.Name)
			continue
		}

		logger.Info("rendered %d/%d pages with %s", len(pages), pageCount, strategy.Name)
		result.Pages = pages
		result.Warnings = warnings
		return result, nil
	}

	// Every strategy failed: degrade to one blank page per document
	// page so callers can still index pages 1..N.
	logger.Warn("%v, generating %d placeholder pages", domain.ErrRenderingUnavailable, pageCount)
	blank, err := placeholderPage()
	if err != nil {
		return nil, err
	}
	for page := 1; page <= pageCount; page++ {
		result.Pages = append(result.Pages, domain.PageImage{
			Number:      page,
			DataURL:     blank,
			Placeholder: true,
		})
	}
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("%v: substituted %d blank pages", domain.ErrRenderingUnavailable, pageCount))
	return result, nil
}

// collectPages reads rendered files back in page order, probing the
// known filename conventions for each page. Pages with no matching
// file are omitted and reported as warnings.
func collectPages(scratchDir string, pageCount int) ([]domain.PageImage, []string) {
	var pages []domain.PageImage
	var warnings []string

	for page := 1; page <= pageCount; page++ {
		data, ok := readPageFile(scratchDir, page)
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("page %d: %v", page, domain.ErrPageImageMissing))
			continue
		}
		pages = append(pages, domain.PageImage{
			Number:  page,
			DataURL: domain.EncodePNG(base64.StdEncoding.EncodeToString(data)),
		})
	}
	return pages, warnings
}

// readPageFile probes the candidate filenames for a page and returns
// the first that exists.
func readPageFile(scratchDir string, page int) ([]byte, bool) {
	for _, name := range pageFileCandidates(page) {
		data, err := os.ReadFile(filepath.Join(scratchDir, name))
		if err == nil {
			return data, true
		}
	}
	return nil, false
}

// pageCount opens the document structurally and returns its page
// count. Failure to parse is fatal for the whole rasterization.
func pageCount(documentPath string) (n int, err error) {
	f, err := os.Open(documentPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDocumentUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDocumentUnreadable, err)
	}

	// rsc.io/pdf panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrDocumentUnreadable, r)
		}
	}()

	doc, err := rpdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDocumentUnreadable, err)
	}
	return doc.NumPage(), nil
}
