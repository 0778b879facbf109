package services

import (
	"context"
	"fmt"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
	"github.com/vaulty-app/vaulty/internal/core/ports/driving"
	"github.com/vaulty-app/vaulty/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService orchestrates the ingestion pipeline:
// rasterize -> extract -> persist.
type IngestService struct {
	rasterizer driven.Rasterizer
	extractor  driven.Extractor
	hierarchy  driven.HierarchyStore
	assets     driven.AssetStore
}

// NewIngestService creates a new ingestion service. extractor may be
// nil when AI analysis is disabled.
func NewIngestService(
	rasterizer driven.Rasterizer,
	extractor driven.Extractor,
	hierarchy driven.HierarchyStore,
	assets driven.AssetStore,
) *IngestService {
	return &IngestService{
		rasterizer: rasterizer,
		extractor:  extractor,
		hierarchy:  hierarchy,
		assets:     assets,
	}
}

// IngestDocument rasterizes a document and persists the extracted
// exercises. In the default mode each page is a unit of work: a failed
// page is recorded on the report and does not roll back pages already
// persisted. In batch mode the whole document is classified in one
// call and committed as a single atomic week replacement.
func (s *IngestService) IngestDocument(ctx context.Context, documentPath string, opts driving.IngestOptions) (*driving.IngestReport, error) {
	if opts.Course == "" {
		return nil, fmt.Errorf("%w: course name is required", domain.ErrInvalidInput)
	}
	if opts.Week < 1 {
		return nil, fmt.Errorf("%w: week number must be positive", domain.ErrInvalidInput)
	}
	if opts.Analyze && s.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor configured", domain.ErrInvalidInput)
	}

	logger.Section("ingest " + documentPath)
	raster, err := s.rasterizer.Rasterize(ctx, documentPath)
	if err != nil {
		return nil, fmt.Errorf("rasterizing document: %w", err)
	}

	report := &driving.IngestReport{
		PageCount:     raster.PageCount,
		PagesRendered: len(raster.Pages),
		Warnings:      raster.Warnings,
	}
	for _, page := range raster.Pages {
		if page.Placeholder {
			report.PlaceholdersUsed = true
			break
		}
	}

	if !opts.Analyze {
		return report, nil
	}

	if opts.Batch {
		if err := s.ingestBatch(ctx, raster.Pages, opts, report); err != nil {
			return report, err
		}
		return report, nil
	}

	s.ingestPages(ctx, raster.Pages, opts, report)
	return report, nil
}

// ingestBatch sends every page in one classification call and commits
// the result atomically as the week's full exercise set.
func (s *IngestService) ingestBatch(ctx context.Context, pages []domain.PageImage, opts driving.IngestOptions, report *driving.IngestReport) error {
	payloads := make([]string, 0, len(pages))
	for _, page := range pages {
		payloads = append(payloads, page.DataURL)
	}

	extraction, err := s.extractor.ExtractDocument(ctx, payloads)
	if err != nil {
		return fmt.Errorf("extracting document: %w", err)
	}
	logger.Info("document classified as %q with %d exercises",
		extraction.CourseName, len(extraction.Exercises))
	report.DetectedCourse = extraction.CourseName

	if err := s.hierarchy.ReplaceWeekExercises(ctx, opts.Course, opts.Week, extraction.Exercises); err != nil {
		return fmt.Errorf("replacing week exercises: %w", err)
	}
	report.ExercisesSaved = len(extraction.Exercises)
	return nil
}

// ingestPages classifies and persists page by page. Failures are
// page-scoped.
func (s *IngestService) ingestPages(ctx context.Context, pages []domain.PageImage, opts driving.IngestOptions, report *driving.IngestReport) {
	for _, page := range pages {
		if page.Placeholder {
			// Nothing to classify on a synthetic blank page.
			logger.Debug("skipping placeholder page %d", page.Number)
			continue
		}

		candidates, err := s.extractor.ExtractPage(ctx, driven.PageInput{Inline: page.DataURL})
		if err != nil {
			logger.Warn("page %d extraction failed: %v", page.Number, err)
			report.PageFailures = append(report.PageFailures,
				driving.PageFailure{Page: page.Number, Err: err})
			continue
		}
		if len(candidates) == 0 {
			logger.Debug("page %d: no exercises found", page.Number)
			continue
		}

		// The page image is stored once and referenced by every
		// candidate found on it.
		pageRef, err := s.assets.Save(page.DataURL)
		if err != nil {
			report.PageFailures = append(report.PageFailures,
				driving.PageFailure{Page: page.Number, Err: err})
			continue
		}

		for _, candidate := range candidates {
			candidate.Course = opts.Course
			candidate.Week = opts.Week
			candidate.PageImagePath = pageRef
			if err := s.hierarchy.UpsertExercise(ctx, candidate); err != nil {
				logger.Warn("page %d: saving %q failed: %v", page.Number, candidate.Name, err)
				report.PageFailures = append(report.PageFailures,
					driving.PageFailure{Page: page.Number, Err: err})
				break
			}
			report.ExercisesSaved++
		}
	}
}
