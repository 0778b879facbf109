package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulty-app/vaulty/internal/adapters/driven/storage/memory"
	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
	"github.com/vaulty-app/vaulty/internal/core/ports/driving"
)

// stubRasterizer returns a fixed raster result.
type stubRasterizer struct {
	result *domain.RasterResult
	err    error
}

func (s *stubRasterizer) Rasterize(context.Context, string) (*domain.RasterResult, error) {
	return s.result, s.err
}

// stubExtractor returns canned exercises per page and can fail on
// selected pages, keyed by the inline payload.
type stubExtractor struct {
	perPage     map[string][]domain.Exercise
	failOn      map[string]error
	document    *domain.DocumentExtraction
	documentErr error
	calls       int
}

func (s *stubExtractor) ExtractPage(_ context.Context, input driven.PageInput) ([]domain.Exercise, error) {
	s.calls++
	if err, ok := s.failOn[input.Inline]; ok {
		return nil, err
	}
	return s.perPage[input.Inline], nil
}

func (s *stubExtractor) ExtractDocument(context.Context, []string) (*domain.DocumentExtraction, error) {
	s.calls++
	return s.document, s.documentErr
}

// pageURL builds a distinct data URL per page for stub keying.
func pageURL(n int) string {
	return fmt.Sprintf("data:image/png;base64,cGFnZS0lZA==%d", n)
}

func rasterPages(n int) *domain.RasterResult {
	result := &domain.RasterResult{PageCount: n}
	for i := 1; i <= n; i++ {
		result.Pages = append(result.Pages, domain.PageImage{Number: i, DataURL: pageURL(i)})
	}
	return result
}

func TestIngestDocument_ValidatesOptions(t *testing.T) {
	svc := NewIngestService(&stubRasterizer{}, &stubExtractor{}, memory.NewHierarchyStore(nil), memory.NewAssetStore())
	ctx := context.Background()

	_, err := svc.IngestDocument(ctx, "doc.pdf", driving.IngestOptions{Week: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.IngestDocument(ctx, "doc.pdf", driving.IngestOptions{Course: "ML"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestDocument_RequiresExtractorWhenAnalyzing(t *testing.T) {
	svc := NewIngestService(&stubRasterizer{}, nil, memory.NewHierarchyStore(nil), memory.NewAssetStore())

	_, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 1, Analyze: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestDocument_RasterOnly(t *testing.T) {
	extractor := &stubExtractor{}
	svc := NewIngestService(
		&stubRasterizer{result: rasterPages(2)},
		extractor,
		memory.NewHierarchyStore(nil),
		memory.NewAssetStore(),
	)

	report, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, report.PageCount)
	assert.Equal(t, 2, report.PagesRendered)
	assert.Zero(t, report.ExercisesSaved)
	assert.Zero(t, extractor.calls, "analysis disabled, extractor untouched")
}

func TestIngestDocument_PerPage(t *testing.T) {
	hierarchy := memory.NewHierarchyStore(nil)
	assets := memory.NewAssetStore()
	extractor := &stubExtractor{
		perPage: map[string][]domain.Exercise{
			pageURL(1): {
				{ID: "a", Name: "Ex 1.1 Intro", Tags: []string{"exercise"}},
				{ID: "b", Name: "Ex 1.2 Follow-up", Tags: []string{"homework"}},
			},
			pageURL(2): {
				{ID: "c", Name: "Ex 2.1 Advanced", Tags: []string{"exam"}},
			},
		},
	}

	svc := NewIngestService(&stubRasterizer{result: rasterPages(2)}, extractor, hierarchy, assets)

	report, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 3, Analyze: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.ExercisesSaved)
	assert.Empty(t, report.PageFailures)
	assert.Equal(t, 2, assets.Len(), "one stored page image per page with candidates")

	course, err := hierarchy.GetCourse(context.Background(), "ML")
	require.NoError(t, err)
	require.Len(t, course.Weeks, 1)
	require.Len(t, course.Weeks[0].Exercises, 3)

	// Both candidates from page one reference the same stored image.
	byID := map[string]domain.Exercise{}
	for _, ex := range course.Weeks[0].Exercises {
		assert.Equal(t, "ML", ex.Course)
		assert.Equal(t, 3, ex.Week)
		assert.NotEmpty(t, ex.PageImagePath)
		byID[ex.ID] = ex
	}
	assert.Equal(t, byID["a"].PageImagePath, byID["b"].PageImagePath)
	assert.NotEqual(t, byID["a"].PageImagePath, byID["c"].PageImagePath)
}

func TestIngestDocument_PageFailureIsIsolated(t *testing.T) {
	hierarchy := memory.NewHierarchyStore(nil)
	boom := errors.New("upstream exploded")
	extractor := &stubExtractor{
		perPage: map[string][]domain.Exercise{
			pageURL(1): {{ID: "a", Name: "Ex 1", Tags: []string{"exercise"}}},
			pageURL(3): {{ID: "c", Name: "Ex 3", Tags: []string{"exercise"}}},
		},
		failOn: map[string]error{pageURL(2): boom},
	}

	svc := NewIngestService(&stubRasterizer{result: rasterPages(3)}, extractor, hierarchy, memory.NewAssetStore())

	report, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 1, Analyze: true})
	require.NoError(t, err, "a failed page does not fail the ingest")

	assert.Equal(t, 2, report.ExercisesSaved)
	require.Len(t, report.PageFailures, 1)
	assert.Equal(t, 2, report.PageFailures[0].Page)
	assert.ErrorIs(t, report.PageFailures[0].Err, boom)
}

func TestIngestDocument_SkipsPlaceholderPages(t *testing.T) {
	extractor := &stubExtractor{}
	raster := &domain.RasterResult{
		PageCount: 2,
		Pages: []domain.PageImage{
			{Number: 1, DataURL: pageURL(1), Placeholder: true},
			{Number: 2, DataURL: pageURL(2), Placeholder: true},
		},
	}

	svc := NewIngestService(&stubRasterizer{result: raster}, extractor, memory.NewHierarchyStore(nil), memory.NewAssetStore())

	report, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 1, Analyze: true})
	require.NoError(t, err)

	assert.True(t, report.PlaceholdersUsed)
	assert.Zero(t, extractor.calls, "blank pages carry nothing to classify")
	assert.Zero(t, report.ExercisesSaved)
}

func TestIngestDocument_Batch(t *testing.T) {
	hierarchy := memory.NewHierarchyStore(nil)
	extractor := &stubExtractor{
		document: &domain.DocumentExtraction{
			CourseName: "Detected Course",
			Exercises: []domain.Exercise{
				{ID: "a", Name: "Ex 1", Tags: []string{"regular exercise"}},
				{ID: "b", Name: "Ex 2", Tags: []string{"homework"}},
			},
		},
	}

	// Pre-existing exercises in the target week are replaced wholesale.
	require.NoError(t, hierarchy.UpsertExercise(context.Background(),
		domain.Exercise{ID: "old", Name: "Old Ex", Course: "ML", Week: 1, Tags: []string{"exercise"}}))

	svc := NewIngestService(&stubRasterizer{result: rasterPages(2)}, extractor, hierarchy, memory.NewAssetStore())

	report, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 1, Analyze: true, Batch: true})
	require.NoError(t, err)

	assert.Equal(t, 2, report.ExercisesSaved)
	assert.Equal(t, "Detected Course", report.DetectedCourse)

	course, err := hierarchy.GetCourse(context.Background(), "ML")
	require.NoError(t, err)
	require.Len(t, course.Weeks[0].Exercises, 2)
	for _, ex := range course.Weeks[0].Exercises {
		assert.NotEqual(t, "old", ex.ID)
	}
}

func TestIngestDocument_BatchExtractionFailure(t *testing.T) {
	hierarchy := memory.NewHierarchyStore(nil)
	extractor := &stubExtractor{documentErr: errors.New("model unavailable")}

	require.NoError(t, hierarchy.UpsertExercise(context.Background(),
		domain.Exercise{ID: "old", Name: "Old Ex", Course: "ML", Week: 1, Tags: []string{"exercise"}}))

	svc := NewIngestService(&stubRasterizer{result: rasterPages(1)}, extractor, hierarchy, memory.NewAssetStore())

	_, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 1, Analyze: true, Batch: true})
	require.Error(t, err)

	// Nothing was replaced.
	course, err := hierarchy.GetCourse(context.Background(), "ML")
	require.NoError(t, err)
	require.Len(t, course.Weeks[0].Exercises, 1)
	assert.Equal(t, "old", course.Weeks[0].Exercises[0].ID)
}

func TestIngestDocument_RasterizationFailure(t *testing.T) {
	svc := NewIngestService(
		&stubRasterizer{err: domain.ErrDocumentUnreadable},
		&stubExtractor{},
		memory.NewHierarchyStore(nil),
		memory.NewAssetStore(),
	)

	_, err := svc.IngestDocument(context.Background(), "doc.pdf",
		driving.IngestOptions{Course: "ML", Week: 1})
	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
}
