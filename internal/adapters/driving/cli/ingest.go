package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driving"
	"github.com/vaulty-app/vaulty/internal/core/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf-path]",
	Short: "Ingest a PDF document into the exercise library",
	Long: `Rasterizes the document, classifies each page with Gemini, and
stores the extracted exercises under the given course and week.

With --batch the whole document is classified in a single call and the
week's exercise set is replaced atomically. With --no-analyze only the
page count and rendering are verified; nothing is persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

// Ingest flags.
var (
	ingestCourse    string
	ingestWeek      int
	ingestBatch     bool
	ingestNoAnalyze bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestCourse, "course", "c", "", "Course name (required)")
	ingestCmd.Flags().IntVarP(&ingestWeek, "week", "w", 0, "Week number (required)")
	ingestCmd.Flags().BoolVar(&ingestBatch, "batch", false, "Classify all pages in one call and replace the week atomically")
	ingestCmd.Flags().BoolVar(&ingestNoAnalyze, "no-analyze", false, "Skip AI classification")
	_ = ingestCmd.MarkFlagRequired("course")
	_ = ingestCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	opts := driving.IngestOptions{
		Course:  ingestCourse,
		Week:    ingestWeek,
		Analyze: !ingestNoAnalyze,
		Batch:   ingestBatch,
	}

	if opts.Analyze {
		apiKey, err := settingsService.APIKey(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errors.New("no API key configured; run 'vaulty settings set-api-key' first")
			}
			return fmt.Errorf("reading API key: %w", err)
		}
		extractor, err := newExtractor(apiKey)
		if err != nil {
			return fmt.Errorf("configuring extractor: %w", err)
		}
		ingestService = services.NewIngestService(rasterizer, extractor, store, assetStore)
	} else {
		ingestService = services.NewIngestService(rasterizer, nil, store, assetStore)
	}

	report, err := ingestService.IngestDocument(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Pages: %d/%d rendered\n", report.PagesRendered, report.PageCount)
	if report.PlaceholdersUsed {
		cmd.Println("No PDF renderer available: blank placeholder pages were used")
	}
	for _, warning := range report.Warnings {
		cmd.Printf("Warning: %s\n", warning)
	}
	if opts.Analyze {
		cmd.Printf("Exercises saved: %d\n", report.ExercisesSaved)
	}
	if report.DetectedCourse != "" && report.DetectedCourse != opts.Course {
		cmd.Printf("Note: document looks like %q, stored under %q\n",
			report.DetectedCourse, opts.Course)
	}
	for _, failure := range report.PageFailures {
		cmd.Printf("Page %d failed: %v\n", failure.Page, failure.Err)
	}
	if len(report.PageFailures) > 0 {
		return fmt.Errorf("%d page(s) failed", len(report.PageFailures))
	}
	return nil
}
