package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search exercises by name or filter by tags",
	Long: `Searches exercise names for a case-insensitive substring. With
--tags the query argument is optional and exercises matching any of the
given tags are returned instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// searchTags filters by tag membership instead of name substring.
var searchTags []string

func init() {
	searchCmd.Flags().StringSliceVarP(&searchTags, "tags", "t", nil, "Filter by tags (any match, case-insensitive)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var (
		results []domain.Exercise
		err     error
	)
	switch {
	case len(searchTags) > 0:
		results, err = libraryService.FilterByTags(ctx, searchTags)
	case len(args) == 1:
		results, err = libraryService.Search(ctx, args[0])
	default:
		return fmt.Errorf("%w: provide a query or --tags", domain.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No matching exercises.")
		return nil
	}

	for _, ex := range results {
		cmd.Printf("%s  %s (week %d)  %s  [%s]\n",
			ex.ID, ex.Course, ex.Week, ex.Name, strings.Join(ex.Tags, ", "))
	}
	cmd.Printf("Total: %d exercises\n", len(results))
	return nil
}
