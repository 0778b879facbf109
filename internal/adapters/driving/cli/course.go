package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage courses",
	Long:  `List, show, rename, or delete courses and their weeks.`,
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all courses with weeks and exercises",
	Args:  cobra.NoArgs,
	RunE:  runCourseList,
}

var courseShowCmd = &cobra.Command{
	Use:   "show [course]",
	Short: "Show one course",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseShow,
}

var courseDeleteCmd = &cobra.Command{
	Use:   "delete [course]",
	Short: "Delete a course with all weeks, exercises, and images",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseDelete,
}

var courseRenameCmd = &cobra.Command{
	Use:   "rename [old] [new]",
	Short: "Rename a course",
	Args:  cobra.ExactArgs(2),
	RunE:  runCourseRename,
}

var weekDeleteCmd = &cobra.Command{
	Use:   "delete-week [course] [week]",
	Short: "Delete one week of a course",
	Args:  cobra.ExactArgs(2),
	RunE:  runWeekDelete,
}

func init() {
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseDeleteCmd)
	courseCmd.AddCommand(courseRenameCmd)
	courseCmd.AddCommand(weekDeleteCmd)
	rootCmd.AddCommand(courseCmd)
}

func runCourseList(cmd *cobra.Command, _ []string) error {
	courses, err := libraryService.ListAll(context.Background())
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}

	if len(courses) == 0 {
		cmd.Println("No courses yet. Ingest a document to get started.")
		return nil
	}

	for i := range courses {
		printCourse(cmd, &courses[i])
	}
	return nil
}

func runCourseShow(cmd *cobra.Command, args []string) error {
	course, err := libraryService.GetCourse(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("Course not found: %s\n", args[0])
			return nil
		}
		return fmt.Errorf("loading course: %w", err)
	}

	printCourse(cmd, course)
	return nil
}

func runCourseDelete(cmd *cobra.Command, args []string) error {
	if err := libraryService.DeleteCourse(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	cmd.Printf("Deleted course: %s\n", args[0])
	return nil
}

func runCourseRename(cmd *cobra.Command, args []string) error {
	if err := libraryService.RenameCourse(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("renaming course: %w", err)
	}
	cmd.Printf("Renamed course %q to %q\n", args[0], args[1])
	return nil
}

func runWeekDelete(cmd *cobra.Command, args []string) error {
	week, err := parseWeek(args[1])
	if err != nil {
		return err
	}
	if err := libraryService.DeleteWeek(context.Background(), args[0], week); err != nil {
		return fmt.Errorf("deleting week: %w", err)
	}
	cmd.Printf("Deleted week %d of %s\n", week, args[0])
	return nil
}

// printCourse renders one course branch.
func printCourse(cmd *cobra.Command, course *domain.Course) {
	cmd.Printf("%s\n", course.Name)
	for _, week := range course.Weeks {
		cmd.Printf("  Week %d (%d exercises)\n", week.Number, len(week.Exercises))
		for _, ex := range week.Exercises {
			cmd.Printf("    %s  %s  [%s]\n", ex.ID, ex.Name, strings.Join(ex.Tags, ", "))
		}
	}
}

// parseWeek parses a week-number argument, rejecting trailing junk.
func parseWeek(arg string) (int, error) {
	week, err := strconv.Atoi(arg)
	if err != nil || week < 1 {
		return 0, fmt.Errorf("%w: invalid week number %q", domain.ErrInvalidInput, arg)
	}
	return week, nil
}
