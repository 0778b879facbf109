package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Manage individual exercises",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add an exercise by hand",
	Args:  cobra.ExactArgs(1),
	RunE:  runExerciseAdd,
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an exercise's name and tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runExerciseEdit,
}

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an exercise and its images",
	Args:  cobra.ExactArgs(1),
	RunE:  runExerciseDelete,
}

// Exercise flags.
var (
	exerciseCourse string
	exerciseWeek   int
	exerciseTags   []string
	exerciseName   string
	exerciseNotes  string
)

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseCourse, "course", "c", "", "Course name (required)")
	exerciseAddCmd.Flags().IntVarP(&exerciseWeek, "week", "w", 0, "Week number (required)")
	exerciseAddCmd.Flags().StringSliceVarP(&exerciseTags, "tags", "t", nil, "Tags, classification first")
	exerciseAddCmd.Flags().StringVar(&exerciseNotes, "notes", "", "Free-form notes")
	_ = exerciseAddCmd.MarkFlagRequired("course")
	_ = exerciseAddCmd.MarkFlagRequired("week")

	exerciseEditCmd.Flags().StringVar(&exerciseName, "name", "", "New exercise name")
	exerciseEditCmd.Flags().StringSliceVarP(&exerciseTags, "tags", "t", nil, "New tag list, classification first")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseEditCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}

func runExerciseAdd(cmd *cobra.Command, args []string) error {
	exercise := domain.Exercise{
		Name:   args[0],
		Tags:   exerciseTags,
		Course: exerciseCourse,
		Week:   exerciseWeek,
		Notes:  exerciseNotes,
	}
	if err := libraryService.UpsertExercise(context.Background(), exercise); err != nil {
		return fmt.Errorf("adding exercise: %w", err)
	}
	cmd.Printf("Added exercise %q to %s week %d\n", args[0], exerciseCourse, exerciseWeek)
	return nil
}

func runExerciseEdit(cmd *cobra.Command, args []string) error {
	if exerciseName == "" {
		return fmt.Errorf("%w: --name is required", domain.ErrInvalidInput)
	}
	if err := libraryService.UpdateExercise(context.Background(), args[0], exerciseName, exerciseTags); err != nil {
		return fmt.Errorf("editing exercise: %w", err)
	}
	cmd.Printf("Updated exercise %s\n", args[0])
	return nil
}

func runExerciseDelete(cmd *cobra.Command, args []string) error {
	if err := libraryService.DeleteExercise(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	cmd.Printf("Deleted exercise %s\n", args[0])
	return nil
}
