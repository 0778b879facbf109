package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
}

var setAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key",
	Short: "Store the Gemini API key",
	Long: `Prompts for the Gemini API key without echoing and stores it in
the local database. With --stdin the key is read from standard input
instead, for scripted setups.`,
	Args: cobra.NoArgs,
	RunE: runSetAPIKey,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

// apiKeyFromStdin reads the key from stdin instead of prompting.
var apiKeyFromStdin bool

func init() {
	setAPIKeyCmd.Flags().BoolVar(&apiKeyFromStdin, "stdin", false, "Read the API key from standard input")
	settingsCmd.AddCommand(setAPIKeyCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSetAPIKey(cmd *cobra.Command, _ []string) error {
	key, err := readAPIKey(cmd)
	if err != nil {
		return err
	}

	if err := settingsService.SaveAPIKey(context.Background(), key); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	cmd.Println("API key saved.")
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Printf("Database:    %s\n", store.Path())

	_, err := settingsService.APIKey(context.Background())
	switch {
	case err == nil:
		cmd.Println("API key:     configured")
	case errors.Is(err, domain.ErrNotFound):
		cmd.Println("API key:     not set")
	default:
		return fmt.Errorf("reading API key: %w", err)
	}
	return nil
}

// readAPIKey obtains the key from a no-echo prompt or from stdin.
func readAPIKey(cmd *cobra.Command) (string, error) {
	if apiKeyFromStdin {
		reader := bufio.NewReader(cmd.InOrStdin())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading API key from stdin: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	cmd.Print("Gemini API key: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
