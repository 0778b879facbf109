// Package cli implements the Vaulty command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaulty-app/vaulty/internal/adapters/driven/ai/gemini"
	"github.com/vaulty-app/vaulty/internal/adapters/driven/assets"
	configfile "github.com/vaulty-app/vaulty/internal/adapters/driven/config/file"
	"github.com/vaulty-app/vaulty/internal/adapters/driven/raster"
	"github.com/vaulty-app/vaulty/internal/adapters/driven/storage/sqlite"
	"github.com/vaulty-app/vaulty/internal/core/ports/driving"
	"github.com/vaulty-app/vaulty/internal/core/services"
	"github.com/vaulty-app/vaulty/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Package-level services wired during startup.
var (
	ingestService   driving.IngestService
	libraryService  driving.LibraryService
	settingsService driving.SettingsService

	configStore *configfile.ConfigStore
	store       *sqlite.Store
	assetStore  *assets.FileStore
	rasterizer  *raster.Rasterizer
)

// Persistent flags.
var (
	flagVerbose bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "vaulty",
	Short: "Ingest course documents into a searchable exercise library",
	Long: `Vaulty turns scanned or typed course documents (PDFs) into a
structured library of exercises. Pages are rasterized, classified with
Gemini, and stored in a course -> week -> exercise hierarchy together
with the page images.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Application data directory (default ~/.vaulty)")
}

// initServices wires adapters and services for one invocation.
// Paths are resolved here and passed into every constructor.
func initServices() error {
	var err error
	configStore, err = configfile.NewConfigStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = configStore.GetString(configfile.KeyDataDir)
	}

	assetStore, err = assets.NewFileStore(dataDir)
	if err != nil {
		return fmt.Errorf("initializing asset store: %w", err)
	}

	store, err = sqlite.NewStore(dataDir, assetStore)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	rasterizer = raster.NewRasterizer(raster.Config{
		DPI: configStore.GetInt(configfile.KeyRenderDPI),
	})

	libraryService = services.NewLibraryService(store)
	settingsService = services.NewSettingsService(store)
	return nil
}

// newExtractor builds the Gemini extractor from the stored credential.
// Called lazily: only ingestion needs the API key.
func newExtractor(apiKey string) (*gemini.Extractor, error) {
	return gemini.NewExtractor(gemini.Config{
		APIKey: apiKey,
		Model:  configStore.GetString(configfile.KeyGeminiModel),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
