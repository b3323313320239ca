// Package cli provides the command-line interface for Lodestone.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestone-ai/lodestone/internal/core/ports/driving"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services the commands call into. Set by the bootstrap in Execute;
// tests set them directly.
var (
	chatService     driving.ChatService
	ingestService   driving.Ingestor
	settingsService driving.SettingsService
	searchService   driving.Searcher
)

var (
	verbose bool
	dataDir string
)

// Services bundles the service graph a bootstrapped process hands to the
// commands.
type Services struct {
	Chat     driving.ChatService
	Ingestor driving.Ingestor
	Settings driving.SettingsService
	Search   driving.Searcher
}

// BootstrapFunc builds the service graph rooted at dataDir. The returned
// cleanup runs after the command finishes.
type BootstrapFunc func(dataDir string) (*Services, func(), error)

var cleanupFunc func()

var rootCmd = &cobra.Command{
	Use:   "lodestone",
	Short: "Ask questions grounded in your own documents",
	Long: `Lodestone indexes local documents (PDF, DOCX, XLSX, CSV, TXT) and
answers questions grounded in their content, using a local Ollama
instance for embeddings and generation. Nothing leaves your machine.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.lodestone)")
}

// Execute runs the root command, bootstrapping the service graph first
// for commands that need one.
func Execute(bootstrap BootstrapFunc) error {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if !needsServices(cmd) {
			return nil
		}

		services, cleanup, err := bootstrap(dataDir)
		if err != nil {
			return fmt.Errorf("startup failed: %w", err)
		}
		chatService = services.Chat
		ingestService = services.Ingestor
		settingsService = services.Settings
		searchService = services.Search
		cleanupFunc = cleanup
		return nil
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if cleanupFunc != nil {
			cleanupFunc()
			cleanupFunc = nil
		}
	}
	return rootCmd.Execute()
}

// needsServices reports whether cmd touches the service graph.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return true
}
