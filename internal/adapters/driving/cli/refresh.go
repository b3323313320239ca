package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the index from the knowledge directory",
	Long: `Destroy the vector index and re-ingest every supported file in the
knowledge directory.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	result, err := ingestService.Refresh(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrIndexBusy) {
			return errors.New("another refresh or clear is already running, try again shortly")
		}
		return fmt.Errorf("refresh failed: %w", err)
	}

	cmd.Printf("Database refreshed: %d chunks from %d files.\n", result.Chunks, len(result.Files))
	for _, f := range result.Failed() {
		cmd.Printf("  %s: %v\n", f.Name, f.Err)
	}
	return nil
}
