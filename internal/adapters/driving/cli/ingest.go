package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]...",
	Short: "Add documents to the knowledge base",
	Long: `Copy the given files into the knowledge directory, extract their
text and index it for retrieval. One bad file never aborts the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	result, err := ingestService.IngestFiles(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	for _, f := range result.Files {
		if f.Err != nil {
			cmd.Printf("  %s: %v\n", f.Name, f.Err)
			continue
		}
		cmd.Printf("  %s: %d chunks\n", f.Name, f.Chunks)
	}

	failed := result.Failed()
	cmd.Printf("Indexed %d chunks from %d of %d files.\n",
		result.Chunks, len(result.Files)-len(failed), len(result.Files))
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(failed), len(result.Files))
	}
	return nil
}
