package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files [query]",
	Short: "List knowledge-base files",
	Long: `List the files in the knowledge directory. An optional query filters
by file name, case-insensitively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	files, err := ingestService.ListFiles(query)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) == 0 {
		cmd.Println("No files found.")
		return nil
	}
	for _, f := range files {
		cmd.Printf("  %s  (%s, %d bytes)\n", f.Name, f.Type, f.Size)
	}
	return nil
}
