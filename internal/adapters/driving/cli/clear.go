package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

var (
	clearDatabase bool
	clearMemory   bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the index, source documents or session memory",
	Long: `Clear stored state. With no flags both the database (index plus
source documents) and the session memory are cleared.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearDatabase, "database", false, "clear the index and source documents")
	clearCmd.Flags().BoolVar(&clearMemory, "memory", false, "clear the session conversation memory")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if ingestService == nil || chatService == nil {
		return errors.New("services not configured")
	}

	// No flags means clear everything.
	database, memory := clearDatabase, clearMemory
	if !database && !memory {
		database, memory = true, true
	}

	if database {
		if err := ingestService.ClearAll(cmd.Context()); err != nil {
			if errors.Is(err, domain.ErrIndexBusy) {
				return errors.New("another refresh or clear is already running, try again shortly")
			}
			return fmt.Errorf("clear failed: %w", err)
		}
		cmd.Println("Database and source documents cleared.")
	}
	if memory {
		chatService.ClearMemory()
		cmd.Println("Session memory cleared.")
	}
	return nil
}
