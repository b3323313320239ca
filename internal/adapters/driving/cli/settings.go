package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// intKeys are the settings keys whose values are integers.
var intKeys = map[string]bool{
	domain.KeyChunkSize:    true,
	domain.KeyChunkOverlap: true,
	domain.KeyTopK:         true,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage runtime settings",
	Long: `View and update the Ollama endpoint, models, chunking parameters and
retrieval depth. Updates take effect immediately.`,
	RunE: runSettingsGet,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current settings",
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Update one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsGet(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	m := settings.ToMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd.Printf("%s = %v\n", k, m[k])
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, raw := args[0], args[1]
	var value any = raw
	if intKeys[key] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s expects an integer, got %q", key, raw)
		}
		value = n
	}

	updated, err := settingsService.Update(cmd.Context(), map[string]any{key: value})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidModel) {
			return fmt.Errorf("model not available from the provider: %w", err)
		}
		return fmt.Errorf("failed to update settings: %w", err)
	}

	cmd.Printf("%s = %v\n", key, updated.ToMap()[key])
	return nil
}
