package driving

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// SettingsService reads and updates runtime configuration.
type SettingsService interface {
	// Get returns the current settings, defaults filling absent keys.
	Get() (domain.Settings, error)

	// Update validates and persists changed fields, then atomically
	// rebuilds every dependent client. Model changes are checked against
	// the provider when it is reachable.
	Update(ctx context.Context, changes map[string]any) (domain.Settings, error)
}
