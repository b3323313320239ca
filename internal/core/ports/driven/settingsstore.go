package driven

// SettingsStore persists runtime settings as a whole key-value map.
// Load always returns all settings keys; missing keys are filled from
// defaults by the caller's domain conversion.
type SettingsStore interface {
	// Load reads the stored settings map.
	Load() (map[string]any, error)

	// Save writes the settings map, replacing stored values for the
	// provided keys and preserving the rest.
	Save(settings map[string]any) error

	// Path returns the backing file path.
	Path() string
}
