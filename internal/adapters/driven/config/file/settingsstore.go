// Package file stores runtime settings in a TOML file.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a file-based implementation of driven.SettingsStore
// using TOML. Settings are stored flat, one key per line.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a TOML-based settings store.
// If dataDir is empty, defaults to ~/.lodestone.
func NewSettingsStore(dataDir string) (*SettingsStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(home, ".lodestone")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(dataDir, "settings.toml"),
	}, nil
}

// Load reads the settings file. A missing file yields an empty map so
// callers fall back to defaults.
func (s *SettingsStore) Load() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, err
	}
	if loaded == nil {
		loaded = make(map[string]any)
	}
	return loaded, nil
}

// Save persists values to the settings file with restricted permissions.
func (s *SettingsStore) Save(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0o600)
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
