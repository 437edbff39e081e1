// Package settings persists the handful of user preferences that
// survive between invocations.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// Preferences holds every persisted UI preference.
type Preferences struct {
	// ExpandedOutput controls whether listings show the full detail
	// columns by default.
	ExpandedOutput bool `json:"expanded-output"`
}

// Store reads and writes Preferences at a fixed path. The path is
// injectable so tests never touch the real config dir.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is the per-user preferences file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(configDir, "verdict", "preferences.yaml"), nil
}

// Load returns the stored preferences, or defaults when no file
// exists yet.
func (s *Store) Load() (Preferences, error) {
	prefs := Preferences{}
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("reading preferences: %w", err)
	}
	if err := yaml.Unmarshal(contents, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("decoding preferences: %w", err)
	}
	return prefs, nil
}

// Save writes the preferences, creating the parent directory on first
// use.
func (s *Store) Save(prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}
	contents, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := os.WriteFile(s.path, contents, 0o600); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
