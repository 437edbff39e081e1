package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdict-ci/verdict/internal/settings"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	store := settings.NewStore(filepath.Join(t.TempDir(), "nope", "preferences.yaml"))
	prefs, err := store.Load()
	require.NoError(t, err)
	assert.False(t, prefs.ExpandedOutput)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdict", "preferences.yaml")
	store := settings.NewStore(path)

	require.NoError(t, store.Save(settings.Preferences{ExpandedOutput: true}))

	prefs, err := store.Load()
	require.NoError(t, err)
	assert.True(t, prefs.ExpandedOutput)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := settings.NewStore(path).Load()
	assert.Error(t, err)
}
