package configstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 5000, cfg.Notifications.DefaultTimeoutMS)
	require.True(t, cfg.IdleInhibit.Enabled)
}

func TestLoadParsesAndMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"debug","media":{"ignore_patterns":["spotify"]}}`), 0o644))

	cfg, err := load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"spotify"}, cfg.Media.IgnorePatterns)
	require.Equal(t, 5000, cfg.Notifications.DefaultTimeoutMS)
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"verbose"}`), 0o644))

	_, err := load(path)
	require.Error(t, err)
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"notifications":{"default_timeout_ms":-1}}`), 0o644))

	_, err := load(path)
	require.Error(t, err)
}
