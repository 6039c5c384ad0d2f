package configstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

func TestNewStoreLoadsInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"warn"}`), 0o644))

	s, err := NewStore(reactive.NewToken(), path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, "warn", s.Config.Get().LogLevel)
}

func TestStoreReloadsOnFileWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"info"}`), 0o644))

	s, err := NewStore(reactive.NewToken(), path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	watch, cancel := s.Config.Watch()
	defer cancel()

	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"debug"}`), 0o644))

	select {
	case cfg := <-watch:
		require.Equal(t, "debug", cfg.LogLevel)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestReloadKeepsPreviousConfigOnBadEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"info"}`), 0o644))

	s, err := NewStore(reactive.NewToken(), path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	require.Error(t, s.Reload())
	require.Equal(t, "info", s.Config.Get().LogLevel)
}
