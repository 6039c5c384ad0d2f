// Package shellstate persists small bits of cross-invocation state (the
// active media player, the last-selected power profile) to a JSON file
// under the user's config directory, so a stateless CLI invocation can
// recover what a previous one chose.
//
// Grounded on original_source/src/runtime_state.rs; adapted to Go's
// os.UserConfigDir and encoding/json rather than a fixed ConfigPaths type.
package shellstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "runtime-state.json"

// State is the full persisted document.
type State struct {
	ActiveMediaPlayer string    `json:"active_media_player,omitempty"`
	PowerProfile      string    `json:"power_profile,omitempty"`
	LastUpdated       time.Time `json:"last_updated"`
}

var mu sync.Mutex

func statePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "steelshell", fileName), nil
}

// Load reads the state file, returning a zero-value State if it doesn't
// exist or fails to parse (a corrupt runtime-state.json is never fatal: it
// is regenerated on next Save).
func Load() (State, error) {
	mu.Lock()
	defer mu.Unlock()
	return load()
}

func load() (State, error) {
	path, err := statePath()
	if err != nil {
		return State{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read runtime state: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, nil
	}
	return s, nil
}

func save(s State) error {
	path, err := statePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal runtime state: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ActiveMediaPlayer returns the persisted active player bus name, or "".
func ActiveMediaPlayer() (string, error) {
	s, err := Load()
	if err != nil {
		return "", err
	}
	return s.ActiveMediaPlayer, nil
}

// SetActiveMediaPlayer persists which media player should be treated as
// active across restarts.
func SetActiveMediaPlayer(playerID string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := load()
	if err != nil {
		return err
	}
	s.ActiveMediaPlayer = playerID
	s.LastUpdated = time.Now()
	return save(s)
}

// SetPowerProfile persists the last power profile chosen through the
// control surface.
func SetPowerProfile(profile string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := load()
	if err != nil {
		return err
	}
	s.PowerProfile = profile
	s.LastUpdated = time.Now()
	return save(s)
}
