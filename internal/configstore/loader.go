package configstore

import (
	"encoding/json"
	"fmt"
	"os"
)

// load reads and parses the config file. If the file doesn't exist, returns
// a default configuration (internal/config/loader.go's Load, adapted).
func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return createDefault(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := createDefault()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file (invalid JSON): %w", err)
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
