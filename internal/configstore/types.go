// Package configstore loads the shell's own settings (distinct from the
// widget/display TOML schema, which is out of scope) and republishes them
// as a reactive Property, hot-reloading on write the way
// internal/config/loader.go loads a static file, adapted with fsnotify
// watching.
package configstore

// Config is steelshell's own runtime configuration: per-domain toggles and
// defaults for the reactive services, not the OLED widget layout schema.
type Config struct {
	LogLevel string `json:"log_level"`

	Media struct {
		IgnorePatterns []string `json:"ignore_patterns"`
	} `json:"media"`

	Notifications struct {
		DefaultTimeoutMS int `json:"default_timeout_ms"`
	} `json:"notifications"`

	IdleInhibit struct {
		Enabled bool `json:"enabled"`
	} `json:"idle_inhibit"`
}

func createDefault() *Config {
	cfg := &Config{LogLevel: "info"}
	cfg.Notifications.DefaultTimeoutMS = 5000
	cfg.IdleInhibit.Enabled = true
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Notifications.DefaultTimeoutMS == 0 {
		cfg.Notifications.DefaultTimeoutMS = 5000
	}
}

func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return &invalidLogLevelError{cfg.LogLevel}
	}
	if cfg.Notifications.DefaultTimeoutMS < 0 {
		return &invalidTimeoutError{cfg.Notifications.DefaultTimeoutMS}
	}
	return nil
}

type invalidLogLevelError struct{ level string }

func (e *invalidLogLevelError) Error() string {
	return "invalid log_level: " + e.level
}

type invalidTimeoutError struct{ ms int }

func (e *invalidTimeoutError) Error() string {
	return "notifications.default_timeout_ms must not be negative"
}
