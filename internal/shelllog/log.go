// Package shelllog configures the process-wide zerolog logger, the way
// cuemby-warren/pkg/log does: a package-level Logger built once from a
// Config, with WithComponent handing out per-service child loggers.
package shelllog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. Zero value until Init runs.
var Logger zerolog.Logger

// Config controls verbosity and encoding of the process logger.
type Config struct {
	Level  string // debug, info, warn, error
	JSON   bool
	Output io.Writer // defaults to os.Stderr
}

// Init builds Logger from cfg and sets zerolog's global level filter.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.JSON {
		Logger = zerolog.New(output).With().Timestamp().Logger()
		return
	}
	Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// WithComponent returns a child logger tagged with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
