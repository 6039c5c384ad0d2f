package configstore

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

const debounce = 300 * time.Millisecond

// Store loads steelshell's own configuration and republishes it as a
// reactive Property, reloading on write the way
// ManuGH-xg2g/internal/config/reload.go's ConfigHolder does, but surfacing
// changes through Property.Watch instead of registered listener channels.
type Store struct {
	log     zerolog.Logger
	path    string
	watcher *fsnotify.Watcher

	Config reactive.Property[*Config]
	root   reactive.Token
}

// NewStore loads path (or defaults if absent) and starts watching its
// containing directory for writes.
func NewStore(parent reactive.Token, path string, log zerolog.Logger) (*Store, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		log:    log.With().Str("service", "configstore").Logger(),
		path:   path,
		Config: reactive.New(cfg, eqConfig),
		root:   parent.Child(),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &reactive.InitializationFailedError{Service: "configstore", Err: err}
	}
	s.watcher = watcher

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, &reactive.InitializationFailedError{Service: "configstore", Err: err}
	}

	go s.watchLoop()
	return s, nil
}

func eqConfig(a, b *Config) bool { return a == b }

// Reload re-reads the config file and, if it parses and validates, swaps
// in the new value. A bad edit leaves the previous configuration active.
func (s *Store) Reload() error {
	cfg, err := load(s.path)
	if err != nil {
		s.log.Error().Err(err).Msg("config reload failed, keeping previous configuration")
		return err
	}
	s.Config.Set(cfg)
	s.log.Info().Msg("configuration reloaded")
	return nil
}

func (s *Store) watchLoop() {
	defer func() { _ = s.watcher.Close() }()

	var timer *time.Timer
	name := filepath.Base(s.path)

	for {
		select {
		case <-s.root.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { _ = s.Reload() })

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// Close stops the file watcher.
func (s *Store) Close() { s.root.Cancel() }
