package audio

import "github.com/pozitronik/steelclock-go/internal/reactive"

// ErrConnectionFailed wraps the shared taxonomy with the audio service's own
// name, for callers that pattern-match on the service rather than the
// transport (original_source/src/services/audio/error.rs has a dedicated
// per-service enum; steelshell keeps the shared taxonomy authoritative and
// only adds this constructor for ergonomics).
func ErrConnectionFailed(reason error) error {
	return &reactive.ConnectionFailedError{Backend: "pulseaudio", Err: reason}
}
