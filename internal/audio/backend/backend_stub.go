//go:build !linux

package backend

import (
	"fmt"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/pozitronik/steelclock-go/internal/reactive"
	"github.com/rs/zerolog"
)

// Backend is the non-Linux stand-in: PulseAudio/PipeWire is a Linux-style
// session subsystem (spec.md §1 Non-goals: "cross-platform portability
// beyond a Linux-style session/system bus and a PulseAudio/PipeWire
// server"), so Connect always reports ConnectionFailedError here, the same
// way the teacher's internal/wca stub reports unavailability off-Windows.
type Backend struct {
	Devices *DeviceStore
	Streams *StreamStore
	Events  *reactive.Broadcast[types.AudioEvent]
}

// Connect always fails on non-Linux platforms.
func Connect(_ reactive.Token, _ string, log zerolog.Logger) (*Backend, error) {
	log.Warn().Msg("pulseaudio backend is unavailable on this platform")
	return nil, &reactive.ConnectionFailedError{Backend: "pulseaudio", Err: fmt.Errorf("unsupported platform")}
}

// Shutdown is a no-op; Connect never succeeds so no Backend is ever live.
func (b *Backend) Shutdown() {}

// RunCommandProcessor drains and rejects every command; never reached since
// Connect always fails, kept to satisfy the same surface as the Linux build.
func (b *Backend) RunCommandProcessor(cmds <-chan types.Command) {
	for cmd := range cmds {
		if cmd.Response != nil {
			cmd.Response <- types.CommandResult{Err: &reactive.ConnectionFailedError{Backend: "pulseaudio", Err: fmt.Errorf("unsupported platform")}}
		}
	}
}

// StartCommandProcessor mirrors the Linux build's supervised launch; never
// reached since Connect always fails here first.
func (b *Backend) StartCommandProcessor(cmds <-chan types.Command) {
	go b.RunCommandProcessor(cmds)
}

// Wait mirrors the Linux build's task-group join; there is nothing to wait
// for since no task is ever started on this platform.
func (b *Backend) Wait() error { return nil }
