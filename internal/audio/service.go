// Package audio is the canonical instance of the reactive service core: it
// aggregates PulseAudio devices and streams behind the Property/Entity/
// Service protocol from internal/reactive, bridging the callback-driven C
// client via internal/audio/backend.
package audio

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pozitronik/steelclock-go/internal/audio/backend"
	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/pozitronik/steelclock-go/internal/reactive"
	"github.com/rs/zerolog"
)

// SafeVolumeLimit is the boundary enforced before any command reaches the
// backend (spec.md §8 "Boundary behaviors").
const SafeVolumeLimit = 2.0

// Service aggregates audio devices and streams for one PulseAudio
// connection. Dropping it (Close) cancels its root token, cascading to the
// backend's context thread, its command processor, and every live entity.
type Service struct {
	log   zerolog.Logger
	token reactive.Token

	backend *backend.Backend
	cmds    chan types.Command

	mu      sync.Mutex
	outputs map[types.DeviceKey]*OutputDevice
	inputs  map[types.DeviceKey]*InputDevice
	streams map[types.StreamKey]*Stream

	OutputDevices reactive.Property[[]*OutputDevice]
	InputDevices  reactive.Property[[]*InputDevice]
	Streams       reactive.Property[[]*Stream]
	DefaultOutput reactive.Property[*OutputDevice]
	DefaultInput  reactive.Property[*InputDevice]
}

// NewService connects to PulseAudio, performs initial discovery, and starts
// the service-level monitor. A connection failure surfaces as the
// ConnectionFailedError from backend.Connect and no Service is returned, so
// the rest of the shell can continue without audio (spec.md §7 "services
// degrade gracefully"). Subscription and initial discovery report no errors,
// so NewService never returns InitializationFailedError.
func NewService(parent reactive.Token, appName string, log zerolog.Logger) (*Service, error) {
	root := parent.Child()
	b, err := backend.Connect(root, appName, log)
	if err != nil {
		return nil, err
	}

	s := &Service{
		log:     log.With().Str("service", "audio").Logger(),
		token:   root,
		backend: b,
		cmds:    make(chan types.Command, 32),
		outputs: make(map[types.DeviceKey]*OutputDevice),
		inputs:  make(map[types.DeviceKey]*InputDevice),
		streams: make(map[types.StreamKey]*Stream),
	}
	s.OutputDevices = reactive.New[[]*OutputDevice](nil, nil)
	s.InputDevices = reactive.New[[]*InputDevice](nil, nil)
	s.Streams = reactive.New[[]*Stream](nil, nil)
	s.DefaultOutput = reactive.New[*OutputDevice](nil, nil)
	s.DefaultInput = reactive.New[*InputDevice](nil, nil)

	b.StartCommandProcessor(s.cmds)
	s.StartServiceMonitor(root)

	return s, nil
}

// Close cancels the service's root token. This is the sole supported
// shutdown path (spec.md §5): every monitor and backend task selects on the
// token and exits cooperatively. There are no explicit joins.
func (s *Service) Close() {
	s.token.Cancel()
}

// StartServiceMonitor satisfies reactive.ServiceMonitoring. It runs the
// single long-lived task that maintains OutputDevices/InputDevices/Streams
// and the default-device singletons from the backend's broadcast event
// feed (spec.md §4.3).
func (s *Service) StartServiceMonitor(root reactive.Token) {
	events, cancel := s.backend.Events.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-root.Done():
				return
			case ev, ok := <-events:
				if !ok {
					// Mainloop failure: collections freeze (spec.md §4.4
					// "Failure modes").
					s.log.Warn().Msg("audio event feed closed; collections frozen")
					return
				}
				s.handleEvent(ev)
			}
		}
	}()
}

// handleEvent is invoked from the single service-monitor goroutine, so
// events are strictly ordered: a Removed(k) is never reordered with a
// Changed/Added(k) for the same key (spec.md §4.3 "Ordering guarantees").
func (s *Service) handleEvent(ev types.AudioEvent) {
	switch ev.Kind {
	case types.DeviceAdded:
		s.upsertDevice(ev.Device)
	case types.DeviceChanged:
		s.upsertDevice(ev.Device)
	case types.DeviceRemoved:
		s.removeDevice(ev.DeviceKey)
	case types.StreamAdded:
		s.upsertStream(ev.Stream)
	case types.StreamChanged:
		s.upsertStream(ev.Stream)
	case types.StreamRemoved:
		s.removeStream(ev.StreamKey)
	case types.DefaultOutputChanged:
		s.resolveDefaultOutput(ev.DefaultOutput)
	case types.DefaultInputChanged:
		s.resolveDefaultInput(ev.DefaultInput)
	}
}

func (s *Service) upsertDevice(d types.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Key.Kind == types.Output {
		if existing, ok := s.outputs[d.Key]; ok {
			existing.applyChange(d)
			return // composition unchanged, no republish
		}
		entity := &OutputDevice{baseDevice: newBaseDevice(d)}
		entity.StartMonitoring(s.token)
		s.outputs[d.Key] = entity
		s.republishOutputsLocked()
		return
	}

	if existing, ok := s.inputs[d.Key]; ok {
		existing.applyChange(d)
		return
	}
	entity := &InputDevice{baseDevice: newBaseDevice(d)}
	entity.StartMonitoring(s.token)
	s.inputs[d.Key] = entity
	s.republishInputsLocked()
}

func (s *Service) removeDevice(k types.DeviceKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k.Kind == types.Output {
		if entity, ok := s.outputs[k]; ok {
			entity.markOffline()
			entity.CancelToken().Cancel()
			delete(s.outputs, k)
			s.republishOutputsLocked()
		}
		return
	}
	if entity, ok := s.inputs[k]; ok {
		entity.markOffline()
		entity.CancelToken().Cancel()
		delete(s.inputs, k)
		s.republishInputsLocked()
	}
}

func (s *Service) upsertStream(info types.StreamInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.streams[info.Key]; ok {
		existing.applyChange(info)
		return
	}
	entity := newStream(info)
	entity.StartMonitoring(s.token)
	s.streams[info.Key] = entity
	s.republishStreamsLocked()
}

func (s *Service) removeStream(k types.StreamKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entity, ok := s.streams[k]; ok {
		entity.markOffline()
		entity.CancelToken().Cancel()
		delete(s.streams, k)
		s.republishStreamsLocked()
	}
}

func (s *Service) resolveDefaultOutput(k types.DeviceKey) {
	s.mu.Lock()
	entity, ok := s.outputs[k]
	s.mu.Unlock()
	if ok {
		s.DefaultOutput.Set(entity)
	}
}

func (s *Service) resolveDefaultInput(k types.DeviceKey) {
	s.mu.Lock()
	entity, ok := s.inputs[k]
	s.mu.Unlock()
	if ok {
		s.DefaultInput.Set(entity)
	}
}

func (s *Service) republishOutputsLocked() {
	out := make([]*OutputDevice, 0, len(s.outputs))
	for _, d := range s.outputs {
		out = append(out, d)
	}
	s.OutputDevices.Set(out)
}

func (s *Service) republishInputsLocked() {
	out := make([]*InputDevice, 0, len(s.inputs))
	for _, d := range s.inputs {
		out = append(out, d)
	}
	s.InputDevices.Set(out)
}

func (s *Service) republishStreamsLocked() {
	out := make([]*Stream, 0, len(s.streams))
	for _, st := range s.streams {
		out = append(out, st)
	}
	s.Streams.Set(out)
}

// OutputDevice returns the tracked entity for key without an introspection
// round-trip. It is the same live handle OutputDeviceMonitored returns, not a
// frozen copy: its Properties keep following the service monitor's updates.
func (s *Service) OutputDevice(key types.DeviceKey) (*OutputDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.outputs[key]; ok {
		return d, nil
	}
	return nil, &reactive.EntityNotFoundError{Index: key.Index, Kind: "output"}
}

// OutputDeviceMonitored returns the live entity for key, which is the same
// handle the service monitor updates going forward.
func (s *Service) OutputDeviceMonitored(key types.DeviceKey) (*OutputDevice, error) {
	return s.OutputDevice(key)
}

// InputDevice returns the tracked entity for key; like OutputDevice, it is
// the live handle, not a frozen copy.
func (s *Service) InputDevice(key types.DeviceKey) (*InputDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.inputs[key]; ok {
		return d, nil
	}
	return nil, &reactive.EntityNotFoundError{Index: key.Index, Kind: "input"}
}

// InputDeviceMonitored returns the live entity for key.
func (s *Service) InputDeviceMonitored(key types.DeviceKey) (*InputDevice, error) {
	return s.InputDevice(key)
}

// StreamSnapshot returns the tracked stream for key; it is the live handle,
// not a frozen copy.
func (s *Service) StreamSnapshot(key types.StreamKey) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.streams[key]; ok {
		return st, nil
	}
	return nil, &reactive.EntityNotFoundError{Index: key.Index, Kind: key.Kind.String()}
}

// submit dispatches cmd and waits for the backend's response, or for the
// service's token to fire (spec.md §8 "Cancellation during an in-flight
// command returns CommandChannelDisconnected"). Every command is stamped
// with a correlation ID so its dispatch and eventual result can be tied
// together in the logs even though the PulseAudio confirmation itself
// arrives asynchronously, through the subscription event stream rather than
// the Response channel.
func (s *Service) submit(cmd types.Command) error {
	cmd.ID = uuid.NewString()
	cmd.Response = make(chan types.CommandResult, 1)
	log := s.log.With().Str("cmd_id", cmd.ID).Logger()

	select {
	case s.cmds <- cmd:
	case <-s.token.Done():
		return &reactive.CommandChannelDisconnectedError{Backend: "pulseaudio"}
	}
	select {
	case res := <-cmd.Response:
		if res.Err != nil {
			log.Debug().Err(res.Err).Msg("command failed")
		}
		return res.Err
	case <-s.token.Done():
		return &reactive.CommandChannelDisconnectedError{Backend: "pulseaudio"}
	}
}

// SetVolume dispatches a volume change. Values above SafeVolumeLimit are
// rejected at the service boundary, before ever reaching the backend
// (spec.md §8).
func (s *Service) SetVolume(device types.DeviceKey, linear float64) error {
	if linear > SafeVolumeLimit {
		return &reactive.VolumeExceedsSafeLimitError{Requested: linear, Limit: SafeVolumeLimit}
	}
	return s.submit(types.Command{Kind: types.SetVolume, Device: device, Volume: linear})
}

// SetMute dispatches a mute change.
func (s *Service) SetMute(device types.DeviceKey, mute bool) error {
	return s.submit(types.Command{Kind: types.SetMute, Device: device, Mute: mute})
}

// SetAsDefault dispatches a default-device change. The eventual
// DefaultOutputChanged/DefaultInputChanged subscription event is what
// actually updates DefaultOutput/DefaultInput (spec.md §8 round-trip law).
func (s *Service) SetAsDefault(device types.DeviceKey) error {
	kind := types.SetDefaultOutput
	if device.Kind == types.Input {
		kind = types.SetDefaultInput
	}
	return s.submit(types.Command{Kind: kind, Device: device})
}

// SetStreamVolume dispatches a per-stream volume change.
func (s *Service) SetStreamVolume(stream types.StreamKey, linear float64) error {
	if linear > SafeVolumeLimit {
		return &reactive.VolumeExceedsSafeLimitError{Requested: linear, Limit: SafeVolumeLimit}
	}
	return s.submit(types.Command{Kind: types.SetStreamVolume, Stream: stream, Volume: linear})
}

// SetStreamMute dispatches a per-stream mute change.
func (s *Service) SetStreamMute(stream types.StreamKey, mute bool) error {
	return s.submit(types.Command{Kind: types.SetStreamMute, Stream: stream, Mute: mute})
}

// MoveStream dispatches a request to move stream onto targetDevice.
func (s *Service) MoveStream(stream types.StreamKey, targetDevice types.DeviceKey) error {
	return s.submit(types.Command{Kind: types.MoveStream, Stream: stream, TargetFlag: targetDevice})
}

// SetPort dispatches a port change for device.
func (s *Service) SetPort(device types.DeviceKey, port string) error {
	return s.submit(types.Command{Kind: types.SetPort, Device: device, PortName: port})
}

// String renders a short debug summary, used by the CLI's status command.
func (s *Service) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("audio: %d outputs, %d inputs, %d streams", len(s.outputs), len(s.inputs), len(s.streams))
}

var _ reactive.ServiceMonitoring = (*Service)(nil)
