package audio

import (
	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// DeviceState tracks whether a live device entity is still backed by a real
// PulseAudio object. A device transitions to Offline when the service
// monitor observes its removal; its Properties freeze at their last value
// (spec.md §4.2 "Failure semantics").
type DeviceState int

const (
	Online DeviceState = iota
	Offline
)

// baseDevice is the field set shared by OutputDevice and InputDevice. Kept
// as an unexported embed so each still satisfies reactive.Entity on its own
// concrete type, matching the original's separate output/ and input/
// packages (original_source/src/services/audio/core/device/{output,input}).
type baseDevice struct {
	key types.DeviceKey

	Name        reactive.Property[string]
	Description reactive.Property[string]
	Volume      reactive.Property[float64]
	Muted       reactive.Property[bool]
	ActivePort  reactive.Property[string]
	Ports       reactive.Property[[]types.Port]
	State       reactive.Property[DeviceState]

	token reactive.Token
}

func eqFloat(a, b float64) bool { return a == b }
func eqBool(a, b bool) bool     { return a == b }
func eqString(a, b string) bool { return a == b }

func newBaseDevice(d types.Device) *baseDevice {
	return &baseDevice{
		key:         d.Key,
		Name:        reactive.New(d.Name, eqString),
		Description: reactive.New(d.Description, eqString),
		Volume:      reactive.New(d.Volume, eqFloat),
		Muted:       reactive.New(d.Muted, eqBool),
		ActivePort:  reactive.New(d.ActivePort, eqString),
		Ports:       reactive.New(d.Ports, nil),
		State:       reactive.New(Online, func(a, b DeviceState) bool { return a == b }),
	}
}

// Key satisfies reactive.Entity[types.DeviceKey].
func (b *baseDevice) Key() types.DeviceKey { return b.key }

// applyChange is the entity's in-place update, invoked by the service
// monitor on a DeviceChanged event (spec.md §4.3 "Change").
func (b *baseDevice) applyChange(d types.Device) {
	b.Name.Set(d.Name)
	b.Description.Set(d.Description)
	b.Volume.Set(d.Volume)
	b.Muted.Set(d.Muted)
	b.ActivePort.Set(d.ActivePort)
	b.Ports.Set(d.Ports)
}

// markOffline freezes the entity's last-known values and flips State, on a
// DeviceRemoved event.
func (b *baseDevice) markOffline() {
	b.State.Set(Offline)
}

// StartMonitoring derives and stores this entity's own cancellation token.
// For the audio domain the actual monitoring work is done by the single
// per-service monitor (PulseAudio's subscription mask already covers every
// device; there is no separate per-device subscription to wire up), so this
// only satisfies reactive.ModelMonitoring's bookkeeping contract: the
// service monitor cancels this token directly on removal (spec.md §4.3).
func (b *baseDevice) StartMonitoring(parent reactive.Token) {
	b.token = parent.Child()
}

// CancelToken returns this entity's own cancellation token.
func (b *baseDevice) CancelToken() reactive.Token { return b.token }

// OutputDevice is a live or snapshot sink.
type OutputDevice struct{ *baseDevice }

// InputDevice is a live or snapshot source.
type InputDevice struct{ *baseDevice }

var (
	_ reactive.Entity[types.DeviceKey]  = OutputDevice{}
	_ reactive.Entity[types.DeviceKey]  = InputDevice{}
	_ reactive.ModelMonitoring          = OutputDevice{}
	_ reactive.ModelMonitoring          = InputDevice{}
)
