package audio

import (
	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Stream is a live or snapshot sink-input/source-output.
type Stream struct {
	key types.StreamKey

	OwningDevice reactive.Property[uint32]
	Volume       reactive.Property[float64]
	Muted        reactive.Property[bool]
	Corked       reactive.Property[bool]
	Media        reactive.Property[types.MediaInfo]
	State        reactive.Property[DeviceState]

	token reactive.Token
}

func newStream(s types.StreamInfo) *Stream {
	return &Stream{
		key:          s.Key,
		OwningDevice: reactive.New(s.OwningDevice, func(a, b uint32) bool { return a == b }),
		Volume:       reactive.New(s.Volume, eqFloat),
		Muted:        reactive.New(s.Muted, eqBool),
		Corked:       reactive.New(s.Corked, eqBool),
		Media:        reactive.New(s.Media, func(a, b types.MediaInfo) bool { return a == b }),
		State:        reactive.New(Online, func(a, b DeviceState) bool { return a == b }),
	}
}

// Key satisfies reactive.Entity[types.StreamKey].
func (s *Stream) Key() types.StreamKey { return s.key }

func (s *Stream) applyChange(info types.StreamInfo) {
	s.OwningDevice.Set(info.OwningDevice)
	s.Volume.Set(info.Volume)
	s.Muted.Set(info.Muted)
	s.Corked.Set(info.Corked)
	s.Media.Set(info.Media)
}

func (s *Stream) markOffline() {
	s.State.Set(Offline)
}

func (s *Stream) StartMonitoring(parent reactive.Token) {
	s.token = parent.Child()
}

func (s *Stream) CancelToken() reactive.Token { return s.token }

var (
	_ reactive.Entity[types.StreamKey] = (*Stream)(nil)
	_ reactive.ModelMonitoring         = (*Stream)(nil)
)
