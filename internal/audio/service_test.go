package audio

import (
	"testing"
	"time"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/pozitronik/steelclock-go/internal/reactive"
	"github.com/stretchr/testify/require"
)

// newTestService builds a Service with its monitor wired to a manually
// driven broadcast, bypassing backend.Connect entirely so these tests don't
// need libpulse or a running server.
func newTestService(t *testing.T) (*Service, func(types.AudioEvent)) {
	t.Helper()
	root := reactive.NewToken()
	events := reactive.NewBroadcast[types.AudioEvent](64)

	s := &Service{
		token:   root,
		outputs: make(map[types.DeviceKey]*OutputDevice),
		inputs:  make(map[types.DeviceKey]*InputDevice),
		streams: make(map[types.StreamKey]*Stream),
	}
	s.OutputDevices = reactive.New[[]*OutputDevice](nil, nil)
	s.InputDevices = reactive.New[[]*InputDevice](nil, nil)
	s.Streams = reactive.New[[]*Stream](nil, nil)
	s.DefaultOutput = reactive.New[*OutputDevice](nil, nil)
	s.DefaultInput = reactive.New[*InputDevice](nil, nil)

	// No backend: the goroutine below repeats StartServiceMonitor's loop over
	// the local broadcast instead of backend.Events.
	s.backend = nil
	publish := func(ev types.AudioEvent) { events.Publish(ev) }

	sub, cancel := events.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-root.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				s.handleEvent(ev)
			}
		}
	}()

	return s, publish
}

func TestServiceHotPlugAddsDevice(t *testing.T) {
	s, publish := newTestService(t)
	key := types.DeviceKey{Index: 5, Kind: types.Input}

	publish(types.AudioEvent{Kind: types.DeviceAdded, DeviceKey: key, Device: types.Device{Key: key, Name: "usb-mic", Volume: 0.5}})

	require.Eventually(t, func() bool {
		d, err := s.InputDevice(key)
		return err == nil && d != nil
	}, time.Second, time.Millisecond, "input device should appear after DeviceAdded")

	devices := s.InputDevices.Get()
	require.Len(t, devices, 1)
	require.Equal(t, key, devices[0].Key())
}

func TestServiceHotUnplugRemovesDeviceAndCancelsToken(t *testing.T) {
	s, publish := newTestService(t)
	key := types.DeviceKey{Index: 5, Kind: types.Input}

	publish(types.AudioEvent{Kind: types.DeviceAdded, DeviceKey: key, Device: types.Device{Key: key, Name: "usb-mic"}})
	require.Eventually(t, func() bool {
		_, err := s.InputDevice(key)
		return err == nil
	}, time.Second, time.Millisecond)

	live, err := s.InputDeviceMonitored(key)
	require.NoError(t, err)

	publish(types.AudioEvent{Kind: types.DeviceRemoved, DeviceKey: key})

	require.Eventually(t, func() bool {
		_, err := s.InputDevice(key)
		return err != nil
	}, time.Second, time.Millisecond, "device should be gone from the collection after removal")

	require.Eventually(t, func() bool {
		return live.CancelToken().Cancelled()
	}, time.Second, time.Millisecond, "monitor task's token must be cancelled on removal")

	require.Equal(t, Offline, live.State.Get())
}

func TestServiceVolumeSetRejectsAboveSafeLimit(t *testing.T) {
	s, _ := newTestService(t)
	err := s.SetVolume(types.DeviceKey{Index: 0, Kind: types.Output}, 2.5)

	var limitErr *reactive.VolumeExceedsSafeLimitError
	require.ErrorAs(t, err, &limitErr)
}

func TestServiceDefaultOutputResolvesAgainstCurrentMap(t *testing.T) {
	s, publish := newTestService(t)
	key := types.DeviceKey{Index: 1, Kind: types.Output}

	publish(types.AudioEvent{Kind: types.DeviceAdded, DeviceKey: key, Device: types.Device{Key: key, Name: "sink1"}})
	require.Eventually(t, func() bool {
		_, err := s.OutputDevice(key)
		return err == nil
	}, time.Second, time.Millisecond)

	publish(types.AudioEvent{Kind: types.DefaultOutputChanged, DefaultOutput: key})

	require.Eventually(t, func() bool {
		d := s.DefaultOutput.Get()
		return d != nil && d.Key() == key
	}, time.Second, time.Millisecond)
}
