//go:build linux

package backend

// #include <pulse/pulseaudio.h>
import "C"

import "github.com/pozitronik/steelclock-go/internal/audio/types"

// subscriptionEvent is the raw payload goSubscribeCb forwards off the
// context thread; classification happens in RunEventProcessor instead of in
// the C callback itself.
type subscriptionEvent struct {
	facility  int
	operation int
	index     uint32
}

// RunEventProcessor consumes subscription notifications queued by the
// PulseAudio callback and classifies/dispatches them, until the backend's
// token fires (spec.md §4.4 "Event processor"). It is meant to run as its
// own goroutine, supervised alongside the context thread and the command
// processor: this is what keeps classifyAndDispatch's refresh* calls (which
// post work back onto the context thread via b.run) off the context thread
// itself, so that thread is always free to service them.
func (b *Backend) RunEventProcessor() {
	defer b.log.Debug().Msg("event processor exiting")
	for {
		select {
		case <-b.token.Done():
			return
		case ev := <-b.subEvents:
			b.classifyAndDispatch(ev.facility, ev.operation, ev.index)
		}
	}
}

// classifyAndDispatch maps a subscription callback's (facility, operation,
// index) into either a direct removal event or an internal refresh command,
// per spec.md §4.4's classification table. The design deliberately avoids
// optimistic state construction from event payloads: the server's own state
// is always the authority, so every notification triggers a re-read.
func (b *Backend) classifyAndDispatch(facility, operation int, idx uint32) {
	remove := operation == C.PA_SUBSCRIPTION_EVENT_REMOVE

	switch facility {
	case C.PA_SUBSCRIPTION_EVENT_SINK:
		key := types.DeviceKey{Index: idx, Kind: types.Output}
		if remove {
			if b.Devices.Remove(key) {
				b.Events.Publish(types.AudioEvent{Kind: types.DeviceRemoved, DeviceKey: key})
			}
			return
		}
		b.refreshDevice(key)

	case C.PA_SUBSCRIPTION_EVENT_SOURCE:
		key := types.DeviceKey{Index: idx, Kind: types.Input}
		if remove {
			if b.Devices.Remove(key) {
				b.Events.Publish(types.AudioEvent{Kind: types.DeviceRemoved, DeviceKey: key})
			}
			return
		}
		b.refreshDevice(key)

	case C.PA_SUBSCRIPTION_EVENT_SINK_INPUT:
		key := types.StreamKey{Index: idx, Kind: types.Playback}
		if remove {
			if b.Streams.Remove(key) {
				b.Events.Publish(types.AudioEvent{Kind: types.StreamRemoved, StreamKey: key})
			}
			return
		}
		b.refreshStream(key)

	case C.PA_SUBSCRIPTION_EVENT_SOURCE_OUTPUT:
		key := types.StreamKey{Index: idx, Kind: types.Record}
		if remove {
			if b.Streams.Remove(key) {
				b.Events.Publish(types.AudioEvent{Kind: types.StreamRemoved, StreamKey: key})
			}
			return
		}
		b.refreshStream(key)

	case C.PA_SUBSCRIPTION_EVENT_SERVER:
		b.refreshServerInfo()
	}
}
