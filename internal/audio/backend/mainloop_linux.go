//go:build linux

package backend

// #cgo pkg-config: libpulse
// #include <pulse/pulseaudio.h>
// #include "shim.h"
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/pozitronik/steelclock-go/internal/reactive"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Backend bridges PulseAudio's callback-driven C client to the reactive
// audio service. A single OS thread owns the mainloop and the context;
// every C call happens there. All user-visible methods are safe to call
// from any goroutine — they post work onto that thread and wait on a
// response channel.
//
// Three long-lived tasks share the backend's lifetime: the context thread
// pump, the subscription event processor, and (once a Service starts it)
// the command processor. tasks supervises all three so Wait reports the
// first one's failure and every goroutine this backend spawns is
// accounted for.
type Backend struct {
	log zerolog.Logger

	mainloop *C.pa_mainloop
	api      *C.pa_mainloop_api
	context  *C.pa_context

	handle cgo.Handle // recovered by the C trampolines' userdata argument

	post      chan func()            // closures run on the context thread
	subEvents chan subscriptionEvent // raw subscription notifications, off the context thread

	Devices *DeviceStore
	Streams *StreamStore
	Events  *reactive.Broadcast[types.AudioEvent]

	readyOnce sync.Once
	ready     chan error

	token reactive.Token
	tasks errgroup.Group
}

// Connect establishes the PulseAudio connection, subscribes before the
// first introspection call (spec.md §4.4 "installed before the first
// introspection call so no event is missed"), and kicks off initial
// discovery. It blocks until the context reaches PA_CONTEXT_READY or fails.
func Connect(parent reactive.Token, appName string, log zerolog.Logger) (*Backend, error) {
	b := &Backend{
		log:       log.With().Str("component", "audio-backend").Logger(),
		post:      make(chan func(), 32),
		subEvents: make(chan subscriptionEvent, 256),
		Devices:   NewDeviceStore(),
		Streams:   NewStreamStore(),
		Events:    reactive.NewBroadcast[types.AudioEvent](256),
		ready:     make(chan error, 1),
		token:     parent.Child(),
	}
	b.handle = cgo.NewHandle(b)

	cname := C.CString(appName)
	defer C.free(unsafe.Pointer(cname))

	b.mainloop = C.pa_mainloop_new()
	b.api = C.pa_mainloop_get_api(b.mainloop)
	b.context = C.pa_context_new(b.api, cname)

	C.pa_context_set_state_callback(b.context, (C.pa_context_notify_cb_t)(C.steelshell_context_state_cb), unsafe.Pointer(uintptr(b.handle)))

	if C.pa_context_connect(b.context, nil, C.PA_CONTEXT_NOFLAGS, nil) < 0 {
		b.handle.Delete()
		return nil, &reactive.ConnectionFailedError{Backend: "pulseaudio", Err: fmt.Errorf("pa_context_connect failed")}
	}

	b.tasks.Go(func() error {
		b.contextThread()
		return nil
	})

	select {
	case err := <-b.ready:
		if err != nil {
			return nil, err
		}
	case <-b.token.Done():
		return nil, &reactive.ConnectionFailedError{Backend: "pulseaudio", Err: fmt.Errorf("cancelled before ready")}
	}

	// The event processor must be running before subscribe() installs the
	// callback, so no notification is ever queued with nobody to drain it.
	b.tasks.Go(func() error {
		b.RunEventProcessor()
		return nil
	})

	b.subscribe()
	b.refreshAll()

	return b, nil
}

// contextThread is the single OS thread permitted to touch the C client.
// It pumps the mainloop and drains posted closures between iterations.
func (b *Backend) contextThread() {
	defer b.log.Debug().Msg("context thread exiting")
	for {
		select {
		case <-b.token.Done():
			C.pa_context_disconnect(b.context)
			C.pa_mainloop_free(b.mainloop)
			b.handle.Delete()
			return
		case fn := <-b.post:
			fn()
		default:
			if C.pa_mainloop_iterate(b.mainloop, 1, nil) < 0 {
				b.log.Warn().Msg("pulseaudio mainloop terminated")
				b.Events.Close()
				return
			}
		}
	}
}

// run posts fn onto the context thread and waits for it to execute. Every
// public method that must touch the C client funnels through this.
func (b *Backend) run(fn func()) {
	done := make(chan struct{})
	select {
	case b.post <- func() { fn(); close(done) }:
		C.pa_mainloop_wakeup(b.mainloop)
	case <-b.token.Done():
		return
	}
	select {
	case <-done:
	case <-b.token.Done():
	}
}

//export goContextStateCb
func goContextStateCb(userdata unsafe.Pointer) {
	b := cgo.Handle(uintptr(userdata)).Value().(*Backend)
	state := C.pa_context_get_state(b.context)
	switch state {
	case C.PA_CONTEXT_READY:
		b.readyOnce.Do(func() { b.ready <- nil })
	case C.PA_CONTEXT_FAILED, C.PA_CONTEXT_TERMINATED:
		b.readyOnce.Do(func() {
			b.ready <- &reactive.ConnectionFailedError{Backend: "pulseaudio", Err: fmt.Errorf("context state %d", int(state))}
		})
	}
}

// subscribe installs the subscription mask over Sink, Source, SinkInput,
// SourceOutput, Server (spec.md §4.4).
func (b *Backend) subscribe() {
	b.run(func() {
		C.pa_context_set_subscribe_callback(b.context, (C.pa_context_subscribe_cb_t)(C.steelshell_subscribe_cb), unsafe.Pointer(uintptr(b.handle)))
		mask := C.pa_subscription_mask_t(C.PA_SUBSCRIPTION_MASK_SINK |
			C.PA_SUBSCRIPTION_MASK_SOURCE |
			C.PA_SUBSCRIPTION_MASK_SINK_INPUT |
			C.PA_SUBSCRIPTION_MASK_SOURCE_OUTPUT |
			C.PA_SUBSCRIPTION_MASK_SERVER)
		op := C.pa_context_subscribe(b.context, mask, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

// goSubscribeCb runs on the context thread, inside pa_mainloop_iterate. It
// must never call b.run() itself (classifyAndDispatch does, via
// refreshDevice/refreshStream/refreshServerInfo) or it would deadlock
// waiting on the very thread it's currently blocking. It only forwards the
// raw notification to the event processor, which does the classification
// and any resulting refresh off this thread.
//
//export goSubscribeCb
func goSubscribeCb(userdata unsafe.Pointer, eventType C.int, idx C.uint32_t) {
	b := cgo.Handle(uintptr(userdata)).Value().(*Backend)
	facility := eventType & C.PA_SUBSCRIPTION_EVENT_FACILITY_MASK
	operation := eventType & C.PA_SUBSCRIPTION_EVENT_TYPE_MASK
	ev := subscriptionEvent{facility: int(facility), operation: int(operation), index: uint32(idx)}
	select {
	case b.subEvents <- ev:
	default:
		b.log.Warn().Int("facility", int(facility)).Int("operation", int(operation)).Msg("subscription event queue full, dropping notification")
	}
}

// refreshAll issues the initial internal refresh commands for devices,
// streams, and server info immediately after ready (spec.md §4.4 "Initial
// discovery").
func (b *Backend) refreshAll() {
	b.refreshSinks()
	b.refreshSources()
	b.refreshSinkInputs()
	b.refreshSourceOutputs()
	b.refreshServerInfo()
}

func (b *Backend) refreshSinks() {
	b.run(func() {
		op := C.pa_context_get_sink_info_list(b.context, (C.pa_sink_info_cb_t)(C.steelshell_sink_info_cb), unsafe.Pointer(uintptr(b.handle)))
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

func (b *Backend) refreshSources() {
	b.run(func() {
		op := C.pa_context_get_source_info_list(b.context, (C.pa_source_info_cb_t)(C.steelshell_source_info_cb), unsafe.Pointer(uintptr(b.handle)))
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

func (b *Backend) refreshSinkInputs() {
	b.run(func() {
		op := C.pa_context_get_sink_input_info_list(b.context, (C.pa_sink_input_info_cb_t)(C.steelshell_sink_input_info_cb), unsafe.Pointer(uintptr(b.handle)))
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

func (b *Backend) refreshSourceOutputs() {
	b.run(func() {
		op := C.pa_context_get_source_output_info_list(b.context, (C.pa_source_output_info_cb_t)(C.steelshell_source_output_info_cb), unsafe.Pointer(uintptr(b.handle)))
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

func (b *Backend) refreshServerInfo() {
	b.run(func() {
		op := C.pa_context_get_server_info(b.context, (C.pa_server_info_cb_t)(C.steelshell_server_info_cb), unsafe.Pointer(uintptr(b.handle)))
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

// refreshDevice re-reads a single sink or source by index (the "granular"
// optimization spec.md §9 prescribes over a full-list refresh).
func (b *Backend) refreshDevice(k types.DeviceKey) {
	b.run(func() {
		var op *C.pa_operation
		if k.Kind == types.Output {
			op = C.pa_context_get_sink_info_by_index(b.context, C.uint32_t(k.Index), (C.pa_sink_info_cb_t)(C.steelshell_sink_info_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_get_source_info_by_index(b.context, C.uint32_t(k.Index), (C.pa_source_info_cb_t)(C.steelshell_source_info_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

func (b *Backend) refreshStream(k types.StreamKey) {
	b.run(func() {
		var op *C.pa_operation
		if k.Kind == types.Playback {
			op = C.pa_context_get_sink_input_info(b.context, C.uint32_t(k.Index), (C.pa_sink_input_info_cb_t)(C.steelshell_sink_input_info_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_get_source_output_info(b.context, C.uint32_t(k.Index), (C.pa_source_output_info_cb_t)(C.steelshell_source_output_info_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
}

// Shutdown fires the backend's own token, which cascades: the context
// thread disconnects and exits, and the event processor and (if started)
// the command processor observe it closing and exit too.
func (b *Backend) Shutdown() {
	b.token.Cancel()
}

// StartCommandProcessor joins the backend's supervised task group running
// RunCommandProcessor over cmds, so a panic or return there surfaces through
// Wait the same way the context thread and event processor do.
func (b *Backend) StartCommandProcessor(cmds <-chan types.Command) {
	b.tasks.Go(func() error {
		b.RunCommandProcessor(cmds)
		return nil
	})
}

// Wait blocks until every supervised backend task (context thread, event
// processor, command processor) has returned, which only happens once the
// backend's token has fired. Useful for deterministic shutdown in tests.
func (b *Backend) Wait() error {
	return b.tasks.Wait()
}
