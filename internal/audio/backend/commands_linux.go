//go:build linux

package backend

// #cgo pkg-config: libpulse
// #include <pulse/pulseaudio.h>
import "C"

import (
	"unsafe"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// RunCommandProcessor consumes user commands from cmds until the backend's
// token fires (spec.md §4.4 "Command processor"). It is meant to run as its
// own goroutine, supervised alongside the event processor.
func (b *Backend) RunCommandProcessor(cmds <-chan types.Command) {
	for {
		select {
		case <-b.token.Done():
			return
		case cmd, ok := <-cmds:
			if !ok {
				return
			}
			b.dispatch(cmd)
		}
	}
}

func (b *Backend) dispatch(cmd types.Command) {
	b.log.Debug().Str("cmd_id", cmd.ID).Int("kind", int(cmd.Kind)).Msg("dispatching command")

	var err error
	switch cmd.Kind {
	case types.SetVolume:
		err = b.setDeviceVolume(cmd.Device, cmd.Volume)
	case types.SetMute:
		err = b.setDeviceMute(cmd.Device, cmd.Mute)
	case types.SetDefaultOutput:
		err = b.setDefaultDevice(cmd.Device)
	case types.SetDefaultInput:
		err = b.setDefaultDevice(cmd.Device)
	case types.SetStreamVolume:
		err = b.setStreamVolume(cmd.Stream, cmd.Volume)
	case types.SetStreamMute:
		err = b.setStreamMute(cmd.Stream, cmd.Mute)
	case types.MoveStream:
		err = b.moveStream(cmd.Stream, cmd.TargetFlag.Index)
	case types.SetPort:
		err = b.setPort(cmd.Device, cmd.PortName)
	case types.Shutdown:
		b.Shutdown()
	default:
		err = &reactive.OperationFailedError{Operation: "unknown", Reason: nil}
	}

	if cmd.Response != nil {
		cmd.Response <- types.CommandResult{Err: err}
	}
}

func cvolumeFor(linear float64, channels uint8) C.pa_cvolume {
	var cv C.pa_cvolume
	if channels == 0 {
		channels = 2
	}
	raw := C.pa_volume_t(linear * float64(C.PA_VOLUME_NORM))
	C.pa_cvolume_set(&cv, C.uint8_t(channels), raw)
	return cv
}

func (b *Backend) setDeviceVolume(k types.DeviceKey, linear float64) error {
	d, ok := b.Devices.Get(k)
	if !ok {
		return &reactive.EntityNotFoundError{Index: k.Index, Kind: k.Kind.String()}
	}
	cv := cvolumeFor(linear, d.SampleSpec.Channels)
	b.run(func() {
		var op *C.pa_operation
		if k.Kind == types.Output {
			op = C.pa_context_set_sink_volume_by_index(b.context, C.uint32_t(k.Index), &cv, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_set_source_volume_by_index(b.context, C.uint32_t(k.Index), &cv, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
	return nil
}

func (b *Backend) setDeviceMute(k types.DeviceKey, mute bool) error {
	if _, ok := b.Devices.Get(k); !ok {
		return &reactive.EntityNotFoundError{Index: k.Index, Kind: k.Kind.String()}
	}
	muteInt := C.int(0)
	if mute {
		muteInt = 1
	}
	b.run(func() {
		var op *C.pa_operation
		if k.Kind == types.Output {
			op = C.pa_context_set_sink_mute_by_index(b.context, C.uint32_t(k.Index), muteInt, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_set_source_mute_by_index(b.context, C.uint32_t(k.Index), muteInt, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
	return nil
}

// setDefaultDevice resolves the device to its name string and calls the
// context-level default setter (spec.md §4.4).
func (b *Backend) setDefaultDevice(k types.DeviceKey) error {
	name, ok := b.Devices.NameOf(k)
	if !ok {
		return &reactive.EntityNotFoundError{Index: k.Index, Kind: k.Kind.String()}
	}
	cname := C.CString(name)
	b.run(func() {
		defer C.free(unsafe.Pointer(cname))
		var op *C.pa_operation
		if k.Kind == types.Output {
			op = C.pa_context_set_default_sink(b.context, cname, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_set_default_source(b.context, cname, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
	return nil
}

func (b *Backend) setStreamVolume(k types.StreamKey, linear float64) error {
	s, ok := b.Streams.Get(k)
	if !ok {
		return &reactive.EntityNotFoundError{Index: k.Index, Kind: k.Kind.String()}
	}
	cv := cvolumeFor(linear, s.Channels)
	b.run(func() {
		var op *C.pa_operation
		if k.Kind == types.Playback {
			op = C.pa_context_set_sink_input_volume(b.context, C.uint32_t(k.Index), &cv, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_set_source_output_volume(b.context, C.uint32_t(k.Index), &cv, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
	return nil
}

func (b *Backend) setStreamMute(k types.StreamKey, mute bool) error {
	if _, ok := b.Streams.Get(k); !ok {
		return &reactive.EntityNotFoundError{Index: k.Index, Kind: k.Kind.String()}
	}
	muteInt := C.int(0)
	if mute {
		muteInt = 1
	}
	b.run(func() {
		var op *C.pa_operation
		if k.Kind == types.Playback {
			op = C.pa_context_set_sink_input_mute(b.context, C.uint32_t(k.Index), muteInt, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_set_source_output_mute(b.context, C.uint32_t(k.Index), muteInt, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
	return nil
}

func (b *Backend) moveStream(k types.StreamKey, targetDeviceIndex uint32) error {
	if _, ok := b.Streams.Get(k); !ok {
		return &reactive.EntityNotFoundError{Index: k.Index, Kind: k.Kind.String()}
	}
	b.run(func() {
		var op *C.pa_operation
		if k.Kind == types.Playback {
			op = C.pa_context_move_sink_input_by_index(b.context, C.uint32_t(k.Index), C.uint32_t(targetDeviceIndex), (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_move_source_output_by_index(b.context, C.uint32_t(k.Index), C.uint32_t(targetDeviceIndex), (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
	return nil
}

func (b *Backend) setPort(k types.DeviceKey, port string) error {
	if _, ok := b.Devices.Get(k); !ok {
		return &reactive.EntityNotFoundError{Index: k.Index, Kind: k.Kind.String()}
	}
	cport := C.CString(port)
	b.run(func() {
		defer C.free(unsafe.Pointer(cport))
		var op *C.pa_operation
		if k.Kind == types.Output {
			op = C.pa_context_set_sink_port_by_index(b.context, C.uint32_t(k.Index), cport, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		} else {
			op = C.pa_context_set_source_port_by_index(b.context, C.uint32_t(k.Index), cport, (C.pa_context_success_cb_t)(C.steelshell_success_cb), unsafe.Pointer(uintptr(b.handle)))
		}
		if op != nil {
			C.pa_operation_unref(op)
		}
	})
	return nil
}
