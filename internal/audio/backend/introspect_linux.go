//go:build linux

package backend

// #cgo pkg-config: libpulse
// #include <pulse/pulseaudio.h>
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
)

// Converting the returned C-struct into the internal Device/StreamInfo
// variant (spec.md §4.4, "Internal refresh command handling" step 1), then
// acquiring the write lock and upserting (step 2), then emitting the
// Added/Changed event (step 3).

func sinkToDevice(i *C.pa_sink_info) types.Device {
	return types.Device{
		Key:         types.DeviceKey{Index: uint32(i.index), Kind: types.Output},
		Name:        C.GoString(i.name),
		Description: C.GoString(i.description),
		Volume:      float64(C.pa_cvolume_avg(&i.volume)) / float64(C.PA_VOLUME_NORM),
		Muted:       i.mute != 0,
		ActivePort:  activePortName(i.active_port),
		Ports:       convertPorts(i.ports, i.n_ports),
		SampleSpec: types.SampleSpec{
			Rate:     uint32(i.sample_spec.rate),
			Channels: uint8(i.sample_spec.channels),
		},
		CardIndex: uint32(i.card),
	}
}

func sourceToDevice(i *C.pa_source_info) types.Device {
	return types.Device{
		Key:         types.DeviceKey{Index: uint32(i.index), Kind: types.Input},
		Name:        C.GoString(i.name),
		Description: C.GoString(i.description),
		Volume:      float64(C.pa_cvolume_avg(&i.volume)) / float64(C.PA_VOLUME_NORM),
		Muted:       i.mute != 0,
		ActivePort:  activePortName(i.active_port),
		Ports:       convertSourcePorts(i.ports, i.n_ports),
		SampleSpec: types.SampleSpec{
			Rate:     uint32(i.sample_spec.rate),
			Channels: uint8(i.sample_spec.channels),
		},
		CardIndex: uint32(i.card),
	}
}

func activePortName(p *C.pa_sink_port_info) string {
	if p == nil {
		return ""
	}
	return C.GoString(p.name)
}

func convertPorts(ports **C.pa_sink_port_info, n C.uint32_t) []types.Port {
	out := make([]types.Port, 0, int(n))
	slice := unsafe.Slice(ports, int(n))
	for _, p := range slice {
		out = append(out, types.Port{
			Name:        C.GoString(p.name),
			Description: C.GoString(p.description),
			Available:   p.available != C.PA_PORT_AVAILABLE_NO,
		})
	}
	return out
}

func convertSourcePorts(ports **C.pa_source_port_info, n C.uint32_t) []types.Port {
	out := make([]types.Port, 0, int(n))
	slice := unsafe.Slice(ports, int(n))
	for _, p := range slice {
		out = append(out, types.Port{
			Name:        C.GoString(p.name),
			Description: C.GoString(p.description),
			Available:   p.available != C.PA_PORT_AVAILABLE_NO,
		})
	}
	return out
}

func sinkInputToStream(i *C.pa_sink_input_info) types.StreamInfo {
	return types.StreamInfo{
		Key:          types.StreamKey{Index: uint32(i.index), Kind: types.Playback},
		OwningDevice: uint32(i.sink),
		Volume:       float64(C.pa_cvolume_avg(&i.volume)) / float64(C.PA_VOLUME_NORM),
		Channels:     uint8(i.volume.channels),
		Muted:        i.mute != 0,
		Corked:       i.corked != 0,
		Media:        proplistMediaInfo(i.proplist, C.GoString(i.name)),
	}
}

func sourceOutputToStream(i *C.pa_source_output_info) types.StreamInfo {
	return types.StreamInfo{
		Key:          types.StreamKey{Index: uint32(i.index), Kind: types.Record},
		OwningDevice: uint32(i.source),
		Volume:       float64(C.pa_cvolume_avg(&i.volume)) / float64(C.PA_VOLUME_NORM),
		Channels:     uint8(i.volume.channels),
		Muted:        i.mute != 0,
		Corked:       i.corked != 0,
		Media:        proplistMediaInfo(i.proplist, C.GoString(i.name)),
	}
}

func proplistMediaInfo(pl *C.pa_proplist, fallbackName string) types.MediaInfo {
	get := func(key string) string {
		ckey := C.CString(key)
		defer C.free(unsafe.Pointer(ckey))
		v := C.pa_proplist_gets(pl, ckey)
		if v == nil {
			return ""
		}
		return C.GoString(v)
	}
	app := get("application.name")
	if app == "" {
		app = fallbackName
	}
	return types.MediaInfo{
		ApplicationName: app,
		MediaName:       get("media.name"),
		IconName:        get("application.icon_name"),
	}
}

//export goSinkInfoCb
func goSinkInfoCb(userdata unsafe.Pointer, raw unsafe.Pointer) {
	b := cgo.Handle(uintptr(userdata)).Value().(*Backend)
	d := sinkToDevice((*C.pa_sink_info)(raw))
	existed := b.Devices.Upsert(d)
	kind := types.DeviceAdded
	if existed {
		kind = types.DeviceChanged
	}
	b.Events.Publish(types.AudioEvent{Kind: kind, DeviceKey: d.Key, Device: d})
}

//export goSinkInfoEol
func goSinkInfoEol(unsafe.Pointer) {}

//export goSourceInfoCb
func goSourceInfoCb(userdata unsafe.Pointer, raw unsafe.Pointer) {
	b := cgo.Handle(uintptr(userdata)).Value().(*Backend)
	d := sourceToDevice((*C.pa_source_info)(raw))
	existed := b.Devices.Upsert(d)
	kind := types.DeviceAdded
	if existed {
		kind = types.DeviceChanged
	}
	b.Events.Publish(types.AudioEvent{Kind: kind, DeviceKey: d.Key, Device: d})
}

//export goSourceInfoEol
func goSourceInfoEol(unsafe.Pointer) {}

//export goSinkInputInfoCb
func goSinkInputInfoCb(userdata unsafe.Pointer, raw unsafe.Pointer) {
	b := cgo.Handle(uintptr(userdata)).Value().(*Backend)
	s := sinkInputToStream((*C.pa_sink_input_info)(raw))
	existed := b.Streams.Upsert(s)
	kind := types.StreamAdded
	if existed {
		kind = types.StreamChanged
	}
	b.Events.Publish(types.AudioEvent{Kind: kind, StreamKey: s.Key, Stream: s})
}

//export goSinkInputInfoEol
func goSinkInputInfoEol(unsafe.Pointer) {}

//export goSourceOutputInfoCb
func goSourceOutputInfoCb(userdata unsafe.Pointer, raw unsafe.Pointer) {
	b := cgo.Handle(uintptr(userdata)).Value().(*Backend)
	s := sourceOutputToStream((*C.pa_source_output_info)(raw))
	existed := b.Streams.Upsert(s)
	kind := types.StreamAdded
	if existed {
		kind = types.StreamChanged
	}
	b.Events.Publish(types.AudioEvent{Kind: kind, StreamKey: s.Key, Stream: s})
}

//export goSourceOutputInfoEol
func goSourceOutputInfoEol(unsafe.Pointer) {}

//export goServerInfoCb
func goServerInfoCb(userdata unsafe.Pointer, raw unsafe.Pointer) {
	b := cgo.Handle(uintptr(userdata)).Value().(*Backend)
	info := (*C.pa_server_info)(raw)
	defaultSink := C.GoString(info.default_sink_name)
	defaultSource := C.GoString(info.default_source_name)

	if k, ok := b.lookupByName(types.Output, defaultSink); ok {
		b.Events.Publish(types.AudioEvent{Kind: types.DefaultOutputChanged, DefaultOutput: k})
	}
	if k, ok := b.lookupByName(types.Input, defaultSource); ok {
		b.Events.Publish(types.AudioEvent{Kind: types.DefaultInputChanged, DefaultInput: k})
	}
}

//export goSuccessCb
func goSuccessCb(unsafe.Pointer, C.int) {}

func (b *Backend) lookupByName(kind types.DeviceKind, name string) (types.DeviceKey, bool) {
	for _, d := range b.Devices.List(kind) {
		if d.Name == name {
			return d.Key, true
		}
	}
	return types.DeviceKey{}, false
}
