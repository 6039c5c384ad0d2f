package types

// Port is a physical or virtual jack a device can route audio through
// (e.g. "analog-output-speaker", "analog-input-mic").
type Port struct {
	Name        string
	Description string
	Available   bool
}

// SampleSpec describes the PCM format a device is currently running at.
type SampleSpec struct {
	Format     string
	Rate       uint32
	Channels   uint8
}

// Device is the payload for a single sink or source, as read from
// introspection. Key.Kind disambiguates which PulseAudio object the index
// refers to; callers that need the DeviceKey read the Key field.
type Device struct {
	Key         DeviceKey
	Name        string
	Description string
	Volume      float64 // linear 0.0-2.0+, 1.0 == 100%
	Muted       bool
	Ports       []Port
	ActivePort  string
	SampleSpec  SampleSpec
	CardIndex   uint32
}

// DeviceKind returns Output for a sink, Input for a source.
func (d Device) DeviceKind() DeviceKind { return d.Key.Kind }
