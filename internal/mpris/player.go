package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/pozitronik/steelclock-go/internal/reactive"
)

const (
	playerPath      = "/org/mpris/MediaPlayer2"
	playerIface     = "org.mpris.MediaPlayer2.Player"
	propsIface      = "org.freedesktop.DBus.Properties"
	playerMemberPfx = "org.mpris.MediaPlayer2.Player."
)

// Player is a live or snapshot MPRIS media player, reachable over the
// session bus at its well-known name's default object path.
//
// original_source/src/services/media/core/player/{types,monitoring}.rs.
type Player struct {
	id   PlayerID
	conn *dbus.Conn

	PlaybackState  reactive.Property[PlaybackState]
	LoopMode       reactive.Property[LoopMode]
	ShuffleMode    reactive.Property[bool]
	Volume         reactive.Property[float64]
	Metadata       reactive.Property[TrackMetadata]
	CanGoNext      reactive.Property[bool]
	CanGoPrevious  reactive.Property[bool]
	CanPlay        reactive.Property[bool]
	CanSeek        reactive.Property[bool]
	Identity       reactive.Property[string]

	token reactive.Token
}

func eqPB(a, b PlaybackState) bool { return a == b }
func eqLoop(a, b LoopMode) bool    { return a == b }
func eqBoolM(a, b bool) bool       { return a == b }
func eqFloatM(a, b float64) bool   { return a == b }
func eqMeta(a, b TrackMetadata) bool {
	return a == b
}

func newPlayer(conn *dbus.Conn, id PlayerID) *Player {
	return &Player{
		id:            id,
		conn:          conn,
		PlaybackState: reactive.New(Stopped, eqPB),
		LoopMode:      reactive.New(LoopNone, eqLoop),
		ShuffleMode:   reactive.New(false, eqBoolM),
		Volume:        reactive.New(1.0, eqFloatM),
		Metadata:      reactive.New(TrackMetadata{}, eqMeta),
		CanGoNext:     reactive.New(false, eqBoolM),
		CanGoPrevious: reactive.New(false, eqBoolM),
		CanPlay:       reactive.New(false, eqBoolM),
		CanSeek:       reactive.New(false, eqBoolM),
		Identity:      reactive.New("", eqString2),
	}
}

func eqString2(a, b string) bool { return a == b }

// Key satisfies reactive.Entity[PlayerID].
func (p *Player) Key() PlayerID { return p.id }

func (p *Player) StartMonitoring(parent reactive.Token) { p.token = parent.Child() }
func (p *Player) CancelToken() reactive.Token           { return p.token }

// refresh reads every tracked property from the bus and applies it, used
// both for the initial snapshot and to resync after a PropertiesChanged
// signal (mirrors the granular re-read discipline used by the audio
// backend: the signal only tells us something changed, not what).
func (p *Player) refresh() error {
	props, err := getAllProps(p.conn, p.id, playerIface)
	if err != nil {
		return err
	}
	identityProps, err := getAllProps(p.conn, p.id, "org.mpris.MediaPlayer2")
	if err == nil {
		if v, ok := identityProps["Identity"]; ok {
			if s, ok := v.(string); ok {
				p.Identity.Set(s)
			}
		}
	}

	if v, ok := props["PlaybackStatus"].(string); ok {
		p.PlaybackState.Set(playbackStateFrom(v))
	}
	if v, ok := props["LoopStatus"].(string); ok {
		p.LoopMode.Set(loopModeFrom(v))
	}
	if v, ok := props["Shuffle"].(bool); ok {
		p.ShuffleMode.Set(v)
	}
	if v, ok := asFloat(props["Volume"]); ok {
		p.Volume.Set(v)
	}
	if v, ok := props["CanGoNext"].(bool); ok {
		p.CanGoNext.Set(v)
	}
	if v, ok := props["CanGoPrevious"].(bool); ok {
		p.CanGoPrevious.Set(v)
	}
	if v, ok := props["CanPlay"].(bool); ok {
		p.CanPlay.Set(v)
	}
	if v, ok := props["CanSeek"].(bool); ok {
		p.CanSeek.Set(v)
	}
	if v, ok := props["Metadata"].(map[string]dbus.Variant); ok {
		p.Metadata.Set(metadataFromVariantMap(v))
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		return 0, false
	}
}

func metadataFromVariantMap(m map[string]dbus.Variant) TrackMetadata {
	var out TrackMetadata
	if v, ok := m["xesam:title"]; ok {
		if s, ok := v.Value().(string); ok {
			out.Title = s
		}
	}
	if v, ok := m["xesam:artist"]; ok {
		if arr, ok := v.Value().([]string); ok && len(arr) > 0 {
			out.Artist = joinStrings(arr)
		}
	}
	if v, ok := m["xesam:album"]; ok {
		if s, ok := v.Value().(string); ok {
			out.Album = s
		}
	}
	if v, ok := m["xesam:albumArtist"]; ok {
		if arr, ok := v.Value().([]string); ok && len(arr) > 0 {
			out.AlbumArtist = joinStrings(arr)
		}
	}
	if v, ok := m["mpris:artUrl"]; ok {
		if s, ok := v.Value().(string); ok {
			out.ArtURL = s
		}
	}
	if v, ok := m["mpris:trackid"]; ok {
		if s, ok := v.Value().(string); ok {
			out.TrackID = s
		} else if p, ok := v.Value().(dbus.ObjectPath); ok {
			out.TrackID = string(p)
		}
	}
	if v, ok := m["mpris:length"]; ok {
		if micros, ok := asInt64(v.Value()); ok && micros > 0 {
			out.Length = time.Duration(micros) * time.Microsecond
		}
	}
	return out
}

func joinStrings(ss []string) string {
	out := ss[0]
	for _, s := range ss[1:] {
		out += ", " + s
	}
	return out
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case uint64:
		return int64(t), true
	default:
		return 0, false
	}
}

// --- controls (original_source/src/cli/media/commands.rs) ---

func (p *Player) call(method string) error {
	obj := p.conn.Object(p.id.BusName(), dbus.ObjectPath(playerPath))
	return obj.Call(playerMemberPfx+method, 0).Err
}

func (p *Player) PlayPause() error { return p.call("PlayPause") }
func (p *Player) Play() error      { return p.call("Play") }
func (p *Player) Pause() error     { return p.call("Pause") }
func (p *Player) Next() error      { return p.call("Next") }
func (p *Player) Previous() error  { return p.call("Previous") }

// Seek moves playback by a relative offset in microseconds.
func (p *Player) Seek(offsetMicros int64) error {
	obj := p.conn.Object(p.id.BusName(), dbus.ObjectPath(playerPath))
	return obj.Call(playerMemberPfx+"Seek", 0, offsetMicros).Err
}

func (p *Player) SetLoopMode(mode LoopMode) error {
	return p.setProp("LoopStatus", mode.String())
}

func (p *Player) SetShuffle(on bool) error {
	return p.setProp("Shuffle", on)
}

func (p *Player) SetVolume(v float64) error {
	return p.setProp("Volume", v)
}

func (p *Player) setProp(name string, value any) error {
	obj := p.conn.Object(p.id.BusName(), dbus.ObjectPath(playerPath))
	return obj.Call(propsIface+".Set", 0, playerIface, name, dbus.MakeVariant(value)).Err
}

func getAllProps(conn *dbus.Conn, id PlayerID, iface string) (map[string]any, error) {
	obj := conn.Object(id.BusName(), dbus.ObjectPath(playerPath))
	var variants map[string]dbus.Variant
	err := obj.Call(propsIface+".GetAll", 0, iface).Store(&variants)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(variants))
	for k, v := range variants {
		out[k] = v.Value()
	}
	return out, nil
}

