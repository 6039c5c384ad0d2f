package bluetooth

import (
	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Adapter is a live or snapshot Bluetooth controller
// (original_source/src/services/bluetooth/core/adapter/mod.rs, trimmed to
// the properties the shell surfaces).
type Adapter struct {
	path dbus.ObjectPath
	conn *dbus.Conn

	Address      reactive.Property[string]
	Alias        reactive.Property[string]
	Powered      reactive.Property[bool]
	PowerState   reactive.Property[PowerState]
	Discoverable reactive.Property[bool]
	Discovering  reactive.Property[bool]
	Pairable     reactive.Property[bool]

	token reactive.Token
}

func newAdapter(conn *dbus.Conn, path dbus.ObjectPath, props map[string]dbus.Variant) *Adapter {
	a := &Adapter{
		path:         path,
		conn:         conn,
		Address:      reactive.New(propString(props, "Address"), eqStr),
		Alias:        reactive.New(propString(props, "Alias"), eqStr),
		Powered:      reactive.New(propBool(props, "Powered"), eqBoolBT),
		PowerState:   reactive.New(powerStateFrom(propString(props, "PowerState")), func(a, b PowerState) bool { return a == b }),
		Discoverable: reactive.New(propBool(props, "Discoverable"), eqBoolBT),
		Discovering:  reactive.New(propBool(props, "Discovering"), eqBoolBT),
		Pairable:     reactive.New(propBool(props, "Pairable"), eqBoolBT),
	}
	return a
}

func eqStr(a, b string) bool  { return a == b }
func eqBoolBT(a, b bool) bool { return a == b }

// Key satisfies reactive.Entity[AdapterPath].
func (a *Adapter) Key() AdapterPath { return a.path }

func (a *Adapter) applyProps(props map[string]dbus.Variant) {
	if v, ok := props["Address"]; ok {
		a.Address.Set(v.Value().(string))
	}
	if v, ok := props["Alias"]; ok {
		a.Alias.Set(v.Value().(string))
	}
	if v, ok := props["Powered"]; ok {
		a.Powered.Set(v.Value().(bool))
	}
	if v, ok := props["PowerState"]; ok {
		if s, ok := v.Value().(string); ok {
			a.PowerState.Set(powerStateFrom(s))
		}
	}
	if v, ok := props["Discoverable"]; ok {
		a.Discoverable.Set(v.Value().(bool))
	}
	if v, ok := props["Discovering"]; ok {
		a.Discovering.Set(v.Value().(bool))
	}
	if v, ok := props["Pairable"]; ok {
		a.Pairable.Set(v.Value().(bool))
	}
}

func (a *Adapter) StartMonitoring(parent reactive.Token) { a.token = parent.Child() }
func (a *Adapter) CancelToken() reactive.Token           { return a.token }

func (a *Adapter) setProp(name string, value any) error {
	obj := a.conn.Object(bluezService, a.path)
	return obj.Call(propsIface+".Set", 0, adapterIface, name, dbus.MakeVariant(value)).Err
}

// SetPowered toggles the radio on or off.
func (a *Adapter) SetPowered(on bool) error { return a.setProp("Powered", on) }

// SetDiscoverable controls whether the adapter advertises itself.
func (a *Adapter) SetDiscoverable(on bool) error { return a.setProp("Discoverable", on) }

// StartDiscovery begins scanning for nearby devices.
func (a *Adapter) StartDiscovery() error {
	return a.conn.Object(bluezService, a.path).Call(adapterIface+".StartDiscovery", 0).Err
}

// StopDiscovery ends an in-progress scan.
func (a *Adapter) StopDiscovery() error {
	return a.conn.Object(bluezService, a.path).Call(adapterIface+".StopDiscovery", 0).Err
}

var (
	_ reactive.Entity[AdapterPath] = (*Adapter)(nil)
	_ reactive.ModelMonitoring     = (*Adapter)(nil)
)
