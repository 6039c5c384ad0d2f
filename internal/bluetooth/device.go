package bluetooth

import (
	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Device is a live or snapshot remote Bluetooth device
// (original_source/src/services/bluetooth/core/device/mod.rs).
type Device struct {
	path dbus.ObjectPath
	conn *dbus.Conn

	Address   reactive.Property[string]
	Alias     reactive.Property[string]
	Paired    reactive.Property[bool]
	Trusted   reactive.Property[bool]
	Connected reactive.Property[bool]
	RSSI      reactive.Property[int16]
	Adapter   reactive.Property[dbus.ObjectPath]

	token reactive.Token
}

func newDevice(conn *dbus.Conn, path dbus.ObjectPath, props map[string]dbus.Variant) *Device {
	return &Device{
		path:      path,
		conn:      conn,
		Address:   reactive.New(propString(props, "Address"), eqStr),
		Alias:     reactive.New(propString(props, "Alias"), eqStr),
		Paired:    reactive.New(propBool(props, "Paired"), eqBoolBT),
		Trusted:   reactive.New(propBool(props, "Trusted"), eqBoolBT),
		Connected: reactive.New(propBool(props, "Connected"), eqBoolBT),
		RSSI:      reactive.New(propInt16(props, "RSSI"), func(a, b int16) bool { return a == b }),
		Adapter:   reactive.New(propObjectPath(props, "Adapter"), func(a, b dbus.ObjectPath) bool { return a == b }),
	}
}

// Key satisfies reactive.Entity[DevicePath].
func (d *Device) Key() DevicePath { return d.path }

func (d *Device) applyProps(props map[string]dbus.Variant) {
	if v, ok := props["Address"]; ok {
		d.Address.Set(v.Value().(string))
	}
	if v, ok := props["Alias"]; ok {
		d.Alias.Set(v.Value().(string))
	}
	if v, ok := props["Paired"]; ok {
		d.Paired.Set(v.Value().(bool))
	}
	if v, ok := props["Trusted"]; ok {
		d.Trusted.Set(v.Value().(bool))
	}
	if v, ok := props["Connected"]; ok {
		d.Connected.Set(v.Value().(bool))
	}
	if v, ok := props["RSSI"]; ok {
		if n, ok := v.Value().(int16); ok {
			d.RSSI.Set(n)
		}
	}
}

func (d *Device) StartMonitoring(parent reactive.Token) { d.token = parent.Child() }
func (d *Device) CancelToken() reactive.Token           { return d.token }

func (d *Device) call(method string, args ...any) error {
	return d.conn.Object(bluezService, d.path).Call(deviceIface+"."+method, 0, args...).Err
}

func (d *Device) Connect() error       { return d.call("Connect") }
func (d *Device) Disconnect() error    { return d.call("Disconnect") }
func (d *Device) Pair() error          { return d.call("Pair") }
func (d *Device) CancelPairing() error { return d.call("CancelPairing") }

func (d *Device) SetTrusted(trusted bool) error {
	return d.conn.Object(bluezService, d.path).Call(propsIface+".Set", 0, deviceIface, "Trusted", dbus.MakeVariant(trusted)).Err
}

var (
	_ reactive.Entity[DevicePath] = (*Device)(nil)
	_ reactive.ModelMonitoring    = (*Device)(nil)
)
