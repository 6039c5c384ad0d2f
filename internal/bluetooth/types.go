package bluetooth

import "github.com/godbus/dbus/v5"

const (
	bluezService   = "org.bluez"
	adapterIface   = "org.bluez.Adapter1"
	deviceIface    = "org.bluez.Device1"
	objManagerPath = "/"
	objManagerIfc  = "org.freedesktop.DBus.ObjectManager"
	propsIface     = "org.freedesktop.DBus.Properties"
)

// AdapterPath and DevicePath are BlueZ object paths, used as entity keys
// (original_source/src/services/bluetooth/core/{adapter,device}/mod.rs key
// by object_path rather than a synthetic ID).
type AdapterPath = dbus.ObjectPath
type DevicePath = dbus.ObjectPath

// PowerState mirrors org.bluez.Adapter1's experimental PowerState.
type PowerState int

const (
	PowerOff PowerState = iota
	PowerOn
	PoweringOn
	PoweringOff
)

func powerStateFrom(s string) PowerState {
	switch s {
	case "on":
		return PowerOn
	case "off-enabling":
		return PoweringOn
	case "on-disabling":
		return PoweringOff
	default:
		return PowerOff
	}
}

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

func getManagedObjects(conn *dbus.Conn) (managedObjects, error) {
	obj := conn.Object(bluezService, dbus.ObjectPath(objManagerPath))
	var out managedObjects
	err := obj.Call(objManagerIfc+".GetManagedObjects", 0).Store(&out)
	return out, err
}

func propString(m map[string]dbus.Variant, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func propBool(m map[string]dbus.Variant, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

func propInt16(m map[string]dbus.Variant, key string) int16 {
	if v, ok := m[key]; ok {
		if n, ok := v.Value().(int16); ok {
			return n
		}
	}
	return 0
}

func propObjectPath(m map[string]dbus.Variant, key string) dbus.ObjectPath {
	if v, ok := m[key]; ok {
		if p, ok := v.Value().(dbus.ObjectPath); ok {
			return p
		}
	}
	return ""
}
