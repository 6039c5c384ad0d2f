package network

import "github.com/godbus/dbus/v5"

const (
	nmService     = "org.freedesktop.NetworkManager"
	nmPath        = "/org/freedesktop/NetworkManager"
	nmIface       = "org.freedesktop.NetworkManager"
	deviceIface   = "org.freedesktop.NetworkManager.Device"
	wirelessIface = "org.freedesktop.NetworkManager.Device.Wireless"
	apIface       = "org.freedesktop.NetworkManager.AccessPoint"
	activeConnIfc = "org.freedesktop.NetworkManager.Connection.Active"
	propsIface    = "org.freedesktop.DBus.Properties"
)

// AccessPointPath and ConnectionPath are NetworkManager D-Bus object paths,
// used as entity keys (original_source/src/services/network/core/access_point
// and .../connection key by object_path, same as the bluetooth service).
type AccessPointPath = dbus.ObjectPath
type ConnectionPath = dbus.ObjectPath

// ConnectivityState mirrors NM's NMConnectivityState enum.
type ConnectivityState uint32

const (
	ConnectivityUnknown ConnectivityState = iota
	ConnectivityNone
	ConnectivityPortal
	ConnectivityLimited
	ConnectivityFull
)

// ActiveConnectionState mirrors NMActiveConnectionState
// (original_source/src/services/network/types/states.rs).
type ActiveConnectionState uint32

const (
	ConnUnknown ActiveConnectionState = iota
	ConnActivating
	ConnActivated
	ConnDeactivating
	ConnDeactivated
)

func getProp(conn *dbus.Conn, dest string, path dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	obj := conn.Object(dest, path)
	var v dbus.Variant
	err := obj.Call(propsIface+".Get", 0, iface, name).Store(&v)
	return v, err
}

func decodeSSID(v any) string {
	b, ok := v.([]byte)
	if !ok {
		return ""
	}
	return string(b)
}
