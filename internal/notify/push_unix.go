//go:build !windows

package notify

import "github.com/godbus/dbus/v5"

// Push sends a notification as a client of whatever implements
// org.freedesktop.Notifications on the session bus (our own Service, or
// another desktop environment's daemon if steelshell isn't the owner).
func Push(conn *dbus.Conn, appID, title, message string) error {
	obj := conn.Object(serviceName, dbus.ObjectPath(servicePath))
	call := obj.Call(serviceName+".Notify", 0,
		appID, uint32(0), "", title, message, []string{}, map[string]dbus.Variant{}, int32(-1))
	return call.Err
}
