//go:build windows

package notify

import (
	"github.com/go-toast/toast"

	"github.com/godbus/dbus/v5"
)

// Push shows a native toast, used as the transport on platforms with no
// org.freedesktop.Notifications daemon to call into
// (adapted from internal/tray/notification_windows.go). conn is unused here
// and kept only so callers share one signature across platforms.
func Push(conn *dbus.Conn, appID, title, message string) error {
	n := toast.Notification{
		AppID:   appID,
		Title:   title,
		Message: message,
	}
	return n.Push()
}
