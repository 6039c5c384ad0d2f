package notify

import (
	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Notification is a single desktop notification accepted by the shell's
// notification server (original_source/src/services/notification/core/notification.rs).
type Notification struct {
	conn *dbus.Conn

	ID         uint32
	AppName    string
	AppIcon    string
	Summary    reactive.Property[string]
	Body       reactive.Property[string]
	Actions    []string
	Urgency    Urgency
	ExpireMS   int32 // -1 = server default, 0 = never
}

func (n *Notification) emit(signal string, args ...any) error {
	return n.conn.Emit(dbus.ObjectPath(servicePath), serviceName+"."+signal, args...)
}

// Dismiss forces the notification closed on the user's behalf, emitting
// NotificationClosed with ClosedDismissedByUser.
func (n *Notification) Dismiss() error {
	return n.emit("NotificationClosed", n.ID, uint32(ClosedDismissedByUser))
}

// Invoke runs the action identified by actionKey, emitting ActionInvoked.
func (n *Notification) Invoke(actionKey string) error {
	return n.emit("ActionInvoked", n.ID, actionKey)
}

// Key satisfies reactive.Entity[uint32].
func (n *Notification) Key() uint32 { return n.ID }

var _ reactive.Entity[uint32] = (*Notification)(nil)
