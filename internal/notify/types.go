package notify

// Urgency mirrors the freedesktop notification spec's urgency hint.
type Urgency uint8

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// ClosedReason mirrors org.freedesktop.Notifications' NotificationClosed
// reason codes (original_source/src/services/notification/types.rs).
type ClosedReason uint32

const (
	ClosedExpired ClosedReason = iota + 1
	ClosedDismissedByUser
	ClosedByCloseCall
	ClosedUndefined
)

const (
	serviceName = "org.freedesktop.Notifications"
	servicePath = "/org/freedesktop/Notifications"
)
