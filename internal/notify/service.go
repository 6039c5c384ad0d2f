package notify

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Service implements org.freedesktop.Notifications, acting as the session's
// notification daemon rather than a client of one: callers across the bus
// invoke Notify/CloseNotification, and the shell surfaces a reactive history
// instead of rendering anything itself
// (original_source/src/services/notification/{core/notification,events}.rs).
type Service struct {
	log  zerolog.Logger
	conn *dbus.Conn
	root reactive.Token

	mu      sync.Mutex
	nextID  uint32
	active  map[uint32]*Notification
	History reactive.Property[[]*Notification]
}

// NewService claims org.freedesktop.Notifications on the session bus and
// exports the daemon's method table. Fails (non-fatally for the caller to
// decide) if another daemon already owns the name.
func NewService(parent reactive.Token, conn *dbus.Conn, log zerolog.Logger) (*Service, error) {
	s := &Service{
		log:     log.With().Str("service", "notify").Logger(),
		conn:    conn,
		root:    parent.Child(),
		active:  make(map[uint32]*Notification),
		History: reactive.New[[]*Notification](nil, nil),
	}

	if err := conn.Export(s, dbus.ObjectPath(servicePath), serviceName); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "notify", Err: err}
	}

	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, &reactive.InitializationFailedError{Service: "notify", Err: err}
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, &reactive.InitializationFailedError{Service: "notify", Err: errAlreadyOwned}
	}

	return s, nil
}

var errAlreadyOwned = notifyNameTakenError{}

type notifyNameTakenError struct{}

func (notifyNameTakenError) Error() string {
	return "org.freedesktop.Notifications is already owned by another process"
}

func (s *Service) republishLocked() {
	list := make([]*Notification, 0, len(s.active))
	for _, n := range s.active {
		list = append(list, n)
	}
	s.History.Set(list)
}

// --- org.freedesktop.Notifications method table ---

func (s *Service) Notify(appName string, replacesID uint32, appIcon, summary, body string, actions []string, hints map[string]dbus.Variant, expireTimeout int32) (uint32, *dbus.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := replacesID
	if id == 0 {
		s.nextID++
		id = s.nextID
	}

	n := &Notification{
		conn:     s.conn,
		ID:       id,
		AppName:  appName,
		AppIcon:  appIcon,
		Summary:  reactive.New(summary, eqStrN),
		Body:     reactive.New(body, eqStrN),
		Actions:  actions,
		Urgency:  urgencyFromHints(hints),
		ExpireMS: expireTimeout,
	}
	s.active[id] = n
	s.republishLocked()

	return id, nil
}

func eqStrN(a, b string) bool { return a == b }

func urgencyFromHints(hints map[string]dbus.Variant) Urgency {
	v, ok := hints["urgency"]
	if !ok {
		return UrgencyNormal
	}
	if u, ok := v.Value().(byte); ok {
		return Urgency(u)
	}
	return UrgencyNormal
}

func (s *Service) CloseNotification(id uint32) *dbus.Error {
	s.mu.Lock()
	_, ok := s.active[id]
	delete(s.active, id)
	s.republishLocked()
	s.mu.Unlock()

	if ok {
		_ = s.conn.Emit(dbus.ObjectPath(servicePath), serviceName+".NotificationClosed", id, uint32(ClosedByCloseCall))
	}
	return nil
}

func (s *Service) GetCapabilities() ([]string, *dbus.Error) {
	return []string{"body", "actions", "icon-static"}, nil
}

func (s *Service) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return "steelshell", "steelshell", "1.0", "1.2", nil
}

// ListActive returns a snapshot of every notification currently tracked.
func (s *Service) ListActive() []*Notification { return s.History.Get() }

// Close stops the service and releases the bus name.
func (s *Service) Close() {
	s.root.Cancel()
	_, _ = s.conn.ReleaseName(serviceName)
}
