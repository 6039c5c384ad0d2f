package network

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Service tracks NetworkManager's connectivity state, the primary active
// connection, and access points visible to the first wireless device found
// (original_source/src/services/network/{service,discovery,monitoring}.rs).
type Service struct {
	log  zerolog.Logger
	conn *dbus.Conn
	root reactive.Token

	wirelessDevice dbus.ObjectPath

	mu               sync.Mutex
	accessPoints     map[AccessPointPath]*AccessPoint
	AccessPoints     reactive.Property[[]*AccessPoint]
	ActiveConnection reactive.Property[*ActiveConnection]
	Connectivity     reactive.Property[ConnectivityState]
}

func NewService(parent reactive.Token, conn *dbus.Conn, log zerolog.Logger) (*Service, error) {
	s := &Service{
		log:              log.With().Str("service", "network").Logger(),
		conn:             conn,
		root:             parent.Child(),
		accessPoints:     make(map[AccessPointPath]*AccessPoint),
		AccessPoints:     reactive.New[[]*AccessPoint](nil, nil),
		ActiveConnection: reactive.New[*ActiveConnection](nil, nil),
		Connectivity:     reactive.New(ConnectivityUnknown, func(a, b ConnectivityState) bool { return a == b }),
	}

	if err := s.discoverWirelessDevice(); err != nil {
		s.log.Debug().Err(err).Msg("no wireless device found; access point tracking disabled")
	} else if err := s.scanAccessPoints(); err != nil {
		s.log.Warn().Err(err).Msg("initial access point scan failed")
	}

	s.refreshPrimaryConnection()
	s.refreshConnectivity()

	if err := conn.AddMatchSignal(dbus.WithMatchInterface(propsIface), dbus.WithMatchMember("PropertiesChanged")); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "network", Err: err}
	}

	sigCh := make(chan *dbus.Signal, 32)
	conn.Signal(sigCh)
	go s.watch(sigCh)

	return s, nil
}

func (s *Service) discoverWirelessDevice() error {
	obj := s.conn.Object(nmService, dbus.ObjectPath(nmPath))
	var devices []dbus.ObjectPath
	if err := obj.Call(nmIface+".GetDevices", 0).Store(&devices); err != nil {
		return err
	}
	for _, d := range devices {
		v, err := getProp(s.conn, nmService, d, deviceIface, "DeviceType")
		if err != nil {
			continue
		}
		// NM_DEVICE_TYPE_WIFI == 2
		if n, ok := v.Value().(uint32); ok && n == 2 {
			s.wirelessDevice = d
			return nil
		}
	}
	return &reactive.EntityNotFoundError{Kind: "wireless device", Key: "any"}
}

func (s *Service) scanAccessPoints() error {
	obj := s.conn.Object(nmService, s.wirelessDevice)
	var paths []dbus.ObjectPath
	if err := obj.Call(wirelessIface+".GetAccessPoints", 0).Store(&paths); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, _ := reactive.Reconcile(paths, s.accessPoints,
		func(p dbus.ObjectPath) AccessPointPath { return p },
		func(existing *AccessPoint, _ dbus.ObjectPath) { existing.refresh() },
		func(p dbus.ObjectPath) *AccessPoint {
			ap := newAccessPoint(s.conn, p)
			ap.StartMonitoring(s.root)
			return ap
		})
	s.accessPoints = toMap(next)
	s.AccessPoints.Set(next)
	return nil
}

func toMap(items []*AccessPoint) map[AccessPointPath]*AccessPoint {
	out := make(map[AccessPointPath]*AccessPoint, len(items))
	for _, it := range items {
		out[it.Key()] = it
	}
	return out
}

func (s *Service) refreshPrimaryConnection() {
	v, err := getProp(s.conn, nmService, dbus.ObjectPath(nmPath), nmIface, "PrimaryConnection")
	if err != nil {
		return
	}
	path, ok := v.Value().(dbus.ObjectPath)
	if !ok || path == "" || path == "/" {
		s.ActiveConnection.Set(nil)
		return
	}
	c := newActiveConnection(s.conn, path)
	c.StartMonitoring(s.root)
	s.ActiveConnection.Set(c)
}

func (s *Service) refreshConnectivity() {
	v, err := getProp(s.conn, nmService, dbus.ObjectPath(nmPath), nmIface, "Connectivity")
	if err != nil {
		return
	}
	if n, ok := v.Value().(uint32); ok {
		s.Connectivity.Set(ConnectivityState(n))
	}
}

func (s *Service) watch(sigCh chan *dbus.Signal) {
	defer s.conn.RemoveSignal(sigCh)
	for {
		select {
		case <-s.root.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}
			if sig.Name != propsIface+".PropertiesChanged" || len(sig.Body) < 2 {
				continue
			}
			iface, _ := sig.Body[0].(string)
			switch iface {
			case nmIface:
				s.refreshPrimaryConnection()
				s.refreshConnectivity()
			case wirelessIface:
				if sig.Path == s.wirelessDevice {
					_ = s.scanAccessPoints()
				}
			}
		}
	}
}

// Close cancels monitoring for every tracked entity.
func (s *Service) Close() { s.root.Cancel() }
