package power

import (
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Service tracks the system power profile and the aggregated battery/UPower
// display device, falling back to sysfs and gopsutil sensor readings when
// the corresponding D-Bus daemon isn't present
// (original_source/src/services/{power_profiles,battery}/service.rs).
type Service struct {
	log  zerolog.Logger
	conn *dbus.Conn
	root reactive.Token

	Profiles *Profiles
	Battery  *Battery

	// Status derives a single overall reading from Profiles.Degraded and
	// Battery.State/Percentage, recomputed whenever either input fires.
	Status *reactive.ComputedProperty[OverallStatus]

	profilesLive bool
	upowerLive   bool
}

// NewService probes for power-profiles-daemon and UPower on the system bus
// and falls back to sysfs/gopsutil for whichever is missing. A missing daemon
// never makes it fail: a desktop-shell without either daemon still gets
// best-effort battery percentage and degradation state. It returns an
// InitializationFailedError only when the PropertiesChanged match rule cannot
// be installed.
func NewService(parent reactive.Token, conn *dbus.Conn, log zerolog.Logger) (*Service, error) {
	s := &Service{
		log:  log.With().Str("service", "power").Logger(),
		conn: conn,
		root: parent.Child(),
	}

	s.Profiles = newProfiles(conn)
	if _, err := getProp(conn, ppdService, dbus.ObjectPath(ppdPath), ppdIface, "ActiveProfile"); err == nil {
		s.profilesLive = true
		s.Profiles.refresh()
		s.Profiles.StartMonitoring(s.root)
	} else {
		s.log.Debug().Err(err).Msg("power-profiles-daemon unavailable; degradation estimated from sensors")
		s.Profiles.Degraded.Set(degradedFromThermal())
	}

	s.Battery = newBattery(conn, dbus.ObjectPath(upowerDisplayPath))
	if _, err := getProp(conn, upowerService, dbus.ObjectPath(upowerDisplayPath), upowerDeviceIface, "Percentage"); err == nil {
		s.upowerLive = true
		s.Battery.StartMonitoring(s.root)
	} else {
		s.log.Debug().Err(err).Msg("UPower unavailable; reading battery from sysfs")
		readSysfsBattery(s.Battery)
	}

	if err := conn.AddMatchSignal(dbus.WithMatchInterface(propsIface), dbus.WithMatchMember("PropertiesChanged")); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "power", Err: err}
	}
	sigCh := make(chan *dbus.Signal, 16)
	conn.Signal(sigCh)
	go s.watch(sigCh)

	s.Status = reactive.NewComputed(s.computeStatus, eqOverallStatus,
		reactive.WatchSignal(s.Profiles.Degraded),
		reactive.WatchSignal(s.Battery.State),
		reactive.WatchSignal(s.Battery.Percentage),
	)

	return s, nil
}

func (s *Service) computeStatus() OverallStatus {
	if s.Profiles.Degraded.Get() != DegradationNone {
		return StatusDegraded
	}
	if s.Battery.State.Get() == BatteryDischarging && s.Battery.Percentage.Get() <= lowBatteryThreshold {
		return StatusBatteryCritical
	}
	return StatusNormal
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
			if sig.Name != propsIface+".PropertiesChanged" || len(sig.Body) < 1 {
				continue
			}
			iface, _ := sig.Body[0].(string)
			switch {
			case s.profilesLive && iface == ppdIface:
				s.Profiles.refresh()
			case s.upowerLive && iface == upowerDeviceIface && sig.Path == dbus.ObjectPath(upowerDisplayPath):
				s.Battery.refresh()
			}
		}
	}
}

// SetActiveProfile requests a profile switch, a no-op error if
// power-profiles-daemon isn't present on this system.
func (s *Service) SetActiveProfile(p Profile) error {
	if !s.profilesLive {
		return &reactive.InitializationFailedError{Service: "power", Err: errNoProfilesDaemon}
	}
	return s.Profiles.SetActive(p)
}

var errNoProfilesDaemon = noProfilesDaemonError{}

type noProfilesDaemonError struct{}

func (noProfilesDaemonError) Error() string { return "power-profiles-daemon is not running" }

// Close cancels monitoring for the profile and battery entities and stops
// the status computation's input subscriptions.
func (s *Service) Close() {
	s.root.Cancel()
	if s.Status != nil {
		s.Status.Close()
	}
}
