package network

import (
	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// AccessPoint is a live or snapshot Wi-Fi access point seen by a wireless
// device (original_source/src/services/network/core/access_point/monitoring.rs).
type AccessPoint struct {
	path dbus.ObjectPath
	conn *dbus.Conn

	SSID      reactive.Property[string]
	Strength  reactive.Property[uint8]
	Frequency reactive.Property[uint32]
	HwAddress reactive.Property[string]

	token reactive.Token
}

func newAccessPoint(conn *dbus.Conn, path dbus.ObjectPath) *AccessPoint {
	ap := &AccessPoint{
		path:      path,
		conn:      conn,
		SSID:      reactive.New("", eqStrNet),
		Strength:  reactive.New[uint8](0, func(a, b uint8) bool { return a == b }),
		Frequency: reactive.New[uint32](0, func(a, b uint32) bool { return a == b }),
		HwAddress: reactive.New("", eqStrNet),
	}
	ap.refresh()
	return ap
}

func eqStrNet(a, b string) bool { return a == b }

// Key satisfies reactive.Entity[AccessPointPath].
func (ap *AccessPoint) Key() AccessPointPath { return ap.path }

func (ap *AccessPoint) refresh() {
	if v, err := getProp(ap.conn, nmService, ap.path, apIface, "Ssid"); err == nil {
		ap.SSID.Set(decodeSSID(v.Value()))
	}
	if v, err := getProp(ap.conn, nmService, ap.path, apIface, "Strength"); err == nil {
		if s, ok := v.Value().(byte); ok {
			ap.Strength.Set(s)
		}
	}
	if v, err := getProp(ap.conn, nmService, ap.path, apIface, "Frequency"); err == nil {
		if f, ok := v.Value().(uint32); ok {
			ap.Frequency.Set(f)
		}
	}
	if v, err := getProp(ap.conn, nmService, ap.path, apIface, "HwAddress"); err == nil {
		if s, ok := v.Value().(string); ok {
			ap.HwAddress.Set(s)
		}
	}
}

func (ap *AccessPoint) StartMonitoring(parent reactive.Token) { ap.token = parent.Child() }
func (ap *AccessPoint) CancelToken() reactive.Token           { return ap.token }

var (
	_ reactive.Entity[AccessPointPath] = (*AccessPoint)(nil)
	_ reactive.ModelMonitoring         = (*AccessPoint)(nil)
)
