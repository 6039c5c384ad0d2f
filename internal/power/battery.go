package power

import (
	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Battery is a live UPower device, normally the composite DisplayDevice
// (original_source/src/services/battery/service.rs).
type Battery struct {
	conn *dbus.Conn
	path dbus.ObjectPath

	Percentage  reactive.Property[float64]
	State       reactive.Property[BatteryState]
	TimeToEmpty reactive.Property[int64]
	TimeToFull  reactive.Property[int64]
	IconName    reactive.Property[string]

	token reactive.Token
}

func newBattery(conn *dbus.Conn, path dbus.ObjectPath) *Battery {
	b := &Battery{
		conn:        conn,
		path:        path,
		Percentage:  reactive.New(0, eqFloat),
		State:       reactive.New(BatteryUnknown, eqBatteryState),
		TimeToEmpty: reactive.New(int64(0), eqInt64),
		TimeToFull:  reactive.New(int64(0), eqInt64),
		IconName:    reactive.New("", eqStrPower),
	}
	b.refresh()
	return b
}

func eqFloat(a, b float64) bool            { return a == b }
func eqInt64(a, b int64) bool              { return a == b }
func eqStrPower(a, b string) bool          { return a == b }
func eqBatteryState(a, b BatteryState) bool { return a == b }

func (b *Battery) refresh() {
	if v, err := getProp(b.conn, upowerService, b.path, upowerDeviceIface, "Percentage"); err == nil {
		b.Percentage.Set(variantFloat64(v))
	}
	if v, err := getProp(b.conn, upowerService, b.path, upowerDeviceIface, "State"); err == nil {
		if n, ok := v.Value().(uint32); ok {
			b.State.Set(BatteryState(n))
		}
	}
	if v, err := getProp(b.conn, upowerService, b.path, upowerDeviceIface, "TimeToEmpty"); err == nil {
		b.TimeToEmpty.Set(variantInt64(v))
	}
	if v, err := getProp(b.conn, upowerService, b.path, upowerDeviceIface, "TimeToFull"); err == nil {
		b.TimeToFull.Set(variantInt64(v))
	}
	if v, err := getProp(b.conn, upowerService, b.path, upowerDeviceIface, "IconName"); err == nil {
		if s, ok := v.Value().(string); ok {
			b.IconName.Set(s)
		}
	}
}

// Key satisfies reactive.Entity[dbus.ObjectPath].
func (b *Battery) Key() dbus.ObjectPath { return b.path }

func (b *Battery) StartMonitoring(parent reactive.Token) { b.token = parent.Child() }
func (b *Battery) CancelToken() reactive.Token           { return b.token }

var (
	_ reactive.Entity[dbus.ObjectPath] = (*Battery)(nil)
	_ reactive.ModelMonitoring         = (*Battery)(nil)
)
