// Package power tracks system power profiles (power-profiles-daemon) and
// battery state (UPower), falling back to a /sys/class/power_supply and
// gopsutil-backed reading when neither D-Bus daemon is reachable
// (original_source/src/services/{power_profiles,battery}/*.rs).
package power

import "github.com/godbus/dbus/v5"

const (
	ppdService = "net.hadess.PowerProfiles"
	ppdPath    = "/net/hadess/PowerProfiles"
	ppdIface   = "net.hadess.PowerProfiles"

	upowerService     = "org.freedesktop.UPower"
	upowerDisplayPath = "/org/freedesktop/UPower/devices/DisplayDevice"
	upowerDeviceIface = "org.freedesktop.UPower.Device"
	propsIface        = "org.freedesktop.DBus.Properties"
)

// Profile mirrors power-profiles-daemon's three well-known profile names.
type Profile int

const (
	ProfileBalanced Profile = iota
	ProfilePowerSaver
	ProfilePerformance
)

func profileFrom(s string) Profile {
	switch s {
	case "power-saver":
		return ProfilePowerSaver
	case "performance":
		return ProfilePerformance
	default:
		return ProfileBalanced
	}
}

func (p Profile) String() string {
	switch p {
	case ProfilePowerSaver:
		return "power-saver"
	case ProfilePerformance:
		return "performance"
	default:
		return "balanced"
	}
}

// DegradationReason mirrors PowerProfiles' PerformanceDegraded property.
type DegradationReason int

const (
	DegradationNone DegradationReason = iota
	DegradationLapDetected
	DegradationHighTemperature
	DegradationUnknown
)

func degradationFrom(s string) DegradationReason {
	switch s {
	case "":
		return DegradationNone
	case "lap-detected":
		return DegradationLapDetected
	case "high-operating-temperature":
		return DegradationHighTemperature
	default:
		return DegradationUnknown
	}
}

func (d DegradationReason) String() string {
	switch d {
	case DegradationLapDetected:
		return "lap-detected"
	case DegradationHighTemperature:
		return "high-operating-temperature"
	case DegradationUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// BatteryState mirrors UPower's Device.State enum.
type BatteryState uint32

const (
	BatteryUnknown BatteryState = iota
	BatteryCharging
	BatteryDischarging
	BatteryEmpty
	BatteryFullyCharged
	BatteryPendingCharge
	BatteryPendingDischarge
)

func (s BatteryState) String() string {
	switch s {
	case BatteryCharging:
		return "charging"
	case BatteryDischarging:
		return "discharging"
	case BatteryEmpty:
		return "empty"
	case BatteryFullyCharged:
		return "fully-charged"
	case BatteryPendingCharge:
		return "pending-charge"
	case BatteryPendingDischarge:
		return "pending-discharge"
	default:
		return "unknown"
	}
}

// lowBatteryThreshold is the percentage at or below which a discharging battery
// counts as "critical" for OverallStatus purposes, matching the threshold
// UPower itself treats as the low-battery warning level.
const lowBatteryThreshold = 10.0

// OverallStatus summarizes Profiles.Degraded and Battery.State/Percentage
// into the single value a tray icon or status line actually wants, rather
// than making every consumer re-derive "should I warn the user" from three
// separate properties.
type OverallStatus int

const (
	StatusNormal OverallStatus = iota
	StatusDegraded
	StatusBatteryCritical
)

func (s OverallStatus) String() string {
	switch s {
	case StatusDegraded:
		return "degraded"
	case StatusBatteryCritical:
		return "battery-critical"
	default:
		return "normal"
	}
}

func eqOverallStatus(a, b OverallStatus) bool { return a == b }

func getProp(conn *dbus.Conn, dest string, path dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	obj := conn.Object(dest, path)
	var v dbus.Variant
	err := obj.Call(propsIface+".Get", 0, iface, name).Store(&v)
	return v, err
}

func variantFloat64(v dbus.Variant) float64 {
	switch n := v.Value().(type) {
	case float64:
		return n
	case uint32:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}

func variantInt64(v dbus.Variant) int64 {
	switch n := v.Value().(type) {
	case int64:
		return n
	case uint32:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return 0
	}
}
