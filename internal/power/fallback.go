package power

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

const powerSupplyRoot = "/sys/class/power_supply"

// sysfsBatteryPath is the first battery-class power supply found under
// /sys/class/power_supply, used when UPower isn't reachable on the system
// bus (headless containers, minimal distros without upower installed).
func sysfsBatteryPath() (string, bool) {
	return findBatteryUnder(powerSupplyRoot)
}

func findBatteryUnder(root string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		typ, err := os.ReadFile(filepath.Join(root, e.Name(), "type"))
		if err == nil && strings.TrimSpace(string(typ)) == "Battery" {
			return filepath.Join(root, e.Name()), true
		}
	}
	return "", false
}

func sysfsReadInt(dir, file string) (int64, bool) {
	b, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	return n, err == nil
}

func sysfsReadString(dir, file string) (string, bool) {
	b, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(b)), true
}

// readSysfsBattery fills a snapshot Battery from sysfs, used when the
// UPower daemon is absent from the bus entirely.
func readSysfsBattery(b *Battery) bool {
	dir, ok := sysfsBatteryPath()
	if !ok {
		return false
	}
	return readSysfsBatteryFrom(dir, b)
}

func readSysfsBatteryFrom(dir string, b *Battery) bool {
	if pct, ok := sysfsReadInt(dir, "capacity"); ok {
		b.Percentage.Set(float64(pct))
	}
	if status, ok := sysfsReadString(dir, "status"); ok {
		switch strings.ToLower(status) {
		case "charging":
			b.State.Set(BatteryCharging)
		case "discharging":
			b.State.Set(BatteryDischarging)
		case "full":
			b.State.Set(BatteryFullyCharged)
		case "not charging":
			b.State.Set(BatteryPendingCharge)
		default:
			b.State.Set(BatteryUnknown)
		}
	}
	return true
}

// degradedFromThermal approximates power-profiles-daemon's
// PerformanceDegraded property from sensor readings when the daemon itself
// isn't running: a core reporting at or above its critical threshold is
// treated the same as "high-operating-temperature".
func degradedFromThermal() DegradationReason {
	temps, err := host.SensorsTemperatures()
	if err != nil {
		return DegradationUnknown
	}
	for _, t := range temps {
		if t.Critical > 0 && t.Temperature >= t.Critical {
			return DegradationHighTemperature
		}
	}
	return DegradationNone
}
