package power

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

func TestReadSysfsBatteryParsesCapacityAndStatus(t *testing.T) {
	root := t.TempDir()
	battDir := filepath.Join(root, "BAT0")
	require.NoError(t, os.MkdirAll(battDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(battDir, "type"), []byte("Battery\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(battDir, "capacity"), []byte("73\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(battDir, "status"), []byte("Discharging\n"), 0o644))

	dir, ok := findBatteryUnder(root)
	require.True(t, ok)

	b := &Battery{
		path:       dbus.ObjectPath("/test"),
		Percentage: reactive.New(0, eqFloat),
		State:      reactive.New(BatteryUnknown, eqBatteryState),
	}

	ok2 := readSysfsBatteryFrom(dir, b)
	require.True(t, ok2)
	require.Equal(t, float64(73), b.Percentage.Get())
	require.Equal(t, BatteryDischarging, b.State.Get())
}

func TestSysfsBatteryPathReturnsFalseWithNoBatteryDir(t *testing.T) {
	_, ok := findBatteryUnder(t.TempDir())
	require.False(t, ok)
}
