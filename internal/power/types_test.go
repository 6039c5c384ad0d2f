package power

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileFromRoundTrips(t *testing.T) {
	require.Equal(t, ProfilePowerSaver, profileFrom("power-saver"))
	require.Equal(t, ProfilePerformance, profileFrom("performance"))
	require.Equal(t, ProfileBalanced, profileFrom("balanced"))
	require.Equal(t, ProfileBalanced, profileFrom("unrecognized"))

	require.Equal(t, "power-saver", ProfilePowerSaver.String())
	require.Equal(t, "performance", ProfilePerformance.String())
	require.Equal(t, "balanced", ProfileBalanced.String())
}

func TestDegradationFromRoundTrips(t *testing.T) {
	require.Equal(t, DegradationNone, degradationFrom(""))
	require.Equal(t, DegradationLapDetected, degradationFrom("lap-detected"))
	require.Equal(t, DegradationHighTemperature, degradationFrom("high-operating-temperature"))
	require.Equal(t, DegradationUnknown, degradationFrom("something-else"))

	require.Equal(t, "none", DegradationNone.String())
	require.Equal(t, "lap-detected", DegradationLapDetected.String())
	require.Equal(t, "high-operating-temperature", DegradationHighTemperature.String())
}

func TestBatteryStateString(t *testing.T) {
	require.Equal(t, "charging", BatteryCharging.String())
	require.Equal(t, "discharging", BatteryDischarging.String())
	require.Equal(t, "unknown", BatteryUnknown.String())
}
