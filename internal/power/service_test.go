package power

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// newTestBattery builds a Battery without the refresh() D-Bus round-trip
// newBattery performs, since these tests never touch a real bus connection.
func newTestBattery() *Battery {
	return &Battery{
		Percentage: reactive.New(0.0, eqFloat),
		State:      reactive.New(BatteryUnknown, eqBatteryState),
	}
}

func TestSetActiveProfileErrorsWithoutDaemon(t *testing.T) {
	s := &Service{Profiles: newProfiles(nil), profilesLive: false}
	err := s.SetActiveProfile(ProfilePerformance)
	require.Error(t, err)
}

func TestComputeStatusPrefersDegradedOverBattery(t *testing.T) {
	s := &Service{Profiles: newProfiles(nil), Battery: newTestBattery()}
	s.Profiles.Degraded.Set(DegradationHighTemperature)
	s.Battery.State.Set(BatteryDischarging)
	s.Battery.Percentage.Set(2)

	require.Equal(t, StatusDegraded, s.computeStatus())
}

func TestComputeStatusReportsBatteryCriticalWhenDischargingLow(t *testing.T) {
	s := &Service{Profiles: newProfiles(nil), Battery: newTestBattery()}
	s.Battery.State.Set(BatteryDischarging)
	s.Battery.Percentage.Set(5)

	require.Equal(t, StatusBatteryCritical, s.computeStatus())
}

func TestComputeStatusNormalWhenChargingLow(t *testing.T) {
	s := &Service{Profiles: newProfiles(nil), Battery: newTestBattery()}
	s.Battery.State.Set(BatteryCharging)
	s.Battery.Percentage.Set(5)

	require.Equal(t, StatusNormal, s.computeStatus())
}
