package notify

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

func newTestService() *Service {
	return &Service{
		active:  make(map[uint32]*Notification),
		History: reactive.New[[]*Notification](nil, nil),
	}
}

func TestNotifyAssignsIncrementingIDs(t *testing.T) {
	s := newTestService()

	id1, err := s.Notify("app", 0, "", "hello", "world", nil, nil, -1)
	require.Nil(t, err)
	id2, err := s.Notify("app", 0, "", "hello2", "world2", nil, nil, -1)
	require.Nil(t, err)

	require.Equal(t, uint32(1), id1)
	require.Equal(t, uint32(2), id2)
	require.Len(t, s.History.Get(), 2)
}

func TestNotifyReplacesExistingID(t *testing.T) {
	s := newTestService()
	id, _ := s.Notify("app", 0, "", "first", "", nil, nil, -1)
	_, _ = s.Notify("app", id, "", "updated", "", nil, nil, -1)

	require.Len(t, s.History.Get(), 1)
	require.Equal(t, "updated", s.History.Get()[0].Summary.Get())
}

func TestGetCapabilitiesAndServerInfo(t *testing.T) {
	s := newTestService()
	caps, err := s.GetCapabilities()
	require.Nil(t, err)
	require.Contains(t, caps, "actions")

	name, vendor, version, specVersion, err := s.GetServerInformation()
	require.Nil(t, err)
	require.NotEmpty(t, name)
	require.NotEmpty(t, vendor)
	require.NotEmpty(t, version)
	require.NotEmpty(t, specVersion)
}

func TestUrgencyFromHintsIsVariant(t *testing.T) {
	require.Equal(t, UrgencyLow, urgencyFromHints(map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))}))
}
