package notify

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"
)

func TestUrgencyFromHintsDefaultsToNormal(t *testing.T) {
	require.Equal(t, UrgencyNormal, urgencyFromHints(map[string]dbus.Variant{}))
}

func TestUrgencyFromHintsReadsByte(t *testing.T) {
	hints := map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(UrgencyCritical))}
	require.Equal(t, UrgencyCritical, urgencyFromHints(hints))
}
