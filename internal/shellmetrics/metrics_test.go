package shellmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestEntitiesTrackedRecordsPerDomainAndKind(t *testing.T) {
	EntitiesTracked.WithLabelValues("audio", "device").Set(3)
	require.Equal(t, float64(3), testutil.ToFloat64(EntitiesTracked.WithLabelValues("audio", "device")))
}

func TestBackendConnectedIsBinary(t *testing.T) {
	BackendConnected.WithLabelValues("bluetooth").Set(1)
	require.Equal(t, float64(1), testutil.ToFloat64(BackendConnected.WithLabelValues("bluetooth")))

	BackendConnected.WithLabelValues("bluetooth").Set(0)
	require.Equal(t, float64(0), testutil.ToFloat64(BackendConnected.WithLabelValues("bluetooth")))
}

func TestBroadcastDropsTotalIncrements(t *testing.T) {
	before := testutil.ToFloat64(BroadcastDropsTotal.WithLabelValues("mpris"))
	BroadcastDropsTotal.WithLabelValues("mpris").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(BroadcastDropsTotal.WithLabelValues("mpris")))
}
