package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSSIDFromBytes(t *testing.T) {
	require.Equal(t, "HomeWifi", decodeSSID([]byte("HomeWifi")))
	require.Equal(t, "", decodeSSID("not-bytes"))
}

func TestConnectivityStateOrdering(t *testing.T) {
	require.Less(t, int(ConnectivityNone), int(ConnectivityFull))
	require.Equal(t, ConnectivityState(4), ConnectivityFull)
}
