package controlapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHealthzReportsOK(t *testing.T) {
	s := NewServer("127.0.0.1:0", Sources{}, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	resp, err := http.Get(s.GetURL() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestStatusOmitsUnwiredServices(t *testing.T) {
	s := NewServer("127.0.0.1:0", Sources{}, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	resp, err := http.Get(s.GetURL() + "/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Empty(t, body)
}

func TestStatusIncludesWiredSource(t *testing.T) {
	s := NewServer("127.0.0.1:0", Sources{
		Notify: func() any { return map[string]any{"history_count": 0} },
	}, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	resp, err := http.Get(s.GetURL() + "/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body, "notify")
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewServer("127.0.0.1:0", Sources{}, zerolog.Nop())
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	require.False(t, s.IsRunning())
}

func TestNotRunningURLIsEmpty(t *testing.T) {
	s := NewServer("127.0.0.1:0", Sources{}, zerolog.Nop())
	require.Equal(t, "", s.GetURL())
}
