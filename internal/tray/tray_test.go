package tray

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/mpris"
	"github.com/pozitronik/steelclock-go/internal/network"
	"github.com/pozitronik/steelclock-go/internal/reactive"
)

func TestNewManagerOmitsMenuForNilServices(t *testing.T) {
	exitCalled := false
	m := NewManager(nil, nil, nil, func() { exitCalled = true }, zerolog.Nop())

	require.NotNil(t, m)
	require.Nil(t, m.audioSvc)
	require.Nil(t, m.mediaSvc)
	require.Nil(t, m.networkSvc)

	m.onQuit()
	require.True(t, exitCalled)
}

func TestTooltipReportsOfflineWithNoActiveConnection(t *testing.T) {
	netSvc := &network.Service{
		ActiveConnection: reactive.New[*network.ActiveConnection](nil, nil),
	}

	m := NewManager(nil, nil, netSvc, nil, zerolog.Nop())
	require.Equal(t, "steelshell — offline", m.tooltip())
}

func TestTooltipFallsBackWithNoNetworkService(t *testing.T) {
	m := NewManager(nil, nil, nil, nil, zerolog.Nop())
	require.Equal(t, "steelshell", m.tooltip())
}

func TestPlayPauseIsNoOpWithNoActivePlayer(t *testing.T) {
	mediaSvc := &mpris.Service{
		ActivePlayer: reactive.New[*mpris.Player](nil, nil),
	}

	m := NewManager(nil, mediaSvc, nil, nil, zerolog.Nop())
	m.playPause() // must not panic
}

func TestOnQuitNilCallback(t *testing.T) {
	m := NewManager(nil, nil, nil, nil, zerolog.Nop())
	m.onQuit() // must not panic
}
