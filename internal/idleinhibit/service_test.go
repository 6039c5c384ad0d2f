package idleinhibit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

func newTestService() *Service {
	return &Service{
		active: make(map[uint32]Inhibitor),
		Active: reactive.New[[]Inhibitor](nil, nil),
		Count:  reactive.New(0, eqInt),
	}
}

func TestInhibitAssignsIncrementingCookies(t *testing.T) {
	s := newTestService()

	c1, err := s.Inhibit("firefox", "playing video")
	require.Nil(t, err)
	c2, err := s.Inhibit("mpv", "fullscreen playback")
	require.Nil(t, err)

	require.Equal(t, uint32(1), c1)
	require.Equal(t, uint32(2), c2)
	require.Equal(t, 2, s.Count.Get())
	require.Len(t, s.Active.Get(), 2)
}

func TestUnInhibitRemovesAndDecrementsCount(t *testing.T) {
	s := newTestService()
	cookie, _ := s.Inhibit("firefox", "playing video")

	errDbus := s.UnInhibit(cookie)
	require.Nil(t, errDbus)
	require.Equal(t, 0, s.Count.Get())
	require.Empty(t, s.Active.Get())
}

func TestUnInhibitUnknownCookieIsNoOp(t *testing.T) {
	s := newTestService()
	_, _ = s.Inhibit("firefox", "x")

	errDbus := s.UnInhibit(999)
	require.Nil(t, errDbus)
	require.Equal(t, 1, s.Count.Get())
}
