package mpris

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

func newTestServiceNoConn(ignored []string) *Service {
	return &Service{
		root:         reactive.NewToken(),
		ignored:      ignored,
		players:      make(map[PlayerID]*Player),
		ownerByID:    make(map[PlayerID]string),
		idByOwner:    make(map[string]PlayerID),
		Players:      reactive.New[[]*Player](nil, nil),
		ActivePlayer: reactive.New[*Player](nil, nil),
	}
}

func TestShouldIgnoreMatchesSubstring(t *testing.T) {
	s := newTestServiceNoConn([]string{"kdeconnect"})
	require.True(t, s.shouldIgnore("org.mpris.MediaPlayer2.kdeconnect.device123"))
	require.False(t, s.shouldIgnore("org.mpris.MediaPlayer2.spotify"))
}

func TestResolveActivePrefersPlayingPlayer(t *testing.T) {
	s := newTestServiceNoConn(nil)

	idle := newPlayer(nil, "org.mpris.MediaPlayer2.idle")
	idle.PlaybackState.Set(Paused)
	playing := newPlayer(nil, "org.mpris.MediaPlayer2.playing")
	playing.PlaybackState.Set(Playing)

	s.players[idle.Key()] = idle
	s.players[playing.Key()] = playing

	s.resolveActiveLocked()

	require.NotNil(t, s.ActivePlayer.Get())
	require.Equal(t, playing.Key(), s.ActivePlayer.Get().Key())
}

func TestResolveActiveLeavesExplicitChoiceAlone(t *testing.T) {
	s := newTestServiceNoConn(nil)
	chosen := newPlayer(nil, "org.mpris.MediaPlayer2.chosen")
	s.players[chosen.Key()] = chosen
	s.ActivePlayer.Set(chosen)

	other := newPlayer(nil, "org.mpris.MediaPlayer2.other")
	other.PlaybackState.Set(Playing)
	s.players[other.Key()] = other

	s.resolveActiveLocked()

	require.Equal(t, chosen.Key(), s.ActivePlayer.Get().Key())
}

func TestPlayerForSenderRoutesPropertiesChangedToOwningPlayer(t *testing.T) {
	s := newTestServiceNoConn(nil)
	spotify := newPlayer(nil, "org.mpris.MediaPlayer2.spotify")
	s.players[spotify.Key()] = spotify
	s.ownerByID[spotify.Key()] = ":1.42"
	s.idByOwner[":1.42"] = spotify.Key()

	id, p := s.playerForSender(":1.42")
	require.Equal(t, spotify.Key(), id)
	require.Same(t, spotify, p)

	id, p = s.playerForSender(":1.99")
	require.Equal(t, PlayerID(""), id)
	require.Nil(t, p)
}

func TestHandlePlayerRemovedClearsOwnerMapping(t *testing.T) {
	s := newTestServiceNoConn(nil)
	vlc := newPlayer(nil, "org.mpris.MediaPlayer2.vlc")
	vlc.StartMonitoring(s.root)
	s.players[vlc.Key()] = vlc
	s.ownerByID[vlc.Key()] = ":1.7"
	s.idByOwner[":1.7"] = vlc.Key()

	s.handlePlayerRemoved(vlc.Key())

	_, ok := s.ownerByID[vlc.Key()]
	require.False(t, ok)
	_, ok = s.idByOwner[":1.7"]
	require.False(t, ok)
	id, p := s.playerForSender(":1.7")
	require.Equal(t, PlayerID(""), id)
	require.Nil(t, p)
}
