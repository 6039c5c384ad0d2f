package mpris

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerIDShortName(t *testing.T) {
	id := playerIDFromBusName("org.mpris.MediaPlayer2.spotify")
	require.Equal(t, "spotify", id.ShortName())
	require.Equal(t, "org.mpris.MediaPlayer2.spotify", id.BusName())
}

func TestPlaybackStateFrom(t *testing.T) {
	require.Equal(t, Playing, playbackStateFrom("Playing"))
	require.Equal(t, Paused, playbackStateFrom("Paused"))
	require.Equal(t, Stopped, playbackStateFrom("Stopped"))
	require.Equal(t, Stopped, playbackStateFrom("unknown"))
}

func TestLoopModeRoundTrip(t *testing.T) {
	for _, m := range []LoopMode{LoopNone, LoopTrack, LoopPlaylist} {
		require.Equal(t, m, loopModeFrom(m.String()))
	}
}
