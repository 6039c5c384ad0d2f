package power

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProfilesDefaultsToBalanced(t *testing.T) {
	p := newProfiles(nil)
	require.Equal(t, ProfileBalanced, p.Active.Get())
	require.Equal(t, DegradationNone, p.Degraded.Get())
	require.Empty(t, p.Available.Get())
}
