package backend

import (
	"testing"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
	"github.com/stretchr/testify/require"
)

func TestDeviceStoreUpsertReportsExisted(t *testing.T) {
	s := NewDeviceStore()
	key := types.DeviceKey{Index: 0, Kind: types.Output}

	existed := s.Upsert(types.Device{Key: key, Name: "sink0", Volume: 0.5})
	require.False(t, existed)

	existed = s.Upsert(types.Device{Key: key, Name: "sink0", Volume: 0.75})
	require.True(t, existed)

	got, ok := s.Get(key)
	require.True(t, ok)
	require.Equal(t, 0.75, got.Volume)
}

func TestDeviceStoreRemove(t *testing.T) {
	s := NewDeviceStore()
	key := types.DeviceKey{Index: 5, Kind: types.Input}
	s.Upsert(types.Device{Key: key, Name: "mic"})

	require.True(t, s.Remove(key))
	require.False(t, s.Remove(key), "second remove of the same key reports not-existed")

	_, ok := s.Get(key)
	require.False(t, ok)
}

func TestDeviceStoreListFiltersByKind(t *testing.T) {
	s := NewDeviceStore()
	s.Upsert(types.Device{Key: types.DeviceKey{Index: 0, Kind: types.Output}})
	s.Upsert(types.Device{Key: types.DeviceKey{Index: 1, Kind: types.Input}})

	outputs := s.List(types.Output)
	require.Len(t, outputs, 1)
	require.Equal(t, types.Output, outputs[0].Key.Kind)
}

func TestStreamStoreUpsertAndRemove(t *testing.T) {
	s := NewStreamStore()
	key := types.StreamKey{Index: 10, Kind: types.Playback}

	existed := s.Upsert(types.StreamInfo{Key: key, Volume: 1.0})
	require.False(t, existed)

	existed = s.Upsert(types.StreamInfo{Key: key, Volume: 0.5})
	require.True(t, existed)

	got, ok := s.Get(key)
	require.True(t, ok)
	require.Equal(t, 0.5, got.Volume)

	require.True(t, s.Remove(key))
	_, ok = s.Get(key)
	require.False(t, ok)
}
