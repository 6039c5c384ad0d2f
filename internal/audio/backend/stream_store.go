package backend

import (
	"sync"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
)

// StreamStore is StreamKey->StreamInfo, with the same sharing contract as
// DeviceStore.
type StreamStore struct {
	mu      sync.RWMutex
	streams map[types.StreamKey]types.StreamInfo
}

// NewStreamStore constructs an empty store.
func NewStreamStore() *StreamStore {
	return &StreamStore{streams: make(map[types.StreamKey]types.StreamInfo)}
}

// Upsert inserts or overwrites the entry for s.Key and reports whether the
// key pre-existed.
func (s *StreamStore) Upsert(info types.StreamInfo) (existedBefore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existedBefore = s.streams[info.Key]
	s.streams[info.Key] = info
	return existedBefore
}

// Remove deletes the entry for k and reports whether it was present.
func (s *StreamStore) Remove(k types.StreamKey) (existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed = s.streams[k]
	delete(s.streams, k)
	return existed
}

// Get returns a copy of the entry for k, if present.
func (s *StreamStore) Get(k types.StreamKey) (types.StreamInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.streams[k]
	return info, ok
}

// List returns a snapshot slice of every stored stream of the given kind.
func (s *StreamStore) List(kind types.StreamKind) []types.StreamInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.StreamInfo, 0, len(s.streams))
	for k, info := range s.streams {
		if k.Kind == kind {
			out = append(out, info)
		}
	}
	return out
}
