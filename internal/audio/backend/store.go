package backend

import (
	"sync"

	"github.com/pozitronik/steelclock-go/internal/audio/types"
)

// DeviceStore is the keyed mapping DeviceKey->Device shared between its
// writers (Upsert from the introspection callbacks on the context thread,
// Remove from the event processor's handling of removal notifications) and
// command handlers (readers, for validation). The lock is never held across
// a suspension point: every method here is a plain map operation.
type DeviceStore struct {
	mu      sync.RWMutex
	devices map[types.DeviceKey]types.Device
}

// NewDeviceStore constructs an empty store.
func NewDeviceStore() *DeviceStore {
	return &DeviceStore{devices: make(map[types.DeviceKey]types.Device)}
}

// Upsert inserts or overwrites the entry for d.Key and reports whether the
// key pre-existed, so the caller can decide between emitting Added or
// Changed.
func (s *DeviceStore) Upsert(d types.Device) (existedBefore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existedBefore = s.devices[d.Key]
	s.devices[d.Key] = d
	return existedBefore
}

// Remove deletes the entry for k and reports whether it was present.
func (s *DeviceStore) Remove(k types.DeviceKey) (existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed = s.devices[k]
	delete(s.devices, k)
	return existed
}

// Get returns a copy of the entry for k, if present.
func (s *DeviceStore) Get(k types.DeviceKey) (types.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[k]
	return d, ok
}

// List returns a snapshot slice of the stored devices of the given kind, in
// no particular order.
func (s *DeviceStore) List(kind types.DeviceKind) []types.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Device, 0, len(s.devices))
	for k, d := range s.devices {
		if k.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// NameOf resolves a device key to the backend name string needed for
// default-device calls, without exposing the full store to command
// validation callers.
func (s *DeviceStore) NameOf(k types.DeviceKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[k]
	return d.Name, ok
}
