package reactive

import (
	"weak"
)

// Entity is any domain object with a stable, comparable identity key. Two
// entities are equal iff their keys are equal; field contents never factor
// into identity.
type Entity[K comparable] interface {
	Key() K
}

// Reactive is implemented by every entity type that supports the lifecycle
// protocol: a one-shot snapshot fetch and a live fetch wired to a monitor
// task.
type Reactive[K comparable, T Entity[K]] interface {
	Get(ctx Token) (T, error)
	GetLive(parent Token) (T, error)
}

// ModelMonitoring is implemented by a live entity: it owns a monitor task
// bound to a child of the token it was constructed with, and exposes that
// token so a service monitor can cancel it independently on removal.
type ModelMonitoring interface {
	StartMonitoring(parent Token)
	CancelToken() Token
}

// ServiceMonitoring is implemented by a service: it starts the single
// long-lived task that maintains its top-level collections from the
// backend's event feed.
type ServiceMonitoring interface {
	StartServiceMonitor(root Token)
}

// WeakHandle holds a non-owning reference to a live entity, following the
// spec's "relation + lookup, never ownership" rule: a task holding only a
// WeakHandle can never keep the entity alive past its last external owner.
// No service monitor in this module holds one: the service monitors keep
// strong pointers in their keyed maps and end an entity's monitoring by
// cancelling its token.
type WeakHandle[T any] struct {
	ptr weak.Pointer[T]
}

// NewWeakHandle captures a weak reference to v.
func NewWeakHandle[T any](v *T) WeakHandle[T] {
	return WeakHandle[T]{ptr: weak.Make(v)}
}

// Upgrade attempts to obtain a strong pointer. ok is false once every
// external strong reference to the entity has been dropped and it has been
// collected; monitor tasks treat a failed upgrade as "entity is gone,
// terminate".
func (w WeakHandle[T]) Upgrade() (v *T, ok bool) {
	v = w.ptr.Value()
	return v, v != nil
}
