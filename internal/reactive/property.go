// Package reactive provides the primitives every steelshell service is built
// from: a thread-safe observable cell (Property), a pure derivation of one
// (ComputedProperty), the entity lifecycle protocol, and cooperative
// cancellation tokens used to tear down monitor tasks.
package reactive

import "sync"

// Property is a thread-safe cell holding a value of type T plus a set of
// subscribers waiting on the next write. Readers always observe the latest
// successfully set value; a set that produces a value equal to the current
// one per the supplied equal func skips notification. With a nil equal func,
// every Set notifies.
//
// Clone shares the underlying cell: all clones observe one another's writes,
// and the cell lives until its last holder drops it.
type Property[T any] struct {
	cell *cell[T]
}

type cell[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
	equal func(a, b T) bool
}

// New constructs a Property with an initial value. equal, if non-nil, is
// used to decide whether a Set is a no-op for notification purposes.
func New[T any](initial T, equal func(a, b T) bool) Property[T] {
	return Property[T]{cell: &cell[T]{
		value: initial,
		subs:  make(map[int]chan T),
		equal: equal,
	}}
}

// Get returns the current value.
func (p Property[T]) Get() T {
	p.cell.mu.Lock()
	defer p.cell.mu.Unlock()
	return p.cell.value
}

// Set replaces the value and notifies subscribers at least once for this
// write, unless equal(old, new) reports no change.
func (p Property[T]) Set(v T) {
	p.cell.mu.Lock()
	if p.cell.equal != nil && p.cell.equal(p.cell.value, v) {
		p.cell.mu.Unlock()
		return
	}
	p.cell.value = v
	subs := make([]chan T, 0, len(p.cell.subs))
	for _, ch := range p.cell.subs {
		subs = append(subs, ch)
	}
	p.cell.mu.Unlock()

	// Coalescing: a full (unconsumed) subscriber channel drops its stale
	// value and takes the new one, so the consumer always eventually sees
	// the last write without blocking the writer.
	for _, ch := range subs {
		for {
			select {
			case ch <- v:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// Watch returns a single-consumer channel of successor values, observed from
// the instant Watch is called. The caller must call the returned cancel func
// when done to release the subscription slot.
func (p Property[T]) Watch() (values <-chan T, cancel func()) {
	p.cell.mu.Lock()
	id := p.cell.next
	p.cell.next++
	ch := make(chan T, 1)
	p.cell.subs[id] = ch
	p.cell.mu.Unlock()

	return ch, func() {
		p.cell.mu.Lock()
		delete(p.cell.subs, id)
		p.cell.mu.Unlock()
	}
}

// Clone returns a new handle sharing the same underlying cell.
func (p Property[T]) Clone() Property[T] {
	return Property[T]{cell: p.cell}
}
