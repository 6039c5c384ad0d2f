package reactive

import "sync"

// ComputedProperty derives a value from one or more input Properties and a
// pure transform. It recomputes and republishes whenever any input fires.
// The transform must be deterministic and side-effect free; ComputedProperty
// may invoke it more than once per input change (e.g. once at construction,
// once per coalesced notification).
type ComputedProperty[T any] struct {
	out    Property[T]
	stopMu sync.Mutex
	stops  []func()
}

// NewComputed builds a ComputedProperty from a slice of untyped watch
// channels (callers assemble these with WatchSignal over their own input
// Properties) and a recompute function producing the next value. It
// immediately computes and publishes the initial value.
func NewComputed[T any](recompute func() T, equal func(a, b T) bool, watch ...func() (<-chan struct{}, func())) *ComputedProperty[T] {
	c := &ComputedProperty[T]{out: New(recompute(), equal)}
	for _, w := range watch {
		ch, stop := w()
		c.stops = append(c.stops, stop)
		go c.pump(ch, recompute)
	}
	return c
}

func (c *ComputedProperty[T]) pump(ch <-chan struct{}, recompute func() T) {
	for range ch {
		c.out.Set(recompute())
	}
}

// Property exposes the computed value as a read path; Set on it is
// unsupported in practice since nothing but the ComputedProperty holds a
// writer handle, but the type itself does not prevent it — callers should
// treat the returned Property as read-only.
func (c *ComputedProperty[T]) Property() Property[T] {
	return c.out
}

// Get returns the current computed value.
func (c *ComputedProperty[T]) Get() T {
	return c.out.Get()
}

// Close releases every input subscription. Safe to call once.
func (c *ComputedProperty[T]) Close() {
	c.stopMu.Lock()
	defer c.stopMu.Unlock()
	for _, stop := range c.stops {
		stop()
	}
	c.stops = nil
}

// WatchSignal adapts a Property[T] into a parameterless change-signal watch
// function suitable for NewComputed's variadic input list, when the
// transform only needs to know "something changed", not the new value.
func WatchSignal[T any](p Property[T]) func() (<-chan struct{}, func()) {
	return func() (<-chan struct{}, func()) {
		values, cancel := p.Watch()
		sig := make(chan struct{}, 1)
		go func() {
			defer close(sig)
			for range values {
				select {
				case sig <- struct{}{}:
				default:
				}
			}
		}()
		return sig, cancel
	}
}
