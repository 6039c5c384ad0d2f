package reactive

import (
	"testing"
	"time"
)

func TestPropertyGetSet(t *testing.T) {
	p := New(1, func(a, b int) bool { return a == b })
	if got := p.Get(); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
	p.Set(2)
	if got := p.Get(); got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}

func TestPropertySkipsNotificationOnEqualSet(t *testing.T) {
	p := New(1, func(a, b int) bool { return a == b })
	values, cancel := p.Watch()
	defer cancel()

	p.Set(1) // equal to current value: must not notify

	select {
	case v := <-values:
		t.Fatalf("unexpected notification for no-op set: %d", v)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPropertyCloneSharesCell(t *testing.T) {
	p := New("a", nil)
	clone := p.Clone()

	clone.Set("b")
	if got := p.Get(); got != "b" {
		t.Errorf("original Get() = %q, want %q (clone should share cell)", got, "b")
	}
}

func TestPropertyWatchSeesLastValue(t *testing.T) {
	p := New(0, func(a, b int) bool { return a == b })
	values, cancel := p.Watch()
	defer cancel()

	// Coalescing: rapid writes before the consumer polls must still result
	// in the consumer eventually observing the final value.
	p.Set(1)
	p.Set(2)
	p.Set(3)

	select {
	case v := <-values:
		if v != 3 {
			t.Errorf("watch observed %d, want final value 3", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestPropertyMultipleSubscribers(t *testing.T) {
	p := New(0, nil)
	v1, c1 := p.Watch()
	v2, c2 := p.Watch()
	defer c1()
	defer c2()

	p.Set(42)

	for i, ch := range []<-chan int{v1, v2} {
		select {
		case v := <-ch:
			if v != 42 {
				t.Errorf("subscriber %d observed %d, want 42", i, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}
