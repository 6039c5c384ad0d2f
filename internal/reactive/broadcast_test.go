package reactive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroadcastFansOutToAllSubscribers(t *testing.T) {
	b := NewBroadcast[int](4)
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()

	b.Publish(7)

	for _, ch := range []<-chan int{a, c} {
		select {
		case v := <-ch:
			require.Equal(t, 7, v)
		case <-time.After(time.Second):
			t.Fatal("subscriber never received published event")
		}
	}
}

func TestBroadcastDropsForSlowConsumerWithoutBlocking(t *testing.T) {
	b := NewBroadcast[int](1)
	slow, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			b.Publish(i) // must never block even though nobody drains slow
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow consumer")
	}

	<-slow // one stale value remains buffered; that's fine
}

func TestBroadcastCloseClosesAllSubscribers(t *testing.T) {
	b := NewBroadcast[int](1)
	ch, _ := b.Subscribe()
	b.Close()

	_, ok := <-ch
	require.False(t, ok, "subscriber channel should be closed")
}
