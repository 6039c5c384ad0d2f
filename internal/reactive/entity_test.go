package reactive

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeEntity struct {
	key int
}

func TestWeakHandleUpgradeFailsAfterCollection(t *testing.T) {
	e := &fakeEntity{key: 1}
	handle := NewWeakHandle(e)

	got, ok := handle.Upgrade()
	require.True(t, ok)
	require.Equal(t, e, got)

	e = nil
	got = nil
	for i := 0; i < 10; i++ {
		runtime.GC()
		time.Sleep(time.Millisecond)
		if _, ok := handle.Upgrade(); !ok {
			return
		}
	}
	t.Fatal("weak handle never reported collection after all strong references dropped")
}

func TestTokenChildCancelsWithParent(t *testing.T) {
	root := NewToken()
	child := root.Child()

	require.False(t, child.Cancelled())
	root.Cancel()

	select {
	case <-child.Done():
	case <-time.After(time.Second):
		t.Fatal("child token was not cancelled by parent")
	}
	require.True(t, child.Cancelled())
}

func TestTokenChildIndependentCancel(t *testing.T) {
	root := NewToken()
	child := root.Child()

	child.Cancel()
	require.True(t, child.Cancelled())
	require.False(t, root.Cancelled())
}
