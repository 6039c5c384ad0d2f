package reactive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// leakyEntity is a minimal ModelMonitoring implementation whose monitor task
// is a real goroutine, parking on its token until cancelled. It derives its
// token the way the domain entities' StartMonitoring does (see e.g.
// internal/bluetooth's Adapter/Device, internal/audio's OutputDevice), which
// derive only the child token and start no goroutine of their own.
type leakyEntity struct {
	key int

	token   Token
	started chan struct{}
}

func (e *leakyEntity) Key() int { return e.key }

func (e *leakyEntity) StartMonitoring(parent Token) {
	e.token = parent.Child()
	go func() {
		close(e.started)
		<-e.token.Done()
	}()
}

func (e *leakyEntity) CancelToken() Token { return e.token }

var _ ModelMonitoring = (*leakyEntity)(nil)

// TestMonitorTaskTerminatesWhenServiceTokenCancelled verifies the root
// lifecycle invariant every reactive service relies on: for a live entity
// created under a service's token, cancelling that token (not the entity's
// own CancelToken) terminates the entity's monitor goroutine. A service
// never joins its monitor tasks explicitly, so if this didn't hold, every
// Close() would leak one goroutine per live entity that ever existed.
func TestMonitorTaskTerminatesWhenServiceTokenCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	serviceRoot := NewToken()
	entity := &leakyEntity{key: 1, started: make(chan struct{})}
	entity.StartMonitoring(serviceRoot)

	select {
	case <-entity.started:
	case <-time.After(time.Second):
		t.Fatal("monitor task never started")
	}

	serviceRoot.Cancel()

	select {
	case <-entity.CancelToken().Done():
	case <-time.After(time.Second):
		t.Fatal("entity token was not cancelled by its service root")
	}
}

// TestMonitorTaskSurvivesUnrelatedSiblingCancellation is the converse check:
// cancelling one entity's own token must not affect another live entity
// under the same service root (spec §5's "never reaches past its own
// subtree", applied sideways instead of upward).
func TestMonitorTaskSurvivesUnrelatedSiblingCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	serviceRoot := NewToken()
	a := &leakyEntity{key: 1, started: make(chan struct{})}
	b := &leakyEntity{key: 2, started: make(chan struct{})}
	a.StartMonitoring(serviceRoot)
	b.StartMonitoring(serviceRoot)

	<-a.started
	<-b.started

	a.CancelToken().Cancel()

	select {
	case <-b.CancelToken().Done():
		t.Fatal("sibling entity's monitor was cancelled by an unrelated entity")
	case <-time.After(50 * time.Millisecond):
	}

	require.False(t, b.CancelToken().Cancelled())
	serviceRoot.Cancel()
	<-b.CancelToken().Done()
}
