package reactive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type payload struct {
	key   int
	value string
}

type held struct {
	key   int
	value string
}

func TestReconcilePreservesExistingHandles(t *testing.T) {
	existing := &held{key: 1, value: "old"}
	current := map[int]*held{1: existing}

	live := []payload{{key: 1, value: "new"}, {key: 2, value: "fresh"}}

	next, changed := Reconcile(live, current,
		func(p payload) int { return p.key },
		func(h *held, p payload) { h.value = p.value },
		func(p payload) *held { return &held{key: p.key, value: p.value} },
	)

	require.True(t, changed, "adding key 2 should report a composition change")
	require.Len(t, next, 2)
	require.Same(t, existing, next[0], "entry for key 1 must be the same handle, not a new allocation")
	require.Equal(t, "new", existing.value, "update must mutate the existing handle in place")
}

func TestReconcileDropsMissingEntries(t *testing.T) {
	current := map[int]*held{
		1: {key: 1, value: "a"},
		2: {key: 2, value: "b"},
	}
	live := []payload{{key: 1, value: "a"}}

	next, changed := Reconcile(live, current,
		func(p payload) int { return p.key },
		func(h *held, p payload) { h.value = p.value },
		func(p payload) *held { return &held{key: p.key, value: p.value} },
	)

	require.True(t, changed)
	require.Len(t, next, 1)
	require.Equal(t, 1, next[0].key)
}

func TestReconcileNoChangeWhenCompositionStable(t *testing.T) {
	current := map[int]*held{1: {key: 1, value: "a"}}
	live := []payload{{key: 1, value: "a"}}

	_, changed := Reconcile(live, current,
		func(p payload) int { return p.key },
		func(h *held, p payload) { h.value = p.value },
		func(p payload) *held { return &held{key: p.key, value: p.value} },
	)

	require.False(t, changed)
}
