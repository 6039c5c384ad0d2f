package reactive

// Reconcile implements the non-PulseAudio state-reconciliation algorithm
// (spec.md §4.6), used by services whose backend supports a full-list query
// (Hyprland-style window lists, BlueZ device lists, NetworkManager access
// points). It preserves existing entity handles across refreshes so UI
// bindings stay stable: an entry present in both current and live is updated
// in place and kept, rather than replaced.
//
// live is the freshly queried list (authoritative). current is the existing
// keyed collection. keyOf extracts identity. update mutates an existing
// entity in place from a live payload. create constructs a new entity from a
// live payload that doesn't exist yet.
//
// Reconcile returns the new ordered collection and whether it differs in
// composition (by key set) from current — callers use this to decide
// whether to republish the collection Property, per the rule "replace only
// if the resulting sequence differs".
func Reconcile[K comparable, P any, T any](
	live []P,
	current map[K]T,
	keyOf func(P) K,
	update func(existing T, payload P),
	create func(payload P) T,
) (next []T, changed bool) {
	seen := make(map[K]bool, len(live))
	next = make([]T, 0, len(live))

	for _, payload := range live {
		k := keyOf(payload)
		seen[k] = true
		if existing, ok := current[k]; ok {
			update(existing, payload)
			next = append(next, existing)
		} else {
			next = append(next, create(payload))
			changed = true
		}
	}

	if len(seen) != len(current) {
		changed = true
	} else {
		for k := range current {
			if !seen[k] {
				changed = true
				break
			}
		}
	}

	return next, changed
}
