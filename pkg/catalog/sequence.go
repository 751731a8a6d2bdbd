package catalog

// NextSequence returns the next artifact sequence number given the numbers
// observed in the latest manifest snapshot: 1 for an empty catalog, else
// max+1. Retired numbers are never reused and gaps are never filled.
//
// The snapshot may be stale, so two agents can legitimately compute the same
// next number. That race is accepted here and resolved by the publish step
// against the catalog, not by this allocator.
func NextSequence(existing []int) int {
	next := 1
	for _, n := range existing {
		if n >= next {
			next = n + 1
		}
	}
	return next
}
