package trigger

import (
	"sort"
)

// Index answers interval-overlap queries over the static position-activated
// trigger entries. Built once at level load, immutable afterwards.
type Index struct {
	// entries sorted ascending by span start.
	entries []*Entry
	// maxEnd[i] is the largest span end among entries[0..i], giving the
	// backward scan its termination bound.
	maxEnd []float32
}

// BuildIndex sorts the entries by start position and precomputes the prefix
// end maxima. Sequence numbers are assigned by the caller and unaffected.
func BuildIndex(entries []*Entry) *Index {
	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	maxEnd := make([]float32, len(sorted))
	for i, e := range sorted {
		maxEnd[i] = e.Span.End
		if i > 0 && maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}
	return &Index{entries: sorted, maxEnd: maxEnd}
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Query calls fn for every entry whose span [Start, End) overlaps [lo, hi),
// in ascending start order. Entries starting at or after hi cannot overlap;
// the backward scan from there stops once the prefix maximum end drops to
// or below lo.
func (ix *Index) Query(lo, hi float32, fn func(*Entry)) {
	if hi <= lo {
		return
	}
	first := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Span.Start >= hi
	})

	start := 0
	for j := first - 1; j >= 0; j-- {
		if ix.maxEnd[j] <= lo {
			start = j + 1
			break
		}
	}
	for i := start; i < first; i++ {
		if e := ix.entries[i]; e.Span.End > lo {
			fn(e)
		}
	}
}
