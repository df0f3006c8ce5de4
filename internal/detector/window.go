package detector

import (
	"sort"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
)

// trailingCounts computes, for each timestamp in ts, how many timestamps
// fall inside the trailing window (ts[i]-window, ts[i]], right edge
// inclusive, left edge exclusive. Windows are anchored at observed event
// timestamps rather than a fixed clock grid, so a burst of N events in W
// minutes is detected at the earliest event that closes a qualifying
// window. Entries sharing a timestamp are all counted, for every window
// end at that timestamp.
//
// ts must be sorted ascending. Pure function, no side effects.
func trailingCounts(ts []time.Time, window time.Duration) []int {
	counts := make([]int, len(ts))
	for i := range ts {
		end := ts[i]
		cutoff := end.Add(-window)

		// First index with timestamp > cutoff.
		lo := sort.Search(len(ts), func(j int) bool {
			return ts[j].After(cutoff)
		})
		// First index with timestamp > end. Later entries sharing the
		// window-end timestamp still land inside the window.
		hi := sort.Search(len(ts), func(j int) bool {
			return ts[j].After(end)
		})

		counts[i] = hi - lo
	}
	return counts
}

// sortChronologically orders entries by timestamp ascending, with the
// entry ID as tiebreak so evaluation order is reproducible.
func sortChronologically(entries []*audit.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
