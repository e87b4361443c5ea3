package authenticity

import (
	"sort"
	"time"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

// rapidAccessWindow is the gap below which two consecutive accesses are
// treated as a rapid, likely-automated pair.
const rapidAccessWindow = 60 * time.Second

// maxTrustedIPs is the number of distinct source IPs tolerated before the
// record counts as dispersed across too many locations. One unit is added
// regardless of how far past the threshold the count goes.
const maxTrustedIPs = 3

// SuspicionCount tallies anomalous access patterns in a record's history.
// The log may be empty and may be unsorted; it is never mutated here.
func SuspicionCount(log []records.AccessEntry) int {
	count := 0

	// Stable sort a copy ascending by timestamp; ties keep insertion order.
	sorted := make([]records.AccessEntry, len(log))
	copy(sorted, log)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp.Sub(sorted[i-1].Timestamp) < rapidAccessWindow {
			count++
		}
	}

	ips := make(map[string]struct{}, len(log))
	for _, e := range log {
		ips[e.IPAddress] = struct{}{}
	}
	if len(ips) > maxTrustedIPs {
		count++
	}

	return count
}
