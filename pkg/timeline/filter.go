// Package timeline selects chronological prefixes of commits and maps slider
// and narrative-step positions to cutoff instants.
package timeline

import (
	"sort"
	"time"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
)

// Until returns the maximal prefix of sorted commits whose timestamp is at or
// before cutoff. The result shares the backing array of the input.
func Until(sorted []commits.Summary, cutoff time.Time) []commits.Summary {
	n := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Timestamp.After(cutoff)
	})

	return sorted[:n:n]
}

// Between returns the commits with a timestamp inside [from, to].
func Between(sorted []commits.Summary, from, to time.Time) []commits.Summary {
	if to.Before(from) {
		return nil
	}

	start := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Timestamp.Before(from)
	})

	return Until(sorted[start:], to)
}
