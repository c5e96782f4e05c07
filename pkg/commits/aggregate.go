// Package commits groups per-line records into chronologically ordered
// commit summaries.
package commits

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
)

const (
	minutesPerHour = 60
	// HoursPerDay bounds HourFraction: values lie in [0, HoursPerDay).
	HoursPerDay = 24
)

// Summary is the aggregated view of all line records sharing a commit id.
type Summary struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"datetime"`
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url,omitempty"`
	// HourFraction is the time of day as hours in [0, 24).
	HourFraction float64 `json:"hour_fraction"`
	// TotalLines is the number of line records of the commit.
	TotalLines int              `json:"total_lines"`
	Lines      []loc.LineRecord `json:"lines"`
}

// Files returns the distinct files touched by the commit in encounter order.
func (s Summary) Files() []string {
	return lo.Uniq(lo.Map(s.Lines, func(line loc.LineRecord, _ int) string {
		return line.File
	}))
}

// Aggregate groups records by commit id and returns one summary per commit,
// sorted ascending by timestamp. Ties keep first-encounter order. Groups
// without a valid timestamp are skipped.
func Aggregate(records []loc.LineRecord) []Summary {
	order := make([]string, 0)
	groups := make(map[string][]loc.LineRecord)

	for _, rec := range records {
		if _, seen := groups[rec.CommitID]; !seen {
			order = append(order, rec.CommitID)
		}

		groups[rec.CommitID] = append(groups[rec.CommitID], rec)
	}

	out := make([]Summary, 0, len(order))

	for _, id := range order {
		lines := groups[id]

		first := lines[0]
		if first.Timestamp.IsZero() {
			continue
		}

		out = append(out, Summary{
			ID:           id,
			Timestamp:    first.Timestamp,
			Author:       first.Author,
			URL:          first.URL,
			HourFraction: HourFraction(first.Timestamp),
			TotalLines:   len(lines),
			Lines:        lines,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out
}

// HourFraction returns the time of day of ts, in its own zone, as hours.
func HourFraction(ts time.Time) float64 {
	return float64(ts.Hour()) + float64(ts.Minute())/minutesPerHour
}

// Flatten concatenates the line records of all commits in order.
func Flatten(commits []Summary) []loc.LineRecord {
	return lo.FlatMap(commits, func(c Summary, _ int) []loc.LineRecord {
		return c.Lines
	})
}

// ByID indexes commits by id.
func ByID(commits []Summary) map[string]Summary {
	return lo.KeyBy(commits, func(c Summary) string {
		return c.ID
	})
}

// TimeRange returns the first and last commit timestamps. It reports false
// for an empty sequence.
func TimeRange(commits []Summary) (time.Time, time.Time, bool) {
	if len(commits) == 0 {
		return time.Time{}, time.Time{}, false
	}

	return commits[0].Timestamp, commits[len(commits)-1].Timestamp, true
}
