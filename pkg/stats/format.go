package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Placeholder is shown for values that do not exist in an empty subset.
const Placeholder = "–"

const percentScale = 100

// Card is one labelled statistic as shown on the dashboard.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatPercent renders a proportion in [0, 1] as a percentage.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Placeholder
	}

	return humanize.FormatFloat("#.#", p*percentScale) + "%"
}

// FormatAverage renders a mean value, or the placeholder when nothing was measured.
func FormatAverage(v float64) string {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}

	return humanize.FormatFloat("#,###.#", v)
}

// FormatFile renders the most active file as "path (N lines)".
func FormatFile(f *FileCount) string {
	if f == nil {
		return Placeholder
	}

	return fmt.Sprintf("%s (%s)", f.File, Lines(f.Lines))
}

// FormatCommit renders the largest commit as "id (N lines)".
func FormatCommit(c *CommitSize) string {
	if c == nil {
		return Placeholder
	}

	return fmt.Sprintf("%s (%s)", ShortID(c.ID), Lines(c.Lines))
}

// Lines renders a line count with its unit.
func Lines(n int) string {
	if n == 1 {
		return "1 line"
	}

	return FormatCount(n) + " lines"
}

// ShortID abbreviates a commit hash to seven characters.
func ShortID(id string) string {
	const short = 7
	if len(id) <= short {
		return id
	}

	return id[:short]
}

// FormatList joins values, or returns the placeholder for an empty list.
func FormatList(values []string) string {
	if len(values) == 0 {
		return Placeholder
	}

	return strings.Join(values, ", ")
}

// Cards returns the labelled statistics of s in display order.
func Cards(s Summary) []Card {
	var maxDepth, longest string

	if s.Empty() {
		maxDepth, longest = Placeholder, Placeholder
	} else {
		maxDepth, longest = FormatCount(s.MaxDepth), FormatCount(s.LongestLine)
	}

	return []Card{
		{Label: "Commits", Value: FormatCount(s.TotalCommits)},
		{Label: "Lines", Value: FormatCount(s.TotalLines)},
		{Label: "Files", Value: FormatCount(s.DistinctFiles)},
		{Label: "Authors", Value: FormatCount(s.Authors)},
		{Label: "Largest commit", Value: FormatCommit(s.LargestCommit)},
		{Label: "Most active file", Value: FormatFile(s.MostActiveFile)},
		{Label: "Max depth", Value: maxDepth},
		{Label: "Longest line", Value: longest},
		{Label: "Average line length", Value: FormatAverage(s.AverageLineLength)},
		{Label: "Technologies", Value: FormatList(s.Technologies)},
	}
}
