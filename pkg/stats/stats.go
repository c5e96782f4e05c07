// Package stats computes summary statistics over a filtered commit subset and
// formats them for display.
package stats

import (
	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
)

// FileCount is a file together with its number of changed lines.
type FileCount struct {
	File  string `json:"file"`
	Lines int    `json:"lines"`
}

// CommitSize is a commit together with its number of changed lines.
type CommitSize struct {
	ID    string `json:"id"`
	Lines int    `json:"lines"`
}

// TypeShare is one entry of the type breakdown.
type TypeShare struct {
	Type       string  `json:"type"`
	Lines      int     `json:"lines"`
	Proportion float64 `json:"proportion"`
}

// Summary holds the statistics of one commit subset.
type Summary struct {
	TotalCommits  int `json:"total_commits"`
	TotalLines    int `json:"total_lines"`
	DistinctFiles int `json:"distinct_files"`
	// MostActiveFile is nil for an empty subset. Ties resolve to the file
	// encountered first.
	MostActiveFile *FileCount `json:"most_active_file"`
	// TypeBreakdown maps each type tag to its share of lines; values sum to 1.
	TypeBreakdown map[string]float64 `json:"type_breakdown"`
	// Types lists the breakdown in first-appearance order.
	Types         []TypeShare `json:"types"`
	LargestCommit *CommitSize `json:"largest_commit"`
	Authors       int         `json:"authors"`
	// Technologies lists the distinct type tags in first-appearance order.
	Technologies      []string `json:"technologies"`
	MaxDepth          int      `json:"max_depth"`
	LongestLine       int      `json:"longest_line"`
	AverageLineLength float64  `json:"average_line_length"`
}

// Empty reports whether the summary describes no commits.
func (s Summary) Empty() bool {
	return s.TotalCommits == 0
}

// Compute derives the summary statistics of subset. Unknown metrics are
// ignored for depth and length figures.
func Compute(subset []commits.Summary) Summary {
	out := Summary{
		TypeBreakdown: map[string]float64{},
		Types:         []TypeShare{},
		Technologies:  []string{},
	}

	if len(subset) == 0 {
		return out
	}

	out.TotalCommits = len(subset)

	var (
		fileOrder  []string
		fileLines  = map[string]int{}
		typeIndex  = map[string]int{}
		authors    = map[string]struct{}{}
		lengthSum  int
		lengthSeen int
	)

	for _, c := range subset {
		out.TotalLines += c.TotalLines

		if out.LargestCommit == nil || c.TotalLines > out.LargestCommit.Lines {
			out.LargestCommit = &CommitSize{ID: c.ID, Lines: c.TotalLines}
		}

		if c.Author != "" {
			authors[c.Author] = struct{}{}
		}

		for _, line := range c.Lines {
			if _, seen := fileLines[line.File]; !seen {
				fileOrder = append(fileOrder, line.File)
			}

			fileLines[line.File]++

			addType(&out, typeIndex, LineType(line))

			if line.Depth.Valid() {
				out.MaxDepth = max(out.MaxDepth, int(line.Depth))
			}

			if line.Length.Valid() {
				out.LongestLine = max(out.LongestLine, int(line.Length))
				lengthSum += int(line.Length)
				lengthSeen++
			}
		}
	}

	out.DistinctFiles = len(fileOrder)
	out.Authors = len(authors)
	out.MostActiveFile = mostActive(fileOrder, fileLines)

	if lengthSeen > 0 {
		out.AverageLineLength = float64(lengthSum) / float64(lengthSeen)
	}

	lineCount := lo.SumBy(out.Types, func(t TypeShare) int { return t.Lines })
	for i := range out.Types {
		out.Types[i].Proportion = float64(out.Types[i].Lines) / float64(lineCount)
		out.TypeBreakdown[out.Types[i].Type] = out.Types[i].Proportion
	}

	return out
}

func addType(out *Summary, index map[string]int, tag string) {
	i, seen := index[tag]
	if !seen {
		i = len(out.Types)
		index[tag] = i
		out.Types = append(out.Types, TypeShare{Type: tag})
		out.Technologies = append(out.Technologies, tag)
	}

	out.Types[i].Lines++
}

func mostActive(order []string, counts map[string]int) *FileCount {
	var best *FileCount

	for _, file := range order {
		if best == nil || counts[file] > best.Lines {
			best = &FileCount{File: file, Lines: counts[file]}
		}
	}

	return best
}

// LineType returns the type tag of a line, deriving it from the path when the
// record carries none.
func LineType(line loc.LineRecord) string {
	if line.Type != "" {
		return line.Type
	}

	return loc.TypeOf(line.File)
}
