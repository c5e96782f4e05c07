package stats

import (
	"sort"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
)

// FileGroup is the set of lines of one file within a commit subset.
type FileGroup struct {
	File  string           `json:"file"`
	Lines []loc.LineRecord `json:"lines"`
}

// Count returns the number of lines in the group.
func (g FileGroup) Count() int {
	return len(g.Lines)
}

// Types returns the distinct type tags of the group in line order.
func (g FileGroup) Types() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 1)

	for _, line := range g.Lines {
		tag := LineType(line)
		if _, ok := seen[tag]; ok {
			continue
		}

		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}

// GroupFiles groups the lines of subset by file, ordered by descending line
// count. Files with equal counts keep first-encounter order.
func GroupFiles(subset []commits.Summary) []FileGroup {
	index := map[string]int{}
	groups := make([]FileGroup, 0)

	for _, c := range subset {
		for _, line := range c.Lines {
			i, ok := index[line.File]
			if !ok {
				i = len(groups)
				index[line.File] = i
				groups = append(groups, FileGroup{File: line.File})
			}

			groups[i].Lines = append(groups[i].Lines, line)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Lines) > len(groups[j].Lines)
	})

	return groups
}
