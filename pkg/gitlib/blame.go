package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Hunk is a run of consecutive lines last changed by one commit.
type Hunk struct {
	Commit Hash
	// Start is the 1-based first line of the hunk in the blamed revision.
	Start  int
	Lines  int
	Author Signature
}

// Blame attributes every line of path at revision to the commit that last
// changed it. Hunks are returned in line order.
func (r *Repository) Blame(path string, revision Hash) ([]Hunk, error) {
	opts, err := git2go.DefaultBlameOptions()
	if err != nil {
		return nil, fmt.Errorf("blame options: %w", err)
	}

	opts.NewestCommit = revision.ToOid()

	blame, err := r.repo.BlameFile(path, &opts)
	if err != nil {
		return nil, fmt.Errorf("blame %s: %w", path, err)
	}
	defer blame.Free()

	count := blame.HunkCount()
	hunks := make([]Hunk, 0, count)

	for i := range count {
		h, err := blame.HunkByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("blame %s hunk %d: %w", path, i, err)
		}

		hunks = append(hunks, Hunk{
			Commit: HashFromOid(h.FinalCommitId),
			Start:  int(h.FinalStartLineNumber),
			Lines:  int(h.LinesInHunk),
			Author: signatureFrom(h.FinalSignature),
		})
	}

	return hunks, nil
}

// LineCommits expands hunks into one entry per line, indexed from 0.
func LineCommits(hunks []Hunk) []Hunk {
	total := 0
	for _, h := range hunks {
		total = max(total, h.Start+h.Lines-1)
	}

	out := make([]Hunk, total)

	for _, h := range hunks {
		for n := range h.Lines {
			line := h.Start + n
			if line >= 1 {
				out[line-1] = Hunk{Commit: h.Commit, Start: line, Lines: 1, Author: h.Author}
			}
		}
	}

	return out
}
