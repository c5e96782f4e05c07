package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
)

// LabelLayout formats cutoff instants for display ("January 2, 2006 at 3:04 PM").
const LabelLayout = "January 2, 2006 at 3:04 PM"

// ErrStepOutOfRange indicates a narrative step index outside the commit list.
var ErrStepOutOfRange = errors.New("step index out of range")

// Step is one narrative position, bound 1:1 to a commit.
type Step struct {
	Index     int       `json:"index"`
	CommitID  string    `json:"commit"`
	Cutoff    time.Time `json:"cutoff"`
	Narrative string    `json:"narrative"`
	URL       string    `json:"url,omitempty"`
}

// Steps returns one step per commit, in chronological order.
func Steps(sorted []commits.Summary) []Step {
	out := make([]Step, len(sorted))

	for i, c := range sorted {
		out[i] = Step{
			Index:     i,
			CommitID:  c.ID,
			Cutoff:    c.Timestamp,
			Narrative: narrative(i, c),
			URL:       c.URL,
		}
	}

	return out
}

// StepAt returns the step bound to the commit at index i.
func StepAt(sorted []commits.Summary, i int) (Step, error) {
	if i < 0 || i >= len(sorted) {
		return Step{}, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, i, len(sorted))
	}

	return Step{
		Index:     i,
		CommitID:  sorted[i].ID,
		Cutoff:    sorted[i].Timestamp,
		Narrative: narrative(i, sorted[i]),
		URL:       sorted[i].URL,
	}, nil
}

// Label formats a cutoff instant for display.
func Label(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}

	return ts.Format(LabelLayout)
}

func narrative(i int, c commits.Summary) string {
	what := "another commit"
	if i == 0 {
		what = "my first commit"
	}

	files := len(c.Files())

	return fmt.Sprintf("On %s, I made %s. I edited %s %s across %s %s.",
		Label(c.Timestamp), what,
		humanize.Comma(int64(c.TotalLines)), plural(c.TotalLines, "line", "lines"),
		humanize.Comma(int64(files)), plural(files, "file", "files"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
