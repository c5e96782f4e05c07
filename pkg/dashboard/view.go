package dashboard

import (
	"time"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
	"github.com/Sumatoshi-tech/locmeta/pkg/timeline"
)

// MsgNoData is the empty-state message when nothing is loaded.
const MsgNoData = "No data"

// View is one rendered frame of the dashboard.
type View struct {
	State State `json:"state"`
	// Cutoff is nil when the full range is shown.
	Cutoff   *time.Time `json:"cutoff,omitempty"`
	Label    string     `json:"label"`
	Progress float64    `json:"progress"`
	// Step is the entered narrative step, else the index of the last
	// visible commit, or -1.
	Step  int       `json:"step"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Total int       `json:"total"`

	Commits []commits.Summary `json:"-"`
	Stats   stats.Summary     `json:"stats"`
	Cards   []stats.Card      `json:"cards"`
	Files   []stats.FileGroup `json:"-"`

	Scatter  []ScatterPoint  `json:"scatter"`
	FileRows []FileRow       `json:"files"`
	Legend   []Dot           `json:"legend"`
	Steps    []timeline.Step `json:"steps"`

	Brush     *Rect     `json:"brush,omitempty"`
	Selection Selection `json:"selection"`

	// Message is set when the view is empty.
	Message string `json:"message,omitempty"`

	// Frame and the diffs are relative to the previous View call on the same
	// controller. Detach clears them for one-shot views.
	Frame      uint64 `json:"frame,omitempty"`
	CommitDiff *Diff  `json:"commit_diff,omitempty"`
	FileDiff   *Diff  `json:"file_diff,omitempty"`
}

// Detach clears the frame counter and the diffs.
func (v View) Detach() View {
	v.Frame = 0
	v.CommitDiff = nil
	v.FileDiff = nil

	return v
}

// Empty reports whether no commit is visible.
func (v View) Empty() bool {
	return len(v.Commits) == 0
}

func build(
	state State, all []commits.Summary, scale timeline.Scale,
	cutoff *time.Time, step *int, brush *Rect, opts Options,
) View {
	v := View{State: state, Step: -1, Total: len(all), Progress: timeline.ProgressMax}

	visible := all
	if cutoff != nil {
		visible = timeline.Until(all, *cutoff)
		v.Cutoff = cutoff
		v.Progress = scale.Progress(*cutoff)
	}

	v.From, v.To, _ = commits.TimeRange(all)

	switch {
	case cutoff != nil:
		v.Label = timeline.Label(inZone(*cutoff, opts.Location))
	case len(all) > 0:
		v.Label = timeline.Label(inZone(v.To, opts.Location))
	}

	v.Commits = visible
	v.Step = stepIndex(all, cutoff, step)
	v.Stats = stats.Compute(visible)
	v.Cards = stats.Cards(v.Stats)
	v.Files = stats.GroupFiles(visible)

	colors := NewColorScale(v.Stats.Technologies, opts.Palette)
	v.Scatter = EncodeScatter(visible, NewRadiusScale(visible, opts.RadiusMin, opts.RadiusMax))
	v.FileRows = EncodeFiles(v.Files, colors)
	v.Legend = colors.Legend()
	v.Steps = timeline.Steps(all)

	v.Brush = brush
	v.Selection = Select(visible, brush)

	switch {
	case len(all) == 0:
		v.Message = MsgNoData
	case len(visible) == 0:
		v.Message = "No commits before " + v.Label
	}

	return v
}

func stepIndex(all []commits.Summary, cutoff *time.Time, step *int) int {
	switch {
	case step != nil:
		return *step
	case cutoff != nil:
		return len(timeline.Until(all, *cutoff)) - 1
	default:
		return len(all) - 1
	}
}

func inZone(ts time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return ts
	}

	return ts.In(loc)
}
