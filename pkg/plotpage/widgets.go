package plotpage

import (
	"fmt"
	"io"
	"maps"
	"net/url"
	"slices"
	"strconv"
)

// Dot is one colored line marker of a file row.
type Dot struct {
	Type  string
	Color string
}

// FileDotRow is one file with a dot per changed line.
type FileDotRow struct {
	File  string
	Lines int
	Dots  []Dot
}

// FileDots renders the per-file line-dot display.
type FileDots struct {
	Rows []FileDotRow
	// Hidden counts rows omitted by a display limit.
	Hidden int
	Legend []Dot
}

type fileDotsData struct {
	Rows   []FileDotRow
	Hidden int
	Legend []Dot
}

// Render writes the file-dot grid HTML.
func (f *FileDots) Render(w io.Writer) error {
	return write(w, mustRenderTemplate("filedots.html", fileDotsData(*f)), "file dots")
}

// Slider renders the cutoff slider as a GET form. It submits the chosen
// progress to Action and keeps the extra query parameters.
type Slider struct {
	Action   string
	Progress float64
	Step     float64
	Label    string
	Keep     url.Values
}

type sliderData struct {
	Action   string
	Progress string
	Step     string
	Label    string
	Hidden   []hiddenField
	ResetURL string
}

type hiddenField struct {
	Name  string
	Value string
}

// Render writes the slider HTML.
func (s *Slider) Render(w io.Writer) error {
	step := s.Step
	if step <= 0 {
		step = 1
	}

	var hidden []hiddenField

	for _, name := range slices.Sorted(maps.Keys(s.Keep)) {
		for _, v := range s.Keep[name] {
			hidden = append(hidden, hiddenField{Name: name, Value: v})
		}
	}

	return write(w, mustRenderTemplate("slider.html", sliderData{
		Action:   s.Action,
		Progress: strconv.FormatFloat(s.Progress, 'f', -1, 64),
		Step:     strconv.FormatFloat(step, 'f', -1, 64),
		Label:    s.Label,
		Hidden:   hidden,
		ResetURL: s.Action,
	}), "slider")
}

// StepItem is one narrative step.
type StepItem struct {
	Index     int
	Text      string
	URL       string
	Active    bool
	CommitURL string
}

// StepList renders the narrative steps; each links to its cutoff.
type StepList struct {
	Items []StepItem
}

// Render writes the step list HTML.
func (s *StepList) Render(w io.Writer) error {
	return write(w, mustRenderTemplate("steps.html", s), "steps")
}

// ProfileCard renders a GitHub profile summary or an inline error.
type ProfileCard struct {
	Login     string
	Name      string
	URL       string
	AvatarURL string
	Counts    []Stat
	Err       string
}

// Render writes the profile card HTML.
func (p *ProfileCard) Render(w io.Writer) error {
	return write(w, mustRenderTemplate("profile.html", p), "profile")
}

// StepURL returns base with the step query parameter set.
func StepURL(base string, index int) string {
	return fmt.Sprintf("%s?step=%d", base, index)
}
