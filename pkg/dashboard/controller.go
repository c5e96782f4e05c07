// Package dashboard binds the commit model to its visual encodings. A
// Controller owns the loaded commits and the filter state; every interaction
// recomputes the filtered prefix, its statistics and file groups, and the
// scatter and file-dot encodings.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
	"github.com/Sumatoshi-tech/locmeta/pkg/timeline"
)

// Sentinel errors for controller events.
var (
	ErrNotLoaded    = errors.New("dashboard has no data loaded")
	ErrEmptyDataset = errors.New("dataset contains no commits")
)

// State is the lifecycle state of a controller.
type State int

// Controller states.
const (
	Idle State = iota
	Ready
	Filtered
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Filtered:
		return "filtered"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options configures the encodings of a controller.
type Options struct {
	RadiusMin float64
	RadiusMax float64
	Palette   []string
	// Location is used for labels. Nil keeps each timestamp's own zone.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.RadiusMin <= 0 {
		o.RadiusMin = DefaultRadiusMin
	}

	if o.RadiusMax <= o.RadiusMin {
		o.RadiusMax = max(DefaultRadiusMax, o.RadiusMin)
	}

	if len(o.Palette) == 0 {
		o.Palette = Tableau10
	}

	return o
}

// Controller owns the full commit list and the filter state.
type Controller struct {
	opts Options

	mu     sync.Mutex
	state  State
	all    []commits.Summary
	scale  timeline.Scale
	cutoff *time.Time
	step   *int
	brush  *Rect
	frame  uint64

	prevCommits []string
	prevFiles   []string

	dirty chan struct{}
}

// NewController creates an idle controller.
func NewController(opts Options) *Controller {
	return &Controller{
		opts:  opts.withDefaults(),
		dirty: make(chan struct{}, 1),
	}
}

// Load replaces the commit list and resets the filter. The slice must be
// sorted chronologically and is not modified.
func (c *Controller) Load(all []commits.Summary) {
	c.mu.Lock()
	c.all = all
	c.scale, _ = timeline.NewScale(all)
	c.cutoff = nil
	c.step = nil
	c.brush = nil
	c.state = Ready
	c.mu.Unlock()

	c.notify()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Commits returns the full loaded commit list.
func (c *Controller) Commits() []commits.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.all
}

// SetCutoff applies a cutoff instant. Every control surface ends here.
func (c *Controller) SetCutoff(cutoff time.Time) error {
	return c.setCutoff(cutoff, nil)
}

// setCutoff records the cutoff and, for narrative steps, the entered index.
// Commits sharing a timestamp are all visible at that cutoff, so the index
// cannot be derived from the visible prefix.
func (c *Controller) setCutoff(cutoff time.Time, step *int) error {
	c.mu.Lock()

	if c.state == Idle {
		c.mu.Unlock()

		return ErrNotLoaded
	}

	c.cutoff = &cutoff
	c.step = step
	c.state = Filtered
	c.mu.Unlock()

	c.notify()

	return nil
}

// SetProgress maps a slider position in [0, 100] to a cutoff.
func (c *Controller) SetProgress(progress float64) error {
	c.mu.Lock()
	state, scale, n := c.state, c.scale, len(c.all)
	c.mu.Unlock()

	if state == Idle {
		return ErrNotLoaded
	}

	if n == 0 {
		return ErrEmptyDataset
	}

	cutoff, err := scale.Invert(progress)
	if err != nil {
		return fmt.Errorf("set progress: %w", err)
	}

	return c.SetCutoff(cutoff)
}

// EnterStep jumps the cutoff to the commit bound to narrative step i.
func (c *Controller) EnterStep(i int) error {
	c.mu.Lock()
	state, all := c.state, c.all
	c.mu.Unlock()

	if state == Idle {
		return ErrNotLoaded
	}

	step, err := timeline.StepAt(all, i)
	if err != nil {
		return fmt.Errorf("enter step: %w", err)
	}

	return c.setCutoff(step.Cutoff, &i)
}

// Brush selects the visible commits inside r.
func (c *Controller) Brush(r Rect) error {
	c.mu.Lock()

	if c.state == Idle {
		c.mu.Unlock()

		return ErrNotLoaded
	}

	r = r.Normalize()
	c.brush = &r
	c.mu.Unlock()

	c.notify()

	return nil
}

// ClearBrush removes the brush selection.
func (c *Controller) ClearBrush() {
	c.mu.Lock()
	c.brush = nil
	c.mu.Unlock()

	c.notify()
}

// Reset clears cutoff and brush and returns to the full range.
func (c *Controller) Reset() {
	c.mu.Lock()

	if c.state != Idle {
		c.state = Ready
	}

	c.cutoff = nil
	c.step = nil
	c.brush = nil
	c.mu.Unlock()

	c.notify()
}

// Progress returns the slider position of the current cutoff.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cutoff == nil {
		return timeline.ProgressMax
	}

	return c.scale.Progress(*c.cutoff)
}

// Step returns the current narrative step: the entered index after EnterStep,
// otherwise the index of the last visible commit. It is -1 when nothing is
// visible.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return stepIndex(c.all, c.cutoff, c.step)
}

// View computes the derived views of the current state and advances the
// frame. Diffs are relative to the previous call.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := build(c.state, c.all, c.scale, c.cutoff, c.step, c.brush, c.opts)

	commitDiff := Reconcile(c.prevCommits, v.Commits, commitKey)
	fileDiff := Reconcile(c.prevFiles, v.Files, fileKey)

	c.frame++
	v.Frame = c.frame
	v.CommitDiff = &commitDiff
	v.FileDiff = &fileDiff
	c.prevCommits = Keys(v.Commits, commitKey)
	c.prevFiles = Keys(v.Files, fileKey)

	return v
}

// Run renders the latest view whenever the state changed since the last
// render. Events arriving during a render collapse into a single follow-up
// render. Run returns when ctx is done or render fails.
func (c *Controller) Run(ctx context.Context, render func(View) error) error {
	for {
		v, err := c.Next(ctx)
		if err != nil {
			return err
		}

		err = render(v)
		if err != nil {
			return fmt.Errorf("render frame: %w", err)
		}
	}
}

// Next blocks until the state changed since the last frame and returns the
// latest view. Changes made while no caller waits collapse into one frame.
func (c *Controller) Next(ctx context.Context) (View, error) {
	select {
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-c.dirty:
		return c.View(), nil
	}
}

func (c *Controller) notify() {
	select {
	case c.dirty <- struct{}{}:
	default:
	}
}

func commitKey(s commits.Summary) string { return s.ID }

func fileKey(g stats.FileGroup) string { return g.File }
