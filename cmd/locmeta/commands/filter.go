package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
)

// ErrConflictingFilter is returned when more than one of --cutoff, --progress
// and --step is set.
var ErrConflictingFilter = errors.New("--cutoff, --progress and --step are mutually exclusive")

type filterFlags struct {
	cutoff   string
	progress float64
	step     int
	brush    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cutoff, "cutoff", "", "show commits up to this RFC 3339 instant")
	cmd.Flags().Float64Var(&f.progress, "progress", 0, "slider position in [0, 100]")
	cmd.Flags().IntVar(&f.step, "step", 0, "narrative step index")
	cmd.Flags().StringVar(&f.brush, "brush", "", "brush rectangle: from,to,hourFrom,hourTo")
}

// view loads all into a controller, applies the flags that were set and
// returns the resulting frame.
func (f *filterFlags) view(cmd *cobra.Command, all []commits.Summary, opts dashboard.Options) (dashboard.View, error) {
	ctrl := dashboard.NewController(opts)
	ctrl.Load(all)

	if len(all) == 0 {
		return ctrl.View().Detach(), nil
	}

	err := f.apply(cmd, ctrl)
	if err != nil {
		return dashboard.View{}, err
	}

	return ctrl.View().Detach(), nil
}

func (f *filterFlags) apply(cmd *cobra.Command, ctrl *dashboard.Controller) error {
	set := 0

	for _, name := range []string{"cutoff", "progress", "step"} {
		if cmd.Flags().Changed(name) {
			set++
		}
	}

	if set > 1 {
		return ErrConflictingFilter
	}

	var err error

	switch {
	case cmd.Flags().Changed("cutoff"):
		var ts time.Time

		ts, err = time.Parse(time.RFC3339, f.cutoff)
		if err != nil {
			return fmt.Errorf("parse --cutoff: %w", err)
		}

		err = ctrl.SetCutoff(ts)
	case cmd.Flags().Changed("progress"):
		err = ctrl.SetProgress(f.progress)
	case cmd.Flags().Changed("step"):
		err = ctrl.EnterStep(f.step)
	}

	if err != nil {
		return err
	}

	if f.brush == "" {
		return nil
	}

	rect, err := dashboard.ParseRect(f.brush)
	if err != nil {
		return err
	}

	return ctrl.Brush(rect)
}

func dashboardOptions(e *env) dashboard.Options {
	return dashboard.Options{
		RadiusMin: e.cfg.Dashboard.RadiusMin,
		RadiusMax: e.cfg.Dashboard.RadiusMax,
		Location:  e.loc,
	}
}
