package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
)

// ErrInvalidCutoff is returned for an unparseable cutoff parameter.
var ErrInvalidCutoff = errors.New("cutoff must be an RFC 3339 timestamp")

// ViewParams are the query parameters shared by the page and the API.
// Step wins over cutoff, cutoff over progress.
type ViewParams struct {
	Progress *float64 `form:"progress"`
	Cutoff   string   `form:"cutoff"`
	Step     *int     `form:"step"`
	Brush    string   `form:"brush"`
}

// apply replays the parameters as controller events.
func (p *ViewParams) apply(ctrl *dashboard.Controller) error {
	if len(ctrl.Commits()) == 0 {
		return nil
	}

	var err error

	switch {
	case p.Step != nil:
		err = ctrl.EnterStep(*p.Step)
	case p.Cutoff != "":
		var ts time.Time

		ts, err = time.Parse(time.RFC3339, p.Cutoff)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCutoff, p.Cutoff)
		}

		err = ctrl.SetCutoff(ts)
	case p.Progress != nil:
		err = ctrl.SetProgress(*p.Progress)
	}

	if err != nil {
		return err
	}

	if p.Brush == "" {
		return nil
	}

	rect, err := dashboard.ParseRect(p.Brush)
	if err != nil {
		return err
	}

	return ctrl.Brush(rect)
}
