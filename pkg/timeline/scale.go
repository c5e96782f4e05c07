package timeline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
)

// Progress bounds of the slider.
const (
	ProgressMin = 0.0
	ProgressMax = 100.0
)

// ErrEmptyDomain indicates a scale was requested for zero commits.
var ErrEmptyDomain = errors.New("time scale needs at least one commit")

// ErrInvalidProgress indicates a progress value that is not a number.
var ErrInvalidProgress = errors.New("progress must be a number")

// Scale maps commit time linearly onto slider progress [0, 100].
type Scale struct {
	from time.Time
	to   time.Time
}

// NewScale creates a scale spanning the first and last commit.
func NewScale(sorted []commits.Summary) (Scale, error) {
	from, to, ok := commits.TimeRange(sorted)
	if !ok {
		return Scale{}, ErrEmptyDomain
	}

	return Scale{from: from, to: to}, nil
}

// Domain returns the first and last instants of the scale.
func (s Scale) Domain() (time.Time, time.Time) {
	return s.from, s.to
}

// Invert maps a progress value to an instant. Progress is clamped to
// [0, 100]; a single-instant domain always maps to that instant.
func (s Scale) Invert(progress float64) (time.Time, error) {
	if math.IsNaN(progress) {
		return time.Time{}, ErrInvalidProgress
	}

	progress = math.Max(ProgressMin, math.Min(ProgressMax, progress))

	span := s.to.Sub(s.from)
	if span <= 0 {
		return s.to, nil
	}

	if progress == ProgressMax {
		return s.to, nil
	}

	offset := time.Duration(float64(span) * progress / ProgressMax)

	return s.from.Add(offset), nil
}

// Progress maps an instant to a progress value in [0, 100].
func (s Scale) Progress(ts time.Time) float64 {
	span := s.to.Sub(s.from)
	if span <= 0 {
		return ProgressMax
	}

	p := float64(ts.Sub(s.from)) / float64(span) * ProgressMax

	return math.Max(ProgressMin, math.Min(ProgressMax, p))
}

// String describes the scale domain.
func (s Scale) String() string {
	return fmt.Sprintf("%s .. %s", s.from.Format(time.RFC3339), s.to.Format(time.RFC3339))
}
