package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
	"github.com/Sumatoshi-tech/locmeta/pkg/timeline"
)

// ErrInvalidBrush indicates a brush rectangle that cannot be parsed.
var ErrInvalidBrush = errors.New("invalid brush")

const brushFields = 4

// Rect is a brush selection in data space: a time interval on the x axis and
// an hour interval on the y axis. Bounds are inclusive.
type Rect struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	HourFrom float64   `json:"hour_from"`
	HourTo   float64   `json:"hour_to"`
}

// Normalize orders both intervals.
func (r Rect) Normalize() Rect {
	if r.To.Before(r.From) {
		r.From, r.To = r.To, r.From
	}

	if r.HourTo < r.HourFrom {
		r.HourFrom, r.HourTo = r.HourTo, r.HourFrom
	}

	return r
}

// Contains reports whether a commit lies inside the rectangle.
func (r Rect) Contains(c commits.Summary) bool {
	return !c.Timestamp.Before(r.From) && !c.Timestamp.After(r.To) &&
		c.HourFraction >= r.HourFrom && c.HourFraction <= r.HourTo
}

// String renders the rectangle in the form accepted by ParseRect.
func (r Rect) String() string {
	return strings.Join([]string{
		r.From.Format(time.RFC3339Nano),
		r.To.Format(time.RFC3339Nano),
		strconv.FormatFloat(r.HourFrom, 'f', -1, 64),
		strconv.FormatFloat(r.HourTo, 'f', -1, 64),
	}, ",")
}

// ParseRect parses "from,to,hourFrom,hourTo" with RFC 3339 instants.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != brushFields {
		return Rect{}, fmt.Errorf("%w: want %d fields, got %d", ErrInvalidBrush, brushFields, len(parts))
	}

	from, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(parts[0]))
	if err != nil {
		return Rect{}, fmt.Errorf("%w: from: %w", ErrInvalidBrush, err)
	}

	to, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(parts[1]))
	if err != nil {
		return Rect{}, fmt.Errorf("%w: to: %w", ErrInvalidBrush, err)
	}

	hourFrom, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return Rect{}, fmt.Errorf("%w: hour from: %w", ErrInvalidBrush, err)
	}

	hourTo, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return Rect{}, fmt.Errorf("%w: hour to: %w", ErrInvalidBrush, err)
	}

	return Rect{From: from, To: to, HourFrom: hourFrom, HourTo: hourTo}.Normalize(), nil
}

// Selection is the result of brushing the visible commits.
type Selection struct {
	Active  bool          `json:"active"`
	IDs     []string      `json:"ids"`
	Stats   stats.Summary `json:"stats"`
	Message string        `json:"message"`
}

// Select returns the commits of the sorted subset inside r, with their
// statistics.
func Select(subset []commits.Summary, r *Rect) Selection {
	if r == nil {
		return Selection{IDs: []string{}, Stats: stats.Compute(nil), Message: "No commits selected"}
	}

	picked := make([]commits.Summary, 0)

	for _, c := range timeline.Between(subset, r.From, r.To) {
		if r.Contains(c) {
			picked = append(picked, c)
		}
	}

	ids := make([]string, len(picked))
	for i, c := range picked {
		ids[i] = c.ID
	}

	msg := "No commits selected"

	switch len(picked) {
	case 0:
	case 1:
		msg = "1 commit selected"
	default:
		msg = stats.FormatCount(len(picked)) + " commits selected"
	}

	return Selection{Active: true, IDs: ids, Stats: stats.Compute(picked), Message: msg}
}
