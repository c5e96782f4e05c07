// Package loc reads and writes per-line commit logs (loc.csv): one row per
// surviving source line, attributed to the commit that last touched it.
package loc

import (
	"strconv"
	"time"
)

// Unknown marks a numeric field that could not be parsed.
const Unknown Metric = -1

// Metric is a non-negative integer field of a line record. Unparseable values
// are stored as Unknown and must be treated as absent by consumers.
type Metric int

// Valid reports whether the metric holds a parsed value.
func (m Metric) Valid() bool {
	return m >= 0
}

// OrZero returns the value, or zero when the metric is Unknown.
func (m Metric) OrZero() int {
	if !m.Valid() {
		return 0
	}

	return int(m)
}

// String renders the value, or an empty string when the metric is Unknown.
func (m Metric) String() string {
	if !m.Valid() {
		return ""
	}

	return strconv.Itoa(int(m))
}

// LineRecord is one changed source line attributed to one commit and one file.
type LineRecord struct {
	CommitID  string    `json:"commit"`
	File      string    `json:"file"`
	Line      Metric    `json:"line"`
	Length    Metric    `json:"length"`
	Depth     Metric    `json:"depth"`
	Timestamp time.Time `json:"datetime"`
	Author    string    `json:"author,omitempty"`
	Type      string    `json:"type"`
	URL       string    `json:"url,omitempty"`
}
