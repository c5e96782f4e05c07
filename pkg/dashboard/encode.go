package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
)

// Default radius range of scatter points, in pixels.
const (
	DefaultRadiusMin = 2.0
	DefaultRadiusMax = 30.0
)

// Tableau10 is the categorical palette used for type tags.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// ScatterPoint is the encoding of one commit on the time-of-day scatterplot.
type ScatterPoint struct {
	ID     string    `json:"id"`
	X      time.Time `json:"x"`
	Y      float64   `json:"y"`
	R      float64   `json:"r"`
	Lines  int       `json:"lines"`
	Author string    `json:"author,omitempty"`
	URL    string    `json:"url,omitempty"`
}

// Dot is one line in a file-dot row.
type Dot struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// FileRow is the encoding of one file group.
type FileRow struct {
	File  string `json:"file"`
	Lines int    `json:"lines"`
	Dots  []Dot  `json:"dots"`
}

// RadiusScale is a square-root scale from line counts to radii.
type RadiusScale struct {
	domainMin, domainMax float64
	rangeMin, rangeMax   float64
}

// NewRadiusScale spans the line counts of subset.
func NewRadiusScale(subset []commits.Summary, rmin, rmax float64) RadiusScale {
	s := RadiusScale{rangeMin: rmin, rangeMax: rmax}
	if len(subset) == 0 {
		return s
	}

	lines := lo.Map(subset, func(c commits.Summary, _ int) int { return c.TotalLines })
	s.domainMin = float64(lo.Min(lines))
	s.domainMax = float64(lo.Max(lines))

	return s
}

// Radius maps a line count to a radius. A degenerate domain maps every count
// to the middle of the range.
func (s RadiusScale) Radius(lines int) float64 {
	low, high := math.Sqrt(s.domainMin), math.Sqrt(s.domainMax)
	if high <= low {
		return (s.rangeMin + s.rangeMax) / 2
	}

	t := (math.Sqrt(float64(lines)) - low) / (high - low)
	t = math.Max(0, math.Min(1, t))

	return s.rangeMin + t*(s.rangeMax-s.rangeMin)
}

// EncodeScatter returns one point per commit. Points are ordered largest
// first so small commits stay visible on top.
func EncodeScatter(subset []commits.Summary, scale RadiusScale) []ScatterPoint {
	out := make([]ScatterPoint, len(subset))

	for i, c := range subset {
		out[i] = ScatterPoint{
			ID:     c.ID,
			X:      c.Timestamp,
			Y:      c.HourFraction,
			R:      scale.Radius(c.TotalLines),
			Lines:  c.TotalLines,
			Author: c.Author,
			URL:    c.URL,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].R > out[j].R
	})

	return out
}

// ColorScale assigns palette colors to type tags in first-appearance order,
// cycling when the tags outnumber the palette.
type ColorScale struct {
	palette []string
	index   map[string]int
}

// NewColorScale creates an ordinal scale over types.
func NewColorScale(types []string, palette []string) ColorScale {
	if len(palette) == 0 {
		palette = Tableau10
	}

	s := ColorScale{palette: palette, index: make(map[string]int, len(types))}
	for _, t := range types {
		if _, ok := s.index[t]; !ok {
			s.index[t] = len(s.index)
		}
	}

	return s
}

// Color returns the color of a type tag. Unknown tags are appended to the
// domain on first use.
func (s ColorScale) Color(tag string) string {
	i, ok := s.index[tag]
	if !ok {
		i = len(s.index)
		s.index[tag] = i
	}

	return s.palette[i%len(s.palette)]
}

// Legend returns the tags of the scale with their colors, in domain order.
func (s ColorScale) Legend() []Dot {
	out := make([]Dot, len(s.index))
	for tag, i := range s.index {
		out[i] = Dot{Type: tag, Color: s.palette[i%len(s.palette)]}
	}

	return out
}

// EncodeFiles returns one row per file group, keeping the group order.
func EncodeFiles(groups []stats.FileGroup, colors ColorScale) []FileRow {
	out := make([]FileRow, len(groups))

	for i, g := range groups {
		dots := make([]Dot, len(g.Lines))
		for j, line := range g.Lines {
			tag := stats.LineType(line)
			dots[j] = Dot{Type: tag, Color: colors.Color(tag)}
		}

		out[i] = FileRow{File: g.File, Lines: g.Count(), Dots: dots}
	}

	return out
}
