package plotpage

import (
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	pieRadius        = "60%"
	emptyChartHeight = "200px"
)

// ScatterPoint is one commit on the time-of-day scatterplot.
type ScatterPoint struct {
	Name  string
	Time  time.Time
	Hour  float64
	Lines int
	// Radius in pixels; echarts symbol sizes are diameters.
	Radius float64
}

// PieSlice is one named share of a pie chart.
type PieSlice struct {
	Name  string
	Value int
	Color string
}

// BuildScatterChart builds the commit scatterplot: commit time on x, hour of
// day on y, symbol size from the commit radius.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildScatterChart(cOpts *ChartOpts, points []ScatterPoint) *charts.Scatter {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	scatter := charts.NewScatter()

	if len(points) == 0 {
		scatter.SetGlobalOptions(
			charts.WithInitializationOpts(cOpts.Init("100%", emptyChartHeight)),
			charts.WithTitleOpts(cOpts.Title("Commits by time of day", "No data")),
		)

		return scatter
	}

	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init("100%", "500px")),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithXAxisOpts(cOpts.TimeAxis("Date")),
		charts.WithYAxisOpts(cOpts.HourAxis("Time of day")),
		charts.WithGridOpts(cOpts.Grid()),
	)

	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{
			Name:       p.Name,
			Value:      []any{p.Time.UnixMilli(), p.Hour, p.Lines},
			SymbolSize: int(math.Round(2 * p.Radius)),
		}
	}

	scatter.AddSeries("Commits", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cOpts.PointColor()}),
	)

	return scatter
}

// BuildPieChart builds a labelled pie chart.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildPieChart(cOpts *ChartOpts, name string, slices []PieSlice) *charts.Pie {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithInitializationOpts(cOpts.Init("100%", "400px")),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		data[i] = opts.PieData{Name: s.Name, Value: s.Value}
		if s.Color != "" {
			data[i].ItemStyle = &opts.ItemStyle{Color: s.Color}
		}
	}

	pie.AddSeries(name, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
				Color:     cOpts.TextMutedColor(),
			}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)

	return pie
}
