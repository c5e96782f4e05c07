package dashboard

import (
	"fmt"
	"io"
	"net/url"

	"github.com/Sumatoshi-tech/locmeta/pkg/plotpage"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
)

const (
	statColumns = 5
	// DefaultMaxFileRows bounds the file-dot rows of a page.
	DefaultMaxFileRows = 50
)

// PageOptions controls page rendering.
type PageOptions struct {
	Title       string
	Description string
	Theme       plotpage.Theme
	// Interactive adds the slider form and step links; BasePath is their target.
	Interactive bool
	BasePath    string
	SliderStep  float64
	MaxFileRows int
	// Query holds request parameters kept across slider submissions.
	Query   url.Values
	Profile *plotpage.ProfileCard
}

// BuildPage lays out a view as a plot page.
func BuildPage(v View, o PageOptions) *plotpage.Page {
	if o.Title == "" {
		o.Title = "Commit history"
	}

	if o.Theme == "" {
		o.Theme = plotpage.ThemeDark
	}

	if o.BasePath == "" {
		o.BasePath = "/"
	}

	page := plotpage.NewPage(o.Title, o.Description).WithTheme(o.Theme)
	chartOpts := plotpage.NewChartOpts(o.Theme)

	if o.Profile != nil {
		page.Add(plotpage.Section{ID: "profile", Title: "Profile", Chart: o.Profile})
	}

	if v.Message != "" {
		page.Add(plotpage.Section{
			ID:    "empty",
			Chart: plotpage.NewAlert(v.Message, "Move the slider forward or load a different log.", plotpage.ColorInfo),
		})
	}

	page.Add(plotpage.Section{
		ID:       "stats",
		Title:    "Summary",
		Subtitle: subtitle(v),
		Chart:    statGrid(v.Cards),
	})

	if o.Interactive && v.Total > 0 {
		page.Add(plotpage.Section{
			ID:    "timeline",
			Title: "Timeline",
			Chart: &plotpage.Slider{
				Action:   o.BasePath,
				Progress: v.Progress,
				Step:     o.SliderStep,
				Label:    v.Label,
				Keep:     keep(o.Query),
			},
		})
	}

	page.Add(plotpage.Section{
		ID:       "scatter",
		Title:    "Commits by time of day",
		Subtitle: "Dot size grows with the number of lines a commit edited.",
		Chart:    plotpage.WrapChart(plotpage.BuildScatterChart(chartOpts, scatterPoints(v.Scatter))),
	})

	if v.Selection.Active {
		page.Add(plotpage.Section{
			ID:    "selection",
			Title: "Selection",
			Chart: selectionCard(v.Selection),
		})
	}

	page.Add(plotpage.Section{
		ID:       "files",
		Title:    "Files",
		Subtitle: "One dot per line, colored by type.",
		Chart:    fileDots(v, o.MaxFileRows),
	})

	if !v.Stats.Empty() {
		page.Add(plotpage.Section{
			ID:    "types",
			Title: "Lines by type",
			Chart: plotpage.Group{
				technologyBadges(v),
				plotpage.WrapChart(plotpage.BuildPieChart(chartOpts, "Types", pieSlices(v))),
			},
		})
	}

	if len(v.Steps) > 0 {
		page.Add(plotpage.Section{
			ID:    "steps",
			Title: "Story",
			Chart: stepList(v, o),
		})
	}

	return page
}

// RenderPage writes the page of a view as HTML.
func RenderPage(w io.Writer, v View, o PageOptions) error {
	err := BuildPage(v, o).Render(w)
	if err != nil {
		return fmt.Errorf("render dashboard page: %w", err)
	}

	return nil
}

func subtitle(v View) string {
	if v.Label == "" {
		return ""
	}

	return fmt.Sprintf("%d of %d commits until %s", len(v.Commits), v.Total, v.Label)
}

func statGrid(cards []stats.Card) *plotpage.Grid {
	items := make([]plotpage.Renderable, len(cards))
	for i, c := range cards {
		items[i] = plotpage.NewStat(c.Label, c.Value)
	}

	return plotpage.NewGrid(statColumns, items...)
}

func scatterPoints(points []ScatterPoint) []plotpage.ScatterPoint {
	out := make([]plotpage.ScatterPoint, len(points))
	for i, p := range points {
		out[i] = plotpage.ScatterPoint{Name: p.ID, Time: p.X, Hour: p.Y, Lines: p.Lines, Radius: p.R}
	}

	return out
}

func fileDots(v View, limit int) *plotpage.FileDots {
	if limit <= 0 {
		limit = DefaultMaxFileRows
	}

	rows := v.FileRows
	hidden := 0

	if len(rows) > limit {
		hidden = len(rows) - limit
		rows = rows[:limit]
	}

	out := &plotpage.FileDots{Hidden: hidden}

	for _, r := range rows {
		dots := make([]plotpage.Dot, len(r.Dots))
		for i, d := range r.Dots {
			dots[i] = plotpage.Dot{Type: d.Type, Color: d.Color}
		}

		out.Rows = append(out.Rows, plotpage.FileDotRow{File: r.File, Lines: r.Lines, Dots: dots})
	}

	for _, d := range v.Legend {
		out.Legend = append(out.Legend, plotpage.Dot{Type: d.Type, Color: d.Color})
	}

	return out
}

func pieSlices(v View) []plotpage.PieSlice {
	colors := make(map[string]string, len(v.Legend))
	for _, d := range v.Legend {
		colors[d.Type] = d.Color
	}

	out := make([]plotpage.PieSlice, len(v.Stats.Types))
	for i, t := range v.Stats.Types {
		out[i] = plotpage.PieSlice{Name: t.Type, Value: t.Lines, Color: colors[t.Type]}
	}

	return out
}

func selectionCard(sel Selection) *plotpage.Card {
	card := plotpage.NewCard(sel.Message, "Commits inside the brushed time and hour range.")

	if len(sel.IDs) == 0 {
		return card.WithContent(plotpage.NewText("Widen the brush or move the slider forward."))
	}

	return card.WithContent(typeTable(sel.Stats))
}

func technologyBadges(v View) *plotpage.Grid {
	items := make([]plotpage.Renderable, len(v.Legend))
	for i, d := range v.Legend {
		items[i] = plotpage.NewBadge(d.Type, d.Color)
	}

	return plotpage.NewGrid(len(items), items...)
}

func typeTable(s stats.Summary) *plotpage.Table {
	table := plotpage.NewTable([]string{"Type", "Lines", "Share"})
	for _, t := range s.Types {
		table.AddRow(t.Type, stats.FormatCount(t.Lines), stats.FormatPercent(t.Proportion))
	}

	return table
}

func stepList(v View, o PageOptions) *plotpage.StepList {
	list := &plotpage.StepList{Items: make([]plotpage.StepItem, len(v.Steps))}

	for i, s := range v.Steps {
		link := "#steps"
		if o.Interactive {
			link = plotpage.StepURL(o.BasePath, s.Index)
		}

		list.Items[i] = plotpage.StepItem{
			Index:     s.Index,
			Text:      s.Narrative,
			URL:       link,
			Active:    v.Cutoff != nil && s.Index == v.Step,
			CommitURL: s.URL,
		}
	}

	return list
}

func keep(query url.Values) url.Values {
	out := url.Values{}

	for name, values := range query {
		if name == "progress" || name == "cutoff" || name == "step" {
			continue
		}

		out[name] = values
	}

	return out
}
