package plotpage

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r Renderable) string {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf))

	return buf.String()
}

func TestPageRenderDarkDefault(t *testing.T) {
	t.Parallel()

	page := NewPage("Test Page", "Test description")
	page.Add(Section{
		ID:       "stats",
		Title:    "Test Section",
		Subtitle: "Test subtitle",
		Hint: Hint{
			Title: "Test hint",
			Items: []string{"Item 1", "Item 2"},
		},
	})

	html := render(t, page)

	assert.Contains(t, html, "cdn.tailwindcss.com")
	assert.Contains(t, html, "echarts.min.js")
	assert.Contains(t, html, `class="dark"`)
	assert.Contains(t, html, "Test Page")
	assert.Contains(t, html, "Test description")
	assert.Contains(t, html, "Test Section")
	assert.Contains(t, html, `id="stats"`)
	assert.Contains(t, html, "Item 2")
	assert.Contains(t, html, "dark:bg-stone-950")
	assert.NotContains(t, html, "http-equiv=\"refresh\"")
}

func TestPageRenderLight(t *testing.T) {
	t.Parallel()

	page := NewPage("Light Page", "Light theme test").WithTheme(ThemeLight)
	page.RefreshSeconds = 30

	html := render(t, page)

	assert.NotContains(t, html, `class="dark"`)
	assert.Contains(t, html, "bg-stone-50")
	assert.Contains(t, html, `content="30"`)
}

func TestPageEscapesText(t *testing.T) {
	t.Parallel()

	page := NewPage("<b>x</b>", "")
	page.Add(Section{Title: "s", Chart: NewText("<script>alert(1)</script>")})

	html := render(t, page)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
}

func TestThemeConfig(t *testing.T) {
	t.Parallel()

	light := GetThemeConfig(ThemeLight)
	dark := GetThemeConfig(ThemeDark)

	assert.NotEqual(t, light.Background, dark.Background)
	assert.NotEqual(t, light.TextPrimary, dark.TextPrimary)
	assert.Len(t, GetChartPalette(ThemeLight).Primary, 10)

	theme, err := ParseTheme("light")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	_, err = ParseTheme("neon")
	require.Error(t, err)
}

func TestExtractChartContent(t *testing.T) {
	t.Parallel()

	full := "<!DOCTYPE html><html><head><style>.x{}</style></head><body>" +
		`<div class="container"><div class="item" id="c1"></div></div><style>.y{}</style><script>go()</script></body></html>`

	got := extractChartContent(full)

	assert.True(t, strings.HasPrefix(got, `<div class="echart-box">`))
	assert.Contains(t, got, "<script>go()</script>")
	assert.NotContains(t, got, "<style>")
	assert.Equal(t, "<p>fragment</p>", extractChartContent("<p>fragment</p>"))
}

func TestBuildScatterChart(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	chart := BuildScatterChart(nil, []ScatterPoint{
		{Name: "C1", Time: ts, Hour: 9, Lines: 3, Radius: 15},
		{Name: "C2", Time: ts.Add(25 * time.Hour), Hour: 10, Lines: 1, Radius: 2},
	})

	require.Len(t, chart.MultiSeries, 1)
	assert.Equal(t, "Commits", chart.MultiSeries[0].Name)

	html := render(t, WrapChart(chart))
	assert.Contains(t, html, "echart-box")
	assert.Contains(t, html, "scatter")
}

func TestBuildScatterChart_Empty(t *testing.T) {
	t.Parallel()

	chart := BuildScatterChart(NewChartOpts(ThemeLight), nil)
	assert.Empty(t, chart.MultiSeries)
}

func TestBuildPieChart(t *testing.T) {
	t.Parallel()

	chart := BuildPieChart(nil, "Types", []PieSlice{
		{Name: "js", Value: 3, Color: "#4e79a7"},
		{Name: "css", Value: 1},
	})

	require.Len(t, chart.MultiSeries, 1)
	assert.Equal(t, "Types", chart.MultiSeries[0].Name)
}

func TestComponents(t *testing.T) {
	t.Parallel()

	card := render(t, NewCard("Card Title", "Card subtitle").WithContent(NewText("Card content")))
	assert.Contains(t, card, "Card Title")
	assert.Contains(t, card, "Card subtitle")
	assert.Contains(t, card, "Card content")

	table := render(t, NewTable([]string{"Name", "Value"}).AddRow("foo", "123").AddRow("bar", "<i>"))
	assert.Contains(t, table, "<table")
	assert.Contains(t, table, "foo")
	assert.Contains(t, table, "&lt;i&gt;")

	alert := render(t, NewAlert("Warning", "This is a warning", ColorWarning))
	assert.Contains(t, alert, "Warning")
	assert.Contains(t, alert, "border-yellow-500")

	grid := render(t, NewGrid(2, NewStat("Commits", "2"), NewStat("Lines", "4")))
	assert.Contains(t, grid, "grid-cols-1 md:grid-cols-2")
	assert.Contains(t, grid, "Commits")

	badge := render(t, NewBadge("js", "#4e79a7"))
	assert.Contains(t, badge, "#4e79a7")

	group := render(t, Group{NewText("a"), nil, NewText("b")})
	assert.Equal(t, "ab", group)
}

func TestFileDots(t *testing.T) {
	t.Parallel()

	html := render(t, &FileDots{
		Rows: []FileDotRow{
			{File: "a.js", Lines: 2, Dots: []Dot{{Type: "js", Color: "#4e79a7"}, {Type: "js", Color: "#4e79a7"}}},
			{File: "b.css", Lines: 1, Dots: []Dot{{Type: "css", Color: "#f28e2c"}}},
		},
		Hidden: 3,
		Legend: []Dot{{Type: "js", Color: "#4e79a7"}, {Type: "css", Color: "#f28e2c"}},
	})

	assert.Contains(t, html, `data-file="a.js"`)
	assert.Contains(t, html, "2 lines")
	assert.Contains(t, html, "1 line<")
	assert.Equal(t, 3+2, strings.Count(html, `class="loc"`))
	assert.Contains(t, html, "+3 more files")
}

func TestSlider(t *testing.T) {
	t.Parallel()

	html := render(t, &Slider{
		Action:   "/",
		Progress: 42.5,
		Label:    "January 1, 2024 at 9:00 AM",
		Keep:     url.Values{"brush": {"x"}},
	})

	assert.Contains(t, html, `name="progress"`)
	assert.Contains(t, html, `value="42.5"`)
	assert.Contains(t, html, `step="1"`)
	assert.Contains(t, html, `name="brush"`)
	assert.Contains(t, html, "January 1, 2024")
}

func TestStepListAndProfile(t *testing.T) {
	t.Parallel()

	steps := render(t, &StepList{Items: []StepItem{
		{Index: 0, Text: "first", URL: StepURL("/", 0), Active: true},
		{Index: 1, Text: "second", URL: StepURL("/", 1)},
	}})
	assert.Contains(t, steps, `href="/?step=1"`)
	assert.Contains(t, steps, "bg-amber-100")

	profile := render(t, &ProfileCard{Login: "octo", URL: "https://github.com/octo", Counts: []Stat{{Label: "Followers", Value: "10"}}})
	assert.Contains(t, profile, "@octo")
	assert.Contains(t, profile, "Followers")

	failed := render(t, &ProfileCard{Err: "rate limited"})
	assert.Contains(t, failed, "Could not load profile: rate limited")
}
