package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
	"github.com/Sumatoshi-tech/locmeta/pkg/timeline"
)

func at(s string) time.Time {
	ts, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}

	return ts
}

func scenario() []commits.Summary {
	c1 := at("2024-01-01T09:00")
	c2 := at("2024-01-02T10:00")

	return commits.Aggregate([]loc.LineRecord{
		{CommitID: "C1", File: "a.js", Line: 1, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "a.js", Line: 2, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "b.css", Line: 1, Timestamp: c1, Type: "css"},
		{CommitID: "C2", File: "a.js", Line: 3, Timestamp: c2, Type: "js"},
	})
}

func loaded(t *testing.T) *dashboard.Controller {
	t.Helper()

	c := dashboard.NewController(dashboard.Options{})
	c.Load(scenario())

	return c
}

func TestController_Lifecycle(t *testing.T) {
	t.Parallel()

	c := dashboard.NewController(dashboard.Options{})
	assert.Equal(t, dashboard.Idle, c.State())
	require.ErrorIs(t, c.SetCutoff(at("2024-01-01T00:00")), dashboard.ErrNotLoaded)
	require.ErrorIs(t, c.SetProgress(50), dashboard.ErrNotLoaded)
	require.ErrorIs(t, c.EnterStep(0), dashboard.ErrNotLoaded)
	require.ErrorIs(t, c.Brush(dashboard.Rect{}), dashboard.ErrNotLoaded)

	v := c.View()
	assert.Equal(t, dashboard.MsgNoData, v.Message)

	c.Load(scenario())
	assert.Equal(t, dashboard.Ready, c.State())

	require.NoError(t, c.SetCutoff(at("2024-01-01T23:59")))
	assert.Equal(t, dashboard.Filtered, c.State())

	c.Reset()
	assert.Equal(t, dashboard.Ready, c.State())
	assert.Len(t, c.View().Commits, 2)
}

func TestController_ScenarioCutoff(t *testing.T) {
	t.Parallel()

	c := loaded(t)
	require.NoError(t, c.SetCutoff(at("2024-01-01T23:59")))

	v := c.View()
	require.Len(t, v.Commits, 1)
	assert.Equal(t, "C1", v.Commits[0].ID)
	assert.Equal(t, 1, v.Stats.TotalCommits)
	assert.Equal(t, 3, v.Stats.TotalLines)
	assert.Equal(t, 2, v.Stats.DistinctFiles)
	assert.Equal(t, stats.FileCount{File: "a.js", Lines: 2}, *v.Stats.MostActiveFile)
	assert.Equal(t, 0, v.Step)

	require.Len(t, v.FileRows, 2)
	assert.Equal(t, "a.js", v.FileRows[0].File)
	assert.Len(t, v.FileRows[0].Dots, 2)
	assert.Equal(t, dashboard.Tableau10[0], v.FileRows[0].Dots[0].Color)
	assert.Equal(t, dashboard.Tableau10[1], v.FileRows[1].Dots[0].Color)
}

func TestController_EmptyPrefix(t *testing.T) {
	t.Parallel()

	c := loaded(t)
	require.NoError(t, c.SetCutoff(at("2023-06-01T00:00")))

	v := c.View()
	assert.True(t, v.Empty())
	assert.Equal(t, -1, v.Step)
	assert.Nil(t, v.Stats.MostActiveFile)
	assert.Contains(t, v.Message, "No commits before")
	assert.Empty(t, v.Scatter)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "NaN")
}

func TestController_Progress(t *testing.T) {
	t.Parallel()

	c := loaded(t)

	require.NoError(t, c.SetProgress(0))
	assert.Len(t, c.View().Commits, 1)

	require.NoError(t, c.SetProgress(100))
	v := c.View()
	assert.Len(t, v.Commits, 2)
	assert.InDelta(t, 100.0, v.Progress, 1e-9)

	require.NoError(t, c.SetProgress(50))
	v = c.View()
	assert.Len(t, v.Commits, 1)
	assert.InDelta(t, 50.0, v.Progress, 1e-6)
	assert.Equal(t, "January 1, 2024 at 9:30 PM", v.Label)

	require.ErrorIs(t, c.SetProgress(math.NaN()), timeline.ErrInvalidProgress)

	empty := dashboard.NewController(dashboard.Options{})
	empty.Load(nil)
	require.ErrorIs(t, empty.SetProgress(10), dashboard.ErrEmptyDataset)
}

func TestController_EnterStep(t *testing.T) {
	t.Parallel()

	c := loaded(t)

	require.NoError(t, c.EnterStep(0))
	v := c.View()
	require.Len(t, v.Commits, 1)
	assert.Equal(t, 0, v.Step)
	require.Len(t, v.Steps, 2)

	require.NoError(t, c.EnterStep(1))
	assert.Len(t, c.View().Commits, 2)

	require.ErrorIs(t, c.EnterStep(5), timeline.ErrStepOutOfRange)
}

func TestController_EnterStepTiedTimestamps(t *testing.T) {
	t.Parallel()

	same := at("2024-03-01T12:00")

	c := dashboard.NewController(dashboard.Options{})
	c.Load(commits.Aggregate([]loc.LineRecord{
		{CommitID: "A", File: "a.go", Line: 1, Timestamp: same, Type: "go"},
		{CommitID: "B", File: "b.go", Line: 1, Timestamp: same, Type: "go"},
		{CommitID: "C", File: "c.go", Line: 1, Timestamp: at("2024-03-01T13:00"), Type: "go"},
	}))
	assert.Equal(t, 2, c.Step())

	require.NoError(t, c.EnterStep(0))
	assert.Equal(t, 0, c.Step())

	v := c.View()
	assert.Equal(t, 0, v.Step)
	assert.Len(t, v.Commits, 2)

	require.NoError(t, c.EnterStep(1))
	assert.Equal(t, 1, c.View().Step)

	require.NoError(t, c.SetCutoff(same))
	assert.Equal(t, 1, c.Step())

	require.NoError(t, c.EnterStep(0))
	c.Reset()
	assert.Equal(t, 2, c.View().Step)
}

func TestController_Brush(t *testing.T) {
	t.Parallel()

	c := loaded(t)

	require.NoError(t, c.Brush(dashboard.Rect{
		From: at("2024-01-02T00:00"), To: at("2024-01-01T00:00"),
		HourFrom: 12, HourTo: 0,
	}))

	v := c.View()
	require.NotNil(t, v.Brush)
	assert.True(t, v.Selection.Active)
	assert.Equal(t, []string{"C1"}, v.Selection.IDs)
	assert.Equal(t, 3, v.Selection.Stats.TotalLines)
	assert.Equal(t, "1 commit selected", v.Selection.Message)

	require.NoError(t, c.SetCutoff(at("2023-01-01T00:00")))
	v = c.View()
	assert.Empty(t, v.Selection.IDs)
	assert.Equal(t, "No commits selected", v.Selection.Message)

	c.ClearBrush()
	v = c.View()
	assert.Nil(t, v.Brush)
	assert.False(t, v.Selection.Active)
}

func TestController_FrameDiffs(t *testing.T) {
	t.Parallel()

	c := loaded(t)

	first := c.View()
	assert.Equal(t, uint64(1), first.Frame)
	require.NotNil(t, first.CommitDiff)
	assert.Equal(t, []string{"C1", "C2"}, first.CommitDiff.Enter)

	require.NoError(t, c.SetCutoff(at("2024-01-01T23:59")))

	second := c.View()
	assert.Equal(t, []string{"C2"}, second.CommitDiff.Exit)
	assert.Equal(t, []string{"C1"}, second.CommitDiff.Update)
	assert.Empty(t, second.CommitDiff.Enter)
	assert.Equal(t, []string{"a.js", "b.css"}, second.FileDiff.Update)

	detached := second.Detach()
	assert.Nil(t, detached.CommitDiff)

	raw, err := json.Marshal(detached)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "commit_diff")
	assert.NotContains(t, string(raw), `"frame"`)
}

func TestController_RunCoalesces(t *testing.T) {
	t.Parallel()

	c := dashboard.NewController(dashboard.Options{})
	c.Load(scenario())

	for p := 0; p <= 100; p += 5 {
		require.NoError(t, c.SetProgress(float64(p)))
	}

	require.NoError(t, c.SetCutoff(at("2024-01-01T23:59")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames []dashboard.View

	err := c.Run(ctx, func(v dashboard.View) error {
		frames = append(frames, v)
		cancel()

		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, frames, 1)
	assert.Len(t, frames[0].Commits, 1)
}

func TestController_NextLatestWins(t *testing.T) {
	t.Parallel()

	c := loaded(t)
	require.NoError(t, c.SetProgress(0))
	require.NoError(t, c.SetProgress(100))
	require.NoError(t, c.EnterStep(0))

	v, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, v.Step)
	assert.InDelta(t, 0.0, c.Progress(), 1e-9)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestController_RunStopsOnRenderError(t *testing.T) {
	t.Parallel()

	c := loaded(t)
	boom := errors.New("boom")

	err := c.Run(context.Background(), func(dashboard.View) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestRadiusScale(t *testing.T) {
	t.Parallel()

	all := scenario()
	scale := dashboard.NewRadiusScale(all, 2, 30)

	assert.InDelta(t, 30.0, scale.Radius(3), 1e-9)
	assert.InDelta(t, 2.0, scale.Radius(1), 1e-9)
	assert.Greater(t, scale.Radius(2), 2.0)

	single := dashboard.NewRadiusScale(all[:1], 2, 30)
	assert.InDelta(t, 16.0, single.Radius(3), 1e-9)

	points := dashboard.EncodeScatter(all, scale)
	require.Len(t, points, 2)
	assert.Equal(t, "C1", points[0].ID)
	assert.InDelta(t, 9.0, points[0].Y, 1e-9)

	for _, p := range points {
		assert.GreaterOrEqual(t, p.R, 2.0)
		assert.LessOrEqual(t, p.R, 30.0)
	}
}

func TestColorScale(t *testing.T) {
	t.Parallel()

	palette := []string{"red", "blue"}
	colors := dashboard.NewColorScale([]string{"go", "md", "go"}, palette)

	assert.Equal(t, "red", colors.Color("go"))
	assert.Equal(t, "blue", colors.Color("md"))
	assert.Equal(t, "red", colors.Color("yaml"))
	assert.Equal(t, []dashboard.Dot{
		{Type: "go", Color: "red"}, {Type: "md", Color: "blue"}, {Type: "yaml", Color: "red"},
	}, colors.Legend())
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	key := func(s string) string { return s }
	d := dashboard.Reconcile([]string{"a", "b", "c"}, []string{"c", "d", "a", "d"}, key)

	assert.Equal(t, []string{"d"}, d.Enter)
	assert.Equal(t, []string{"c", "a"}, d.Update)
	assert.Equal(t, []string{"b"}, d.Exit)
	assert.False(t, d.Empty())

	assert.True(t, dashboard.Reconcile([]string{"x"}, []string{"x"}, key).Empty())
}

func TestParseRect(t *testing.T) {
	t.Parallel()

	r, err := dashboard.ParseRect("2024-01-02T00:00:00Z,2024-01-01T00:00:00Z,18,6")
	require.NoError(t, err)
	assert.Equal(t, at("2024-01-01T00:00"), r.From)
	assert.InDelta(t, 6.0, r.HourFrom, 1e-9)
	assert.InDelta(t, 18.0, r.HourTo, 1e-9)

	back, err := dashboard.ParseRect(r.String())
	require.NoError(t, err)
	assert.Equal(t, r, back)

	fine := dashboard.Rect{
		From: time.Date(2024, 1, 1, 9, 0, 0, 500, time.UTC),
		To:   time.Date(2024, 1, 1, 9, 0, 1, 250_000_000, time.UTC),
	}

	back, err = dashboard.ParseRect(fine.String())
	require.NoError(t, err)
	assert.True(t, fine.From.Equal(back.From))
	assert.True(t, fine.To.Equal(back.To))

	_, err = dashboard.ParseRect("1,2,3")
	require.ErrorIs(t, err, dashboard.ErrInvalidBrush)

	_, err = dashboard.ParseRect("x,2024-01-01T00:00:00Z,1,2")
	require.ErrorIs(t, err, dashboard.ErrInvalidBrush)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "filtered", dashboard.Filtered.String())

	raw, err := json.Marshal(dashboard.Ready)
	require.NoError(t, err)
	assert.JSONEq(t, `"ready"`, string(raw))
}
