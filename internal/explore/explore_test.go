package explore_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/internal/explore"
	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
)

func history() []commits.Summary {
	c1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	c2 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	return commits.Aggregate([]loc.LineRecord{
		{CommitID: "C1", File: "a.js", Line: 1, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "a.js", Line: 2, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "b.css", Line: 1, Timestamp: c1, Type: "css"},
		{CommitID: "C2", File: "a.js", Line: 3, Timestamp: c2, Type: "js"},
	})
}

func newModel(all []commits.Summary) explore.Model {
	ctrl := dashboard.NewController(dashboard.Options{})
	ctrl.Load(all)

	return explore.New(ctrl, explore.Options{SliderStep: 10})
}

func update(t *testing.T, m explore.Model, msg tea.Msg) explore.Model {
	t.Helper()

	next, _ := m.Update(msg)

	out, ok := next.(explore.Model)
	require.True(t, ok)

	return out
}

// press sends the keys, then applies the frame the controller produces.
func press(t *testing.T, m explore.Model, keys ...tea.KeyMsg) explore.Model {
	t.Helper()

	for _, k := range keys {
		m = update(t, m, k)
	}

	frames := make(chan tea.Msg, 1)
	wait := m.Init()

	go func() { frames <- wait() }()

	select {
	case msg := <-frames:
		require.NotNil(t, msg)

		return update(t, m, msg)
	case <-time.After(time.Second):
		t.Fatal("no frame rendered")
	}

	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitialView(t *testing.T) {
	t.Parallel()

	m := newModel(history())
	v := m.Current()

	assert.Len(t, v.Commits, 2)
	assert.Equal(t, 1, v.Step)
	assert.NotNil(t, m.Init())

	out := m.View()
	assert.Contains(t, out, "Commit history")
	assert.Contains(t, out, "2 of 2 commits until")
	assert.Contains(t, out, "Most active file")
	assert.Contains(t, out, "a.js")
}

func TestModel_Steps(t *testing.T) {
	t.Parallel()

	m := press(t, newModel(history()), tea.KeyMsg{Type: tea.KeyUp})
	assert.Len(t, m.Current().Commits, 1)
	assert.Equal(t, 0, m.Current().Step)
	assert.Contains(t, m.View(), "my first commit")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Current().Step)

	m = press(t, m, runes("j"))
	assert.Len(t, m.Current().Commits, 2)
}

func TestModel_StepsWithTiedTimestamps(t *testing.T) {
	t.Parallel()

	same := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newModel(commits.Aggregate([]loc.LineRecord{
		{CommitID: "A", File: "a.go", Line: 1, Timestamp: same, Type: "go"},
		{CommitID: "B", File: "b.go", Line: 1, Timestamp: same, Type: "go"},
		{CommitID: "C", File: "c.go", Line: 1, Timestamp: same.Add(time.Hour), Type: "go"},
	}))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.Current().Step)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Current().Step)
	assert.Len(t, m.Current().Commits, 2)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Current().Step)
}

func TestModel_FramesCoalesce(t *testing.T) {
	t.Parallel()

	m := press(t, newModel(history()),
		tea.KeyMsg{Type: tea.KeyHome}, tea.KeyMsg{Type: tea.KeyEnd}, tea.KeyMsg{Type: tea.KeyHome})

	assert.InDelta(t, 0.0, m.Current().Progress, 1e-9)
	assert.Len(t, m.Current().Commits, 1)
	assert.Equal(t, uint64(2), m.Current().Frame)
}

func TestModel_Slider(t *testing.T) {
	t.Parallel()

	m := press(t, newModel(history()), tea.KeyMsg{Type: tea.KeyHome})
	assert.InDelta(t, 0.0, m.Current().Progress, 1e-9)
	assert.Len(t, m.Current().Commits, 1)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.InDelta(t, 0.0, m.Current().Progress, 1e-9)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runes("l"))
	assert.InDelta(t, 20.0, m.Current().Progress, 1e-6)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Len(t, m.Current().Commits, 2)

	m = press(t, m, runes("r"))
	assert.Equal(t, dashboard.Ready, m.Current().State)
	assert.Nil(t, m.Current().Cutoff)
}

func TestModel_EmptyHistory(t *testing.T) {
	t.Parallel()

	m := press(t, newModel(nil), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown})

	assert.Contains(t, m.View(), dashboard.MsgNoData)
	assert.NotContains(t, m.View(), "░")
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m := newModel(history())

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestModel_Resize(t *testing.T) {
	t.Parallel()

	next, cmd := newModel(history()).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.NotEmpty(t, next.View())
}
