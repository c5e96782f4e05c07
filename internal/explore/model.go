// Package explore is a terminal front end for the commit history dashboard.
package explore

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
)

const (
	defaultSliderStep = 1.0
	defaultMaxFiles   = 10
	minWidth          = 40
)

// Options configures the explorer.
type Options struct {
	Title      string
	SliderStep float64
	MaxFiles   int
}

// Model is the bubbletea model of the explorer. Key presses only change the
// controller state; frames arrive through the controller's latest-wins loop.
type Model struct {
	ctx  context.Context
	opts Options
	ctrl *dashboard.Controller
	view dashboard.View

	err   error
	width int
	quit  bool
}

// New creates a model over a loaded controller.
func New(ctrl *dashboard.Controller, opts Options) Model {
	if opts.SliderStep <= 0 {
		opts.SliderStep = defaultSliderStep
	}

	if opts.MaxFiles <= 0 {
		opts.MaxFiles = defaultMaxFiles
	}

	if opts.Title == "" {
		opts.Title = "Commit history"
	}

	return Model{
		ctx:   context.Background(),
		opts:  opts,
		ctrl:  ctrl,
		view:  ctrl.View().Detach(),
		width: barWidth + minWidth,
	}
}

type frameMsg dashboard.View

// Current returns the view on screen.
func (m Model) Current() dashboard.View {
	return m.view
}

// Run starts the explorer until the user quits or ctx is done.
func Run(ctx context.Context, ctrl *dashboard.Controller, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctrl, opts)
	m.ctx = ctx

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	return nil
}

// Init starts waiting for the first frame.
func (m Model) Init() tea.Cmd {
	return m.waitFrame()
}

func (m Model) waitFrame() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl

	return func() tea.Msg {
		v, err := ctrl.Next(ctx)
		if err != nil {
			return nil
		}

		return frameMsg(v)
	}
}

// Update handles key presses and resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		m.view = dashboard.View(msg)

		return m, m.waitFrame()
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)

		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quit = true

		return m, tea.Quit
	case "left", "h":
		m.err = m.setProgress(m.ctrl.Progress() - m.opts.SliderStep)
	case "right", "l":
		m.err = m.setProgress(m.ctrl.Progress() + m.opts.SliderStep)
	case "home":
		m.err = m.setProgress(0)
	case "end":
		m.err = m.setProgress(100)
	case "up", "k":
		m.err = m.enterStep(m.ctrl.Step() - 1)
	case "down", "j":
		m.err = m.enterStep(m.ctrl.Step() + 1)
	case "r":
		m.ctrl.Reset()
	}

	return m, nil
}

func (m Model) setProgress(p float64) error {
	if m.view.Total == 0 {
		return nil
	}

	return m.ctrl.SetProgress(min(max(p, 0), 100))
}

func (m Model) enterStep(i int) error {
	if m.view.Total == 0 {
		return nil
	}

	return m.ctrl.EnterStep(min(max(i, 0), m.view.Total-1))
}

// View renders the current frame.
func (m Model) View() string {
	if m.quit {
		return ""
	}

	v := m.view

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString("\n")

	if v.Label != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d commits until %s", len(v.Commits), v.Total, v.Label)))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if v.Total > 0 {
		b.WriteString(progressBar(v.Progress, min(barWidth, m.width-minWidth/4)))
		b.WriteString("\n\n")
	}

	if v.Message != "" {
		b.WriteString(warnStyle.Render(v.Message))
		b.WriteString("\n\n")
	}

	cards := make([]string, len(v.Cards))
	for i, c := range v.Cards {
		cards[i] = card(c.Label, c.Value)
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	b.WriteString(m.renderFiles())
	b.WriteString(m.renderStep())

	if m.err != nil {
		b.WriteString(warnStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		keyBinding("←/→", "move"),
		keyBinding("↑/↓", "step"),
		keyBinding("r", "reset"),
		keyBinding("q", "quit"),
	}, "  "))

	return b.String()
}

func (m Model) renderFiles() string {
	rows := m.view.FileRows
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder

	shown := rows[:min(len(rows), m.opts.MaxFiles)]
	width := 0

	for _, r := range shown {
		width = max(width, lipgloss.Width(r.File))
	}

	for _, r := range shown {
		name := lipgloss.NewStyle().Width(width).Render(r.File)
		b.WriteString(fmt.Sprintf("%s %5d ", name, r.Lines))

		for _, d := range r.Dots[:min(len(r.Dots), maxDotsShown)] {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color)).Render(dotRune))
		}

		b.WriteString("\n")
	}

	if hidden := len(rows) - len(shown); hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("+%d more files", hidden)))
		b.WriteString("\n")
	}

	legend := make([]string, len(m.view.Legend))
	for i, d := range m.view.Legend {
		legend[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color)).Render(dotRune) + " " + d.Type
	}

	b.WriteString(strings.Join(legend, "  "))
	b.WriteString("\n\n")

	return b.String()
}

func (m Model) renderStep() string {
	v := m.view
	if v.Step < 0 || v.Step >= len(v.Steps) {
		return ""
	}

	return mutedStyle.Render(v.Steps[v.Step].Narrative) + "\n"
}
