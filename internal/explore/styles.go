package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barWidth     = 40
	dotRune      = "●"
	maxDotsShown = 60
)

var (
	colorAccent = lipgloss.Color("#00FFFF")
	colorMuted  = lipgloss.Color("8")
	colorWhite  = lipgloss.Color("#FFFFFF")
	colorWarn   = lipgloss.Color("#FFFF00")

	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	cardLabelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	cardValueStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
)

// progressBar renders a slider position in [0, 100].
func progressBar(progress float64, width int) string {
	filled := int(progress / 100 * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return fmt.Sprintf("%s %s",
		lipgloss.NewStyle().Foreground(colorAccent).Render("["+bar+"]"),
		lipgloss.NewStyle().Foreground(colorWhite).Render(fmt.Sprintf("%3.0f%%", progress)),
	)
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func keyBinding(key, description string) string {
	return fmt.Sprintf("%s %s",
		lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(key),
		mutedStyle.Render(description))
}
