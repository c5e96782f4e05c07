package plotpage

import "fmt"

// Theme represents a color theme for pages and charts.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(name string) (Theme, error) {
	switch Theme(name) {
	case ThemeLight, ThemeDark:
		return Theme(name), nil
	default:
		return "", fmt.Errorf("unknown theme %q", name)
	}
}

// ThemeConfig holds the theme-specific styling values.
type ThemeConfig struct {
	Background    string
	Surface       string
	Border        string
	TextPrimary   string
	TextSecondary string
	TextMuted     string
	Accent        string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string
	// ScatterPoint fills the commit dots.
	ScatterPoint string

	EChartsTheme string
}

// ChartPalette holds categorical series colors.
type ChartPalette struct {
	Primary []string
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// GetChartPalette returns the categorical palette for a given theme.
// Both themes use Tableau10 so type colors match across pages.
func GetChartPalette(theme Theme) ChartPalette {
	if theme == ThemeDark {
		return darkChartPalette
	}

	return lightChartPalette
}

var lightTheme = ThemeConfig{
	Background:    "#fafaf9", // stone-50.
	Surface:       "#ffffff",
	Border:        "#e7e5e4", // stone-200.
	TextPrimary:   "#1c1917", // stone-900.
	TextSecondary: "#44403c", // stone-700.
	TextMuted:     "#78716c", // stone-500.
	Accent:        "#a16207", // amber-700.

	ChartBackground: "transparent",
	ChartGrid:       "#e7e5e4",
	ChartAxis:       "#a8a29e",
	ChartText:       "#44403c",
	ChartTextMuted:  "#78716c",
	ScatterPoint:    "#1f77b4",
}

var darkTheme = ThemeConfig{
	Background:    "#0c0a09", // stone-950.
	Surface:       "#1c1917", // stone-900.
	Border:        "#44403c", // stone-700.
	TextPrimary:   "#fafaf9", // stone-50.
	TextSecondary: "#d6d3d1", // stone-300.
	TextMuted:     "#a8a29e", // stone-400.
	Accent:        "#d97706", // amber-600.

	ChartBackground: "transparent",
	ChartGrid:       "#44403c",
	ChartAxis:       "#57534e",
	ChartText:       "#d6d3d1",
	ChartTextMuted:  "#a8a29e",
	ScatterPoint:    "#4e79a7",
}

var lightChartPalette = ChartPalette{
	Primary: []string{
		"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
		"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	},
}

var darkChartPalette = ChartPalette{
	Primary: []string{
		"#6b9bd1", "#f8a54f", "#f07c7e", "#93d1cc", "#7cc26f",
		"#f5d96b", "#c89bc0", "#ffb8c0", "#bc9580", "#d0c8c3",
	},
}
