package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	// DefaultMaxFiles bounds the file rows of WriteTable when no limit is set.
	DefaultMaxFiles = 20
	// maxDots caps the dots drawn for one file row.
	maxDots = 40
	dot     = "•"
)

// dotColors assigns terminal colors to type tags in first-appearance order.
var dotColors = []color.Attribute{
	color.FgBlue,
	color.FgYellow,
	color.FgRed,
	color.FgCyan,
	color.FgGreen,
	color.FgHiYellow,
	color.FgMagenta,
	color.FgHiRed,
	color.FgHiBlack,
	color.FgWhite,
}

// TableOptions controls terminal rendering.
type TableOptions struct {
	Title    string
	MaxFiles int
	NoColor  bool
}

// WriteTable renders the summary cards, the type breakdown and the per-file
// line dots of a subset.
func WriteTable(w io.Writer, s Summary, groups []FileGroup, opts TableOptions) error {
	heading := color.New(color.FgCyan, color.Bold)
	if opts.NoColor {
		heading.DisableColor()
	}

	if opts.Title != "" {
		if _, err := heading.Fprintf(w, "%s\n", opts.Title); err != nil {
			return fmt.Errorf("write title: %w", err)
		}
	}

	cards := table.NewWriter()
	cards.SetStyle(table.StyleLight)
	cards.Style().Options.SeparateRows = false
	cards.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	cards.AppendHeader(table.Row{"Statistic", "Value"})

	for _, c := range Cards(s) {
		cards.AppendRow(table.Row{c.Label, c.Value})
	}

	if _, err := fmt.Fprintln(w, cards.Render()); err != nil {
		return fmt.Errorf("write cards: %w", err)
	}

	if s.Empty() {
		return nil
	}

	palette := Palette(s.Technologies)

	types := table.NewWriter()
	types.SetStyle(table.StyleLight)
	types.AppendHeader(table.Row{"Type", "Lines", "Share"})

	for _, share := range s.Types {
		types.AppendRow(table.Row{
			paint(palette, share.Type, share.Type, opts.NoColor),
			FormatCount(share.Lines),
			FormatPercent(share.Proportion),
		})
	}

	if _, err := fmt.Fprintln(w, types.Render()); err != nil {
		return fmt.Errorf("write types: %w", err)
	}

	limit := opts.MaxFiles
	if limit <= 0 {
		limit = DefaultMaxFiles
	}

	files := table.NewWriter()
	files.SetStyle(table.StyleLight)
	files.Style().Options.DrawBorder = false
	files.Style().Options.SeparateColumns = false
	files.Style().Format.Footer = text.FormatDefault
	files.AppendHeader(table.Row{"File", "Lines", ""})

	for i, g := range groups {
		if i == limit {
			files.AppendFooter(table.Row{fmt.Sprintf("+%d more files", len(groups)-limit)})

			break
		}

		files.AppendRow(table.Row{g.File, FormatCount(g.Count()), dots(g, palette, opts.NoColor)})
	}

	if _, err := fmt.Fprintln(w, files.Render()); err != nil {
		return fmt.Errorf("write files: %w", err)
	}

	return nil
}

// Palette maps each type tag to a terminal color in first-appearance order.
func Palette(types []string) map[string]color.Attribute {
	out := make(map[string]color.Attribute, len(types))

	for i, t := range types {
		out[t] = dotColors[i%len(dotColors)]
	}

	return out
}

func dots(g FileGroup, palette map[string]color.Attribute, noColor bool) string {
	var sb strings.Builder

	for i, line := range g.Lines {
		if i == maxDots {
			fmt.Fprintf(&sb, " +%d", len(g.Lines)-maxDots)

			break
		}

		sb.WriteString(paint(palette, LineType(line), dot, noColor))
	}

	return sb.String()
}

func paint(palette map[string]color.Attribute, tag, s string, noColor bool) string {
	attr, ok := palette[tag]
	if !ok || noColor {
		return s
	}

	c := color.New(attr)
	c.EnableColor()

	return c.Sprint(s)
}
