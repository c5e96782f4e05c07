package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const maxGridColumns = 5

// Color selects the palette of alerts and badges.
type Color string

// Component colors.
const (
	ColorDefault Color = "default"
	ColorSuccess Color = "success"
	ColorWarning Color = "warning"
	ColorError   Color = "error"
	ColorInfo    Color = "info"
)

func renderInto(item Renderable) (template.HTML, error) {
	if item == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := item.Render(&buf)
	if err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil
}

func write(w io.Writer, html template.HTML, what string) error {
	_, err := io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}

	return nil
}

// Card renders a card container.
type Card struct {
	Title    string
	Subtitle string
	Content  Renderable
}

// NewCard creates a new card.
func NewCard(title, subtitle string) *Card {
	return &Card{Title: title, Subtitle: subtitle}
}

// WithContent sets the card content.
func (c *Card) WithContent(content Renderable) *Card {
	c.Content = content

	return c
}

// Render writes the card HTML.
func (c *Card) Render(w io.Writer) error {
	content, err := renderInto(c.Content)
	if err != nil {
		return fmt.Errorf("rendering card content: %w", err)
	}

	return write(w, mustRenderTemplate("card.html", cardData{
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Content:  content,
	}), "card")
}

// Badge renders an inline tag with a colored swatch.
type Badge struct {
	Text string
	// Swatch is a CSS color shown before the text; empty hides it.
	Swatch string
}

// NewBadge creates a new badge.
func NewBadge(text, swatch string) *Badge {
	return &Badge{Text: text, Swatch: swatch}
}

// Render writes the badge HTML.
func (b *Badge) Render(w io.Writer) error {
	return write(w, mustRenderTemplate("badge.html", badgeData{
		Text:    b.Text,
		Classes: "bg-stone-100 text-stone-800 dark:bg-stone-800 dark:text-stone-200",
		Color:   b.Swatch,
	}), "badge")
}

// Text renders escaped plain text.
type Text struct {
	Content string
}

// NewText creates a new text block.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Render writes the text content.
func (t *Text) Render(w io.Writer) error {
	return write(w, template.HTML(template.HTMLEscapeString(t.Content)), "text")
}

// Grid renders a responsive grid layout.
type Grid struct {
	Columns int
	Gap     string
	Items   []Renderable
}

// NewGrid creates a new grid layout.
func NewGrid(columns int, items ...Renderable) *Grid {
	columns = max(1, min(columns, maxGridColumns))

	return &Grid{Columns: columns, Gap: "gap-4", Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	colClass := map[int]string{
		1: "grid-cols-1",
		2: "grid-cols-1 md:grid-cols-2",
		3: "grid-cols-1 md:grid-cols-2 lg:grid-cols-3",
		4: "grid-cols-2 md:grid-cols-2 lg:grid-cols-4",
		5: "grid-cols-2 md:grid-cols-3 lg:grid-cols-5",
	}[g.Columns]

	items := make([]template.HTML, len(g.Items))

	for i, item := range g.Items {
		html, err := renderInto(item)
		if err != nil {
			return fmt.Errorf("rendering grid item %d: %w", i, err)
		}

		items[i] = html
	}

	return write(w, mustRenderTemplate("grid.html", gridData{
		ColClass: colClass,
		Gap:      g.Gap,
		Items:    items,
	}), "grid")
}

// Stat renders a labelled statistic.
type Stat struct {
	Label string
	Value string
}

// NewStat creates a new stat display.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	return write(w, mustRenderTemplate("stat.html", statData{Label: s.Label, Value: s.Value}), "stat")
}

// Alert renders a notification box.
type Alert struct {
	Title   string
	Message string
	Color   Color
}

// NewAlert creates a new alert.
func NewAlert(title, message string, color Color) *Alert {
	return &Alert{Title: title, Message: message, Color: color}
}

// Render writes the alert HTML.
func (a *Alert) Render(w io.Writer) error {
	tone := "stone"

	switch a.Color {
	case ColorSuccess:
		tone = "green"
	case ColorWarning:
		tone = "yellow"
	case ColorError:
		tone = "red"
	case ColorInfo:
		tone = "blue"
	case ColorDefault:
	}

	return write(w, mustRenderTemplate("alert.html", alertData{
		Title:       a.Title,
		Message:     a.Message,
		BgClass:     fmt.Sprintf("bg-%s-50 dark:bg-%s-950", tone, tone),
		BorderClass: fmt.Sprintf("border-%s-500", tone),
		TitleClass:  fmt.Sprintf("text-%s-800 dark:text-%s-200", tone, tone),
		TextClass:   fmt.Sprintf("text-%s-700 dark:text-%s-300", tone, tone),
	}), "alert")
}

// Table renders an HTML table of escaped cells.
type Table struct {
	Headers []string
	Rows    [][]string
	Striped bool
}

// NewTable creates a new table.
func NewTable(headers []string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	return write(w, mustRenderTemplate("table.html", tableData{
		Headers: t.Headers,
		Rows:    t.Rows,
		Striped: t.Striped,
	}), "table")
}

// Group renders its items one after another.
type Group []Renderable

// Render writes every item in order.
func (g Group) Render(w io.Writer) error {
	for i, item := range g {
		if item == nil {
			continue
		}

		if err := item.Render(w); err != nil {
			return fmt.Errorf("rendering group item %d: %w", i, err)
		}
	}

	return nil
}
