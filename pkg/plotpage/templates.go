package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

var funcMap = template.FuncMap{
	"odd": func(i int) bool {
		return i%2 == 1
	},
	"inc": func(i int) int {
		return i + 1
	},
}

// getTemplates returns the parsed templates, loading them once.
func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").
			Funcs(funcMap).
			ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

// renderTemplate renders a named template with the given data.
func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil
}

// mustRenderTemplate renders an embedded template, panicking on error.
func mustRenderTemplate(name string, data any) template.HTML {
	html, err := renderTemplate(name, data)
	if err != nil {
		panic("plotpage: template error: " + err.Error())
	}

	return html
}

type pageData struct {
	Title          string
	Description    string
	ProjectName    string
	DarkClass      string
	RefreshSeconds int
	Theme          ThemeConfig
	ExtraCSS       template.CSS
	Header         template.HTML
	Content        template.HTML
	Scripts        template.HTML
}

type headerData struct {
	ProjectName     string
	Subtitle        string
	Title           string
	Description     string
	ShowThemeToggle bool
}

type sectionData struct {
	ID       string
	Title    string
	Subtitle string
	Chart    template.HTML
	Hint     *hintData
}

type hintData struct {
	Title string
	Items []string
}

type cardData struct {
	Title    string
	Subtitle string
	Content  template.HTML
}

type badgeData struct {
	Text    string
	Classes string
	Color   string
}

type gridData struct {
	ColClass string
	Gap      string
	Items    []template.HTML
}

type statData struct {
	Label string
	Value string
}

type alertData struct {
	Title       string
	Message     string
	BgClass     string
	BorderClass string
	TitleClass  string
	TextClass   string
}

type tableData struct {
	Headers []string
	Rows    [][]string
	Striped bool
}
