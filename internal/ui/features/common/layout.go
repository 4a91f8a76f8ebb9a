// Package common provides the page layout and helpers shared by UI features.
package common

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapprofile/internal/ui/resources"
)

//go:embed templates/*.html
var templateFS embed.FS

var layout = template.Must(template.New("common").Funcs(template.FuncMap{
	"static": resources.StaticPath,
}).ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Title       string
	CurrentPath string
	IsDev       bool
	Content     template.HTML
}

// Page wraps content in the application shell.
func Page(title, currentPath string, isDev bool, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := content.Render(ctx, &buf); err != nil {
			return err
		}
		return layout.ExecuteTemplate(w, "layout", pageData{
			Title:       title,
			CurrentPath: currentPath,
			IsDev:       isDev,
			Content:     template.HTML(buf.String()), //nolint:gosec // rendered by our own templates
		})
	})
}

// Templates parses a feature's templates with the shared helper functions.
func Templates(fsys embed.FS, extra template.FuncMap) *template.Template {
	funcs := template.FuncMap{
		"static":  resources.StaticPath,
		"ago":     FormatTimeAgo,
		"elapsed": FormatDuration,
		"status":  StatusClass,
	}
	for k, v := range extra {
		funcs[k] = v
	}
	return template.Must(template.New("feature").Funcs(funcs).ParseFS(fsys, "templates/*.html"))
}

// Fragment renders a named template of t as a component.
func Fragment(t *template.Template, name string, data any) templ.Component {
	return templ.FromGoHTML(t.Lookup(name), data)
}
