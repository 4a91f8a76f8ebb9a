// Package report renders profiling reports as standalone HTML and as
// JSON, YAML, Markdown and XLSX documents.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapprofile/internal/profile"
)

// Format is an output document format.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatHTML, FormatJSON, FormatYAML, FormatMarkdown, FormatXLSX}

// ParseFormat resolves a format name or common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown report format %q (expected one of %v)", s, Formats)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case "":
		return "html"
	}
	return string(f)
}

// MIME returns the content type of the format.
func (f Format) MIME() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/html"
}

// FileName returns the download name, e.g. full_report.html.
func (f Format) FileName() string {
	return "full_report." + f.Ext()
}

// Render writes rep to w in the given format.
func Render(ctx context.Context, w io.Writer, rep *profile.Report, f Format) error {
	switch f {
	case FormatHTML, "":
		return HTML(ctx, w, rep)
	case FormatJSON:
		return JSON(w, rep)
	case FormatYAML:
		return YAML(w, rep)
	case FormatMarkdown:
		return Markdown(ctx, w, rep)
	case FormatXLSX:
		return XLSX(w, rep)
	}
	return fmt.Errorf("unknown report format %q", f)
}
