package report

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapprofile/internal/profile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"int":        formatInt,
	"num":        formatNum,
	"pct":        formatPct,
	"dur":        formatDuration,
	"ts":         formatTime,
	"histogram":  histogramSVG,
	"bars":       barsSVG,
	"corrStyle":  corrStyle,
	"typeCount":  typeCount,
	"alertClass": alertClass,
	"types":      func() []profile.VariableType { return profile.AllTypes },
	"add":        func(a, b int) int { return a + b },
	"dict":       dict,
}).ParseFS(templateFS, "templates/*.html"))

// Document returns the standalone report page as a component.
func Document(rep *profile.Report) templ.Component {
	return templ.FromGoHTML(templates.Lookup("document"), rep)
}

// Summary returns the overview and alerts fragment shown inline in the
// dashboard.
func Summary(rep *profile.Report) templ.Component {
	return templ.FromGoHTML(templates.Lookup("summary"), rep)
}

// HTML writes the standalone report page.
func HTML(ctx context.Context, w io.Writer, rep *profile.Report) error {
	if err := Document(rep).Render(ctx, w); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

func formatInt(n int) string {
	return printer.Sprintf("%d", n)
}

func formatNum(f float64) string {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return "-"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return printer.Sprintf("%d", int64(f))
	case math.Abs(f) >= 1e6 || math.Abs(f) < 1e-3:
		return fmt.Sprintf("%.4g", f)
	}
	return printer.Sprintf("%.4f", f)
}

func formatPct(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// dict builds a map from alternating keys and values.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func typeCount(counts map[profile.VariableType]int, t profile.VariableType) int {
	return counts[t]
}

func alertClass(t profile.AlertType) string {
	return "alert-" + strings.ToLower(strings.ReplaceAll(string(t), "_", "-"))
}

const (
	svgWidth  = 320.0
	svgHeight = 120.0
)

// histogramSVG draws bins as an inline bar chart.
func histogramSVG(bins []profile.Bin, t profile.VariableType) template.HTML {
	if len(bins) == 0 {
		return ""
	}
	maxCount := 0
	for _, b := range bins {
		maxCount = max(maxCount, b.Count)
	}
	if maxCount == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg class="histogram" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" role="img">`,
		svgWidth, svgHeight+16, svgWidth, svgHeight+16)
	barW := svgWidth / float64(len(bins))
	for i, b := range bins {
		h := float64(b.Count) / float64(maxCount) * svgHeight
		fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"><title>%s to %s: %d</title></rect>`,
			float64(i)*barW+1, svgHeight-h, math.Max(barW-2, 1), h,
			template.HTMLEscapeString(profile.FormatBinLabel(b.Lower, t)),
			template.HTMLEscapeString(profile.FormatBinLabel(b.Upper, t)),
			b.Count)
	}
	fmt.Fprintf(&sb, `<text x="0" y="%.0f">%s</text>`, svgHeight+12,
		template.HTMLEscapeString(profile.FormatBinLabel(bins[0].Lower, t)))
	fmt.Fprintf(&sb, `<text x="%.0f" y="%.0f" text-anchor="end">%s</text>`, svgWidth, svgHeight+12,
		template.HTMLEscapeString(profile.FormatBinLabel(bins[len(bins)-1].Upper, t)))
	sb.WriteString(`</svg>`)
	return template.HTML(sb.String()) //nolint:gosec // all dynamic text is escaped above
}

// barsSVG draws horizontal bars for value frequencies.
func barsSVG(values []profile.ValueCount) template.HTML {
	if len(values) == 0 {
		return ""
	}
	const rowH = 18.0
	maxCount := values[0].Count
	for _, v := range values {
		maxCount = max(maxCount, v.Count)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg class="bars" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" role="img">`,
		svgWidth, rowH*float64(len(values)), svgWidth, rowH*float64(len(values)))
	for i, v := range values {
		w := float64(v.Count) / float64(maxCount) * (svgWidth / 2)
		y := float64(i) * rowH
		label := v.Value
		if len([]rune(label)) > 24 {
			label = string([]rune(label)[:23]) + "…"
		}
		fmt.Fprintf(&sb, `<text x="0" y="%.1f">%s</text><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"></rect><text x="%.1f" y="%.1f">%d</text>`,
			y+13, template.HTMLEscapeString(label),
			svgWidth/2-20, y+3, math.Max(w-20, 1), rowH-6,
			svgWidth/2-16+math.Max(w-20, 1), y+13, v.Count)
	}
	sb.WriteString(`</svg>`)
	return template.HTML(sb.String()) //nolint:gosec // all dynamic text is escaped above
}

// corrStyle colors a correlation cell from blue (-1) to red (+1).
func corrStyle(r float64) template.CSS {
	a := math.Min(math.Abs(r), 1)
	if r >= 0 {
		return template.CSS(fmt.Sprintf("background: rgba(220, 53, 69, %.2f)", a)) //nolint:gosec // numeric only
	}
	return template.CSS(fmt.Sprintf("background: rgba(13, 110, 253, %.2f)", a)) //nolint:gosec // numeric only
}
