package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
)

// Renderer writes command output in the effective mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, IsTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if parsed, err := ParseMode(string(mode)); err == nil {
		mode = parsed
	} else {
		mode = ModeAuto
	}

	lr := lipgloss.NewRenderer(out)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(lr),
	}
}

// EffectiveMode resolves ModeAuto: text on a terminal, Markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the main output stream.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the diagnostic stream.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to the main output.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to the main output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a section header.
func (r *Renderer) Header(level int, title string) {
	if r.EffectiveMode() != ModeText {
		r.Println(FormatHeader(level, title))
		r.Println("")
		return
	}
	style := r.styles.Header2
	if level <= 1 {
		style = r.styles.Header1
	}
	r.Println(style.Render(title))
}

// KeyValue writes an aligned key and value.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() != ModeText {
		r.Println(FormatKeyValue(key, value))
		return
	}
	r.Println(r.styles.Key.Render(key) + value)
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.status(r.styles.Success, "✓", msg)
}

// Warning writes a warning to the diagnostic stream.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("⚠ "+msg))
}

// Error writes an error to the diagnostic stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
}

// Info writes an informational line.
func (r *Renderer) Info(msg string) {
	r.status(r.styles.Info, "ℹ", msg)
}

// Muted writes a de-emphasized line.
func (r *Renderer) Muted(msg string) {
	if r.EffectiveMode() != ModeText {
		r.Println("_" + msg + "_")
		return
	}
	r.Println(r.styles.Muted.Render(msg))
}

// StatusLine writes one item with a status marker.
func (r *Renderer) StatusLine(name, status, detail string) {
	if r.EffectiveMode() != ModeText {
		line := fmt.Sprintf("- **%s** (%s)", name, status)
		if detail != "" {
			line += " " + detail
		}
		r.Println(line)
		return
	}

	var mark string
	switch status {
	case "success", "ok", "pass":
		mark = r.styles.Success.Render("✓")
	case "warn", "warning", "cancelled", "skip":
		mark = r.styles.Warning.Render("!")
	case "error", "failed", "fail":
		mark = r.styles.Error.Render("✗")
	default:
		mark = r.styles.Muted.Render("•")
	}
	line := fmt.Sprintf("  %s %s", mark, name)
	if detail != "" {
		line += "  " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

func (r *Renderer) status(style lipgloss.Style, mark, msg string) {
	if r.EffectiveMode() != ModeText {
		r.Println(msg)
		return
	}
	r.Println(style.Render(mark + " " + msg))
}

// Table writes rows under headers. JSON mode writes an array of objects
// keyed by header.
func (r *Renderer) Table(headers []string, rows [][]string) error {
	if r.EffectiveMode() == ModeJSON {
		objs := make([]map[string]string, len(rows))
		for i, row := range rows {
			obj := make(map[string]string, len(headers))
			for j, h := range headers {
				if j < len(row) {
					obj[h] = row[j]
				}
			}
			objs[i] = obj
		}
		return r.JSON(objs)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return nil
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = 0
	t.Render()
	return nil
}

// Indent prefixes every line of s.
func Indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
