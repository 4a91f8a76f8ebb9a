package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"text", ModeText, false},
		{"JSON", ModeJSON, false},
		{"md", ModeMarkdown, false},
		{"markdown", ModeMarkdown, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &errOut, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &errOut, true, ModeJSON).EffectiveMode())
	assert.Equal(t, ModeAuto, NewRendererWithTTY(&out, &errOut, false, "bogus").mode)
}

func TestRenderer_Table(t *testing.T) {
	headers := []string{"Table", "Rows"}
	rows := [][]string{{"SALES", "10"}, {"USERS", "3"}}

	t.Run("markdown", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)
		require.NoError(t, r.Table(headers, rows))
		assert.Contains(t, out.String(), "| Table | Rows |")
		assert.Contains(t, out.String(), "| SALES | 10 |")
	})

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeText)
		require.NoError(t, r.Table(headers, rows))
		assert.Contains(t, out.String(), "SALES")
		assert.Contains(t, out.String(), "┌")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)
		require.NoError(t, r.Table(headers, rows))

		var got []map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "USERS", got[1]["Table"])
		assert.Equal(t, "3", got[1]["Rows"])
	})
}

func TestRenderer_Markdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeAuto)

	r.Header(2, "Tables")
	r.KeyValue("Target", "duckdb")
	r.StatusLine("history", "ok", "3 runs")
	r.Muted("nothing else")
	r.Warning("careful")

	assert.Contains(t, out.String(), "## Tables")
	assert.Contains(t, out.String(), "**Target:** duckdb")
	assert.Contains(t, out.String(), "- **history** (ok) 3 runs")
	assert.Contains(t, out.String(), "_nothing else_")
	assert.Contains(t, errOut.String(), "careful")
	assert.NotContains(t, out.String(), "careful")
}

func TestSpinner_SilentWithoutTTY(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	sp := r.NewSpinner("profiling")
	sp.Start()
	sp.Update("still profiling")
	sp.Success("done")

	assert.Empty(t, errOut.String())
	assert.Empty(t, out.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "**Rows:** 3", FormatKeyValue("Rows", "3"))
	assert.Equal(t, "  a\n\n  b", Indent("a\n\nb", "  "))
}
