package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/leapstack-labs/leapprofile/internal/frame"
	"github.com/leapstack-labs/leapprofile/internal/profile"
	"github.com/leapstack-labs/leapprofile/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func salesReport(t *testing.T) *profile.Report {
	t.Helper()
	cfg := profile.DefaultConfig()
	cfg.Logger = testutil.NewTestLogger(t)
	rep, err := profile.New(cfg).Profile(context.Background(), testutil.SalesFrame(50))
	require.NoError(t, err)
	rep.Table = "SALES"
	return rep
}

func parseHTML(t *testing.T, data []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	return doc
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatHTML, false},
		{"HTML", FormatHTML, false},
		{"htm", FormatHTML, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"md", FormatMarkdown, false},
		{"excel", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_FileName(t *testing.T) {
	assert.Equal(t, "full_report.html", FormatHTML.FileName())
	assert.Equal(t, "full_report.md", FormatMarkdown.FileName())
	assert.Equal(t, "text/html", FormatHTML.MIME())
	assert.Equal(t, "application/json", FormatJSON.MIME())
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(context.Background(), &buf, salesReport(t)))

	doc := parseHTML(t, buf.Bytes())
	assert.Contains(t, doc.Find("title").Text(), "Data Profiling Report")
	assert.Equal(t, "Data Profiling Report", doc.Find("h1").First().Text())
	assert.Equal(t, "SALES", doc.Find(".subtitle code").Text())

	for _, id := range []string{"overview", "alerts", "variables", "correlations", "missing", "sample"} {
		assert.Equal(t, 1, doc.Find("section#"+id).Length(), "section %s", id)
	}
	assert.Equal(t, 4, doc.Find("article.variable").Length())
	assert.Positive(t, doc.Find("svg.histogram").Length())
	assert.Equal(t, 1, doc.Find(`table.matrix[data-method="pearson"]`).Length())
	assert.Equal(t, 10, doc.Find("#sample table.data").First().Find("tbody tr").Length())
	assert.Contains(t, doc.Find("li.alert-unique").Text(), "id")
}

func TestHTML_EscapesValues(t *testing.T) {
	f := frame.New([]string{"<b>name</b>"}, [][]any{{"<script>alert(1)</script>"}, {"x"}})
	rep, err := profile.New(profile.DefaultConfig()).Profile(context.Background(), f)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, HTML(context.Background(), &buf, rep))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Equal(t, 0, parseHTML(t, buf.Bytes()).Find("main script").Length())
}

func TestHTML_Empty(t *testing.T) {
	for name, f := range map[string]*frame.Frame{
		"no rows":    frame.New([]string{"a", "b"}, nil),
		"no columns": frame.New(nil, [][]any{{}, {}}),
	} {
		t.Run(name, func(t *testing.T) {
			rep, err := profile.New(profile.DefaultConfig()).Profile(context.Background(), f)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, HTML(context.Background(), &buf, rep))
			doc := parseHTML(t, buf.Bytes())
			assert.Equal(t, 1, doc.Find("li.alert-empty").Length())
			assert.Contains(t, doc.Find("#correlations").Text(), "Not enough comparable variables")
		})
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(salesReport(t)).Render(context.Background(), &buf))

	doc := parseHTML(t, buf.Bytes())
	assert.Equal(t, 1, doc.Find("section#overview").Length())
	assert.Equal(t, 0, doc.Find("section#variables").Length())
	assert.Contains(t, doc.Find("#overview").Text(), "50")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, salesReport(t)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Data Profiling Report", got["title"])
	assert.Len(t, got["variables"], 4)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, salesReport(t)))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Data Profiling Report", got["title"])
	assert.Equal(t, "SALES", got["table"])
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(context.Background(), &buf, salesReport(t)))

	md := buf.String()
	assert.Contains(t, md, "# Data Profiling Report")
	assert.Contains(t, md, "Variables")
	assert.NotContains(t, md, "<section")
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, salesReport(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetOverview, SheetVariables, SheetAlerts, SheetCorrelations, SheetSample}, f.GetSheetList())

	title, err := f.GetCellValue(SheetOverview, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Data Profiling Report", title)

	rows, err := f.GetRows(SheetVariables)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Variable", rows[0][0])
	assert.Equal(t, "id", rows[1][0])

	sample, err := f.GetRows(SheetSample)
	require.NoError(t, err)
	assert.Len(t, sample, 21)
}

func TestExport(t *testing.T) {
	rep := salesReport(t)
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			data, err := Export(context.Background(), rep, format, dir)
			require.NoError(t, err)
			assert.NotEmpty(t, data)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "temp report must be removed")
		})
	}
}

func TestExport_Independent(t *testing.T) {
	rep := salesReport(t)
	dir := t.TempDir()

	a, err := Export(context.Background(), rep, FormatHTML, dir)
	require.NoError(t, err)
	b, err := Export(context.Background(), rep, FormatHTML, dir)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.Contains(string(a), "Data Profiling Report"))
}

func TestExport_RenderErrorRemovesFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Export(context.Background(), salesReport(t), Format("pdf"), dir)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
