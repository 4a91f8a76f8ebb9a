package dashboard

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapprofile/internal/controller"
	"github.com/leapstack-labs/leapprofile/internal/frame"
	"github.com/leapstack-labs/leapprofile/internal/report"
	"github.com/leapstack-labs/leapprofile/internal/ui/features/common"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = common.Templates(templateFS, nil)

var printer = message.NewPrinter(language.English)

// Benefit is one entry of the data profiling benefits list.
type Benefit struct {
	Title string
	Text  string
}

// Benefits are shown under the input form.
var Benefits = []Benefit{
	{"Improved Data Quality", "Identify inaccuracies, inconsistencies, and missing values in your data."},
	{"Enhanced Data Understanding", "Offers a comprehensive view of your dataset, including distributions and relationships."},
	{"Compliance and Governance", "Ensures data meets regulatory standards and organizational policies."},
	{"Time Efficiency", "Saves time by automating the data inspection process and highlighting critical issues."},
}

// HomeData feeds the dashboard page.
type HomeData struct {
	Suggestions []string
	Benefits    []Benefit
	Progress    ProgressData
}

// ProgressData describes the pipeline stage line.
type ProgressData struct {
	Stage  controller.Stage
	Label  string
	Column string
	Done   int
	Total  int
}

// FrameData is the fetched table rendered as strings.
type FrameData struct {
	Shape   string
	Columns []string
	Rows    [][]string
}

// ResultData is the result area after a run.
type ResultData struct {
	Warning      string
	Error        string
	Frame        *FrameData
	Summary      template.HTML
	DownloadURL  string
	DownloadName string
}

// Home renders the dashboard body.
func Home(data HomeData) templ.Component {
	return common.Fragment(templates, "home", data)
}

// Suggestions renders the table name datalist.
func Suggestions(names []string) templ.Component {
	return common.Fragment(templates, "suggestions", names)
}

// Progress renders the stage line.
func Progress(data ProgressData) templ.Component {
	return common.Fragment(templates, "progress", data)
}

// Result renders the result area.
func Result(data ResultData) templ.Component {
	return common.Fragment(templates, "result", data)
}

// stageProgress builds the progress line for a stage change.
func stageProgress(stage controller.Stage) ProgressData {
	return ProgressData{Stage: stage, Label: stage.Label()}
}

// newFrameData formats every cell of f for display.
func newFrameData(f *frame.Frame) *FrameData {
	fd := &FrameData{
		Shape:   printer.Sprintf("%d rows × %d columns", f.NumRows(), f.NumCols()),
		Columns: f.Names(),
		Rows:    make([][]string, len(f.Rows)),
	}
	for i, row := range f.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = frame.FormatValue(v)
		}
		fd.Rows[i] = cells
	}
	return fd
}

// newResultData maps a controller result onto the result area.
func newResultData(ctx context.Context, res *controller.Result, downloadURL string) (ResultData, error) {
	data := ResultData{
		Warning: res.Warning,
		Error:   res.Error,
	}
	if res.Data != nil {
		data.Frame = newFrameData(res.Data)
	}
	if res.Report != nil {
		var buf bytes.Buffer
		if err := report.Summary(res.Report).Render(ctx, &buf); err != nil {
			return data, fmt.Errorf("failed to render summary: %w", err)
		}
		data.Summary = template.HTML(buf.String()) //nolint:gosec // rendered by html/template
	}
	if res.Download != nil && downloadURL != "" {
		data.DownloadURL = downloadURL
		data.DownloadName = res.Download.Name
	}
	return data, nil
}
