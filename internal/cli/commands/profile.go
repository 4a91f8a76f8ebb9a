package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/leapstack-labs/leapprofile/internal/controller"
	"github.com/leapstack-labs/leapprofile/internal/report"
	"github.com/spf13/cobra"
)

// ProfileOptions holds options for the profile command.
type ProfileOptions struct {
	Format    string
	Out       string
	Title     string
	Minimal   bool
	NoHistory bool
}

// ErrNoReport is returned when a profile run ends without a report.
var ErrNoReport = errors.New("no report generated")

// NewProfileCommand creates the profile command.
func NewProfileCommand() *cobra.Command {
	opts := &ProfileOptions{}

	cmd := &cobra.Command{
		Use:   "profile <table>",
		Short: "Generate a profiling report for a table",
		Long: `Fetch every row of a table from the target, profile it and write the
report to a file.

The report covers dataset statistics, per-column distributions, missing
values, correlations, alerts and a sample of rows.

Output adapts to environment:
  - Terminal: Styled summary with a progress spinner
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Profile a table into full_report.html
  leapprofile profile SALES

  # Write an Excel workbook
  leapprofile profile SALES --format xlsx --out sales.xlsx

  # Use a named target
  leapprofile profile ORDERS --target warehouse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Report format: html, json, yaml, markdown, xlsx")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Output path (default: full_report.<ext>)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Report title")
	cmd.Flags().BoolVar(&opts.Minimal, "minimal", false, "Skip explorative correlations and character breakdowns")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Don't record the run in history")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(report.Formats))
		for i, f := range report.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runProfile(cmd *cobra.Command, table string, opts *ProfileOptions) error {
	cc := NewCommandContext(cmd)
	defer func() { _ = cc.Close() }()

	ctx := cmd.Context()
	r := cc.Renderer

	target, err := cc.OpenTarget(ctx)
	if err != nil {
		return err
	}
	store, err := cc.OpenHistory()
	if err != nil {
		return err
	}
	m, err := cc.OpenMetrics(ctx)
	if err != nil {
		return err
	}
	ctrl, err := cc.NewController(target, m, store)
	if err != nil {
		return err
	}

	spinner := r.NewSpinner(controller.StageValidating.Label())
	spinner.Start()
	obs := controller.ObserverFuncs{
		Stage: func(s controller.Stage) {
			if !s.Terminal() {
				spinner.Update(s.Label())
			}
		},
		Column: func(column string, done, total int) {
			spinner.Update(fmt.Sprintf("%s (%d/%d) %s", controller.StageProfiling.Label(), done, total, column))
		},
	}

	res, err := ctrl.Run(ctx, table, obs)
	switch {
	case res != nil && res.Cancelled:
		spinner.Fail(controller.WarnCancelled)
		return err
	case err != nil:
		spinner.Fail("Profiling failed")
		_, _ = fmt.Fprintln(r.ErrWriter(), res.Error)
		return &ReportedError{Err: err}
	case !res.OK():
		spinner.Stop()
		r.Warning(res.Warning)
		return ErrNoReport
	}

	path := opts.Out
	if path == "" {
		path = res.Download.Name
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			spinner.Fail("Failed to write report")
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, res.Download.Data, 0o600); err != nil {
		spinner.Fail("Failed to write report")
		return fmt.Errorf("failed to write report: %w", err)
	}
	spinner.Success(fmt.Sprintf("Report written to %s", path))

	return renderProfile(r, res, path, ctrl.Format())
}

func renderProfile(r *output.Renderer, res *controller.Result, path string, format report.Format) error {
	rep := res.Report

	if r.EffectiveMode() == output.ModeJSON {
		out := output.ProfileOutput{
			Table:        res.Table,
			Rows:         res.RowCount,
			Columns:      res.ColumnCount,
			Alerts:       make([]string, 0, len(rep.Alerts)),
			Variables:    make([]output.VariableInfo, 0, len(rep.Variables)),
			Report:       path,
			Format:       string(format),
			TableSkipped: res.TableSkipped,
			DurationMS:   res.Duration.Milliseconds(),
		}
		for _, a := range rep.Alerts {
			out.Alerts = append(out.Alerts, a.Message)
		}
		for _, v := range rep.Variables {
			out.Variables = append(out.Variables, output.VariableInfo{
				Name: v.Name, Type: string(v.Type), MissingPct: v.MissingPct, Distinct: v.Distinct,
			})
		}
		return r.JSON(out)
	}

	if res.TableSkipped {
		r.Warning(controller.TableSkippedWarning())
	}

	r.Header(1, rep.Title)
	r.KeyValue("Table", res.Table)
	r.KeyValue("Shape", fmt.Sprintf("%d rows × %d columns", res.RowCount, res.ColumnCount))
	r.KeyValue("Report", path)
	r.KeyValue("Duration", res.Duration.Round(time.Millisecond).String())
	r.Println("")

	rows := make([][]string, 0, len(rep.Variables))
	for _, v := range rep.Variables {
		rows = append(rows, []string{
			v.Name,
			string(v.Type),
			strconv.FormatFloat(v.MissingPct, 'f', 1, 64) + "%",
			strconv.Itoa(v.Distinct),
		})
	}
	r.Header(2, "Variables")
	if err := r.Table([]string{"Variable", "Type", "Missing", "Distinct"}, rows); err != nil {
		return err
	}

	r.Println("")
	r.Header(2, fmt.Sprintf("Alerts (%d)", len(rep.Alerts)))
	if len(rep.Alerts) == 0 {
		r.Muted("No alerts.")
		return nil
	}
	for _, a := range rep.Alerts {
		r.StatusLine(string(a.Type), "warn", a.Message)
	}
	return nil
}
