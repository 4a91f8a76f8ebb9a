package commands

import (
	"strconv"
	"time"

	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/spf13/cobra"
)

// DefaultHistoryLimit is the number of runs listed by default.
const DefaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent profiling runs",
		Long: `List recent profiling runs from the local run log, newest first.

Only run metadata is kept: table, target, status, shape, alert count and
duration. Reports themselves are never stored.`,
		Example: `  leapprofile history
  leapprofile history --limit 5 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultHistoryLimit, "Maximum number of runs to list")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	cc := NewCommandContext(cmd)
	defer func() { _ = cc.Close() }()

	r := cc.Renderer
	store, err := cc.OpenHistory()
	if err != nil {
		return err
	}
	if store == nil {
		r.Warning("Run history is disabled (history.enabled: false)")
		return nil
	}

	recent, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	runs := make([]output.RunInfo, len(recent))
	for i, run := range recent {
		runs[i] = output.RunInfo{
			ID:        run.ID,
			Table:     run.Table,
			Target:    run.Target,
			Status:    string(run.Status),
			Rows:      run.Rows,
			Columns:   run.Columns,
			Alerts:    run.Alerts,
			StartedAt: run.StartedAt,
			Duration:  run.Duration.Round(time.Millisecond).String(),
			Error:     run.Error,
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}

	r.Header(1, "Runs")
	if len(runs) == 0 {
		r.Muted("No runs yet.")
		return nil
	}
	rows := make([][]string, len(runs))
	for i, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows[i] = []string{
			id,
			run.Table,
			run.Status,
			strconv.Itoa(run.Rows) + " × " + strconv.Itoa(run.Columns),
			strconv.Itoa(run.Alerts),
			run.StartedAt.Local().Format(time.DateTime),
			run.Duration,
		}
	}
	return r.Table([]string{"ID", "Table", "Status", "Shape", "Alerts", "Started", "Duration"}, rows)
}
