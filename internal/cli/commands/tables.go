package commands

import (
	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tables",
		Aliases: []string{"ls"},
		Short:   "List tables in the target",
		Long: `List the tables and views visible to the target connection.

These are the names accepted by "leapprofile profile" and suggested by the
dashboard.`,
		Example: `  leapprofile tables
  leapprofile tables --target warehouse --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTables(cmd)
		},
	}
}

func runTables(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	defer func() { _ = cc.Close() }()

	r := cc.Renderer
	target, err := cc.OpenTarget(cmd.Context())
	if err != nil {
		return err
	}
	refs, err := target.ListTables(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := output.TablesOutput{Target: cc.Cfg.TargetLabel(), Tables: make([]output.TableInfo, 0, len(refs))}
		for _, ref := range refs {
			out.Tables = append(out.Tables, output.TableInfo{Schema: ref.Schema, Name: ref.Name, Type: ref.Type})
		}
		return r.JSON(out)
	}

	r.Header(1, "Tables")
	if len(refs) == 0 {
		r.Muted("No tables found in target " + cc.Cfg.TargetLabel())
		return nil
	}
	rows := make([][]string, len(refs))
	for i, ref := range refs {
		rows[i] = []string{ref.Schema, ref.Name, ref.Type}
	}
	if err := r.Table([]string{"Schema", "Name", "Type"}, rows); err != nil {
		return err
	}
	r.Printf("(%d tables)\n", len(refs))
	return nil
}
