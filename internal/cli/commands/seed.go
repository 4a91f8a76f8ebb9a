package commands

import (
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/leapstack-labs/leapprofile/internal/seed"
	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Load seed data from CSV files",
		Long: `Load every CSV file in a directory into the target, one table per
file named after the file. Existing tables are replaced.

The directory defaults to ui.seeds_dir (./seeds).

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Load all seeds (auto-detect output format)
  leapprofile seed

  # Load seeds as JSON
  leapprofile seed --output json

  # Load seeds from a specific directory
  leapprofile seed ./data/seeds`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runSeed(cmd, dir)
		},
	}

	return cmd
}

func runSeed(cmd *cobra.Command, dir string) error {
	cc := NewCommandContext(cmd)
	defer func() { _ = cc.Close() }()

	r := cc.Renderer
	if dir == "" {
		dir = cc.Cfg.UI.SeedsDir
	}

	target, err := cc.OpenTarget(cmd.Context())
	if err != nil {
		return err
	}

	spinner := r.NewSpinner("Loading seeds...")
	spinner.Start()
	tables, err := seed.LoadDir(cmd.Context(), target, dir, cc.Logger)
	if err != nil {
		spinner.Fail("Failed to load seeds")
		return err
	}
	spinner.Success("Seeds loaded successfully")

	out := output.SeedOutput{Dir: dir, Seeds: make([]output.SeedInfo, 0, len(tables))}
	for _, t := range tables {
		out.Seeds = append(out.Seeds, output.SeedInfo{Name: t, Path: filepath.Join(dir, t+".csv")})
	}
	out.Summary.TotalSeeds = len(out.Seeds)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Seeds"))
		r.Println("")
		if len(out.Seeds) == 0 {
			r.Println("No seed files found in " + dir)
			return nil
		}
		for _, s := range out.Seeds {
			r.Printf("- `%s` ← %s\n", s.Name, s.Path)
		}
		r.Println("")
		r.Println(output.FormatKeyValue("Total", strconv.Itoa(out.Summary.TotalSeeds)))
	default:
		r.Header(1, "Seeds")
		if len(out.Seeds) == 0 {
			r.Muted("No seed files found in " + dir)
			return nil
		}
		for _, s := range out.Seeds {
			r.StatusLine(s.Name, "success", s.Path)
		}
	}
	return nil
}
