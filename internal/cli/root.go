// Package cli provides the command-line interface for leapprofile.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/leapstack-labs/leapprofile/internal/cli/commands"
	"github.com/leapstack-labs/leapprofile/internal/cli/config"
	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/leapstack-labs/leapprofile/internal/report"
	"github.com/spf13/cobra"

	// Register database adapters.
	_ "github.com/leapstack-labs/leapprofile/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapprofile/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapprofile/pkg/adapters/snowflake"
	_ "github.com/leapstack-labs/leapprofile/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/leapprofile/pkg/adapters/sqlserver"
)

var (
	cfgFile    string
	targetFlag string
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// skipConfig lists commands that run without loading configuration.
var skipConfig = []string{"help", "completion", "__complete", "__completeNoDesc", "version"}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leapprofile",
		Short: "leapprofile - Data profiling reports for database tables",
		Long: `leapprofile fetches a table from a database target and generates an
exploratory profiling report: dataset statistics, per-column distributions,
missing values, correlations, alerts and a sample of rows.

Run "leapprofile ui" for the dashboard or "leapprofile profile <table>" to
write a report from the command line.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if slices.Contains(skipConfig, cmd.Name()) {
				return nil
			}

			cfg, err := config.LoadConfigWithTarget(cfgFile, targetFlag, cmd.Flags())
			if err != nil {
				return err
			}

			level, err := config.ParseLogLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
				if cfg.TargetName != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using target: %s\n", cfg.TargetName)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Data profiling reports for database tables
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leapprofile.yaml)")
	rootCmd.PersistentFlags().StringVarP(&targetFlag, "target", "t", "", "Named target from the targets section")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return targetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewUICommand())
	rootCmd.AddCommand(commands.NewProfileCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(commands.NewSecretCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// targetNames returns the configured named targets for completion.
func targetNames() []string {
	cfg, err := config.LoadConfig(cfgFile, nil)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(cfg.Targets))
	for name := range cfg.Targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	var reported *commands.ReportedError
	if err != nil && !errors.As(err, &reported) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Target:       &config.TargetConfig{Type: "duckdb"},
		Format:       string(report.FormatHTML),
		OutputFormat: config.DefaultOutput,
		LogLevel:     config.DefaultLogLevel,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for leapprofile.

To load completions:

Bash:
  $ source <(leapprofile completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ leapprofile completion bash > /etc/bash_completion.d/leapprofile
  # macOS:
  $ leapprofile completion bash > $(brew --prefix)/etc/bash_completion.d/leapprofile

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ leapprofile completion zsh > "${fpath[1]}/_leapprofile"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ leapprofile completion fish | source

  # To load completions for each session, execute once:
  $ leapprofile completion fish > ~/.config/fish/completions/leapprofile.fish

PowerShell:
  PS> leapprofile completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> leapprofile completion powershell > leapprofile.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
