package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapprofile/internal/cli/config"
	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/leapstack-labs/leapprofile/internal/controller"
	"github.com/leapstack-labs/leapprofile/internal/history"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	"github.com/leapstack-labs/leapprofile/internal/metrics/datadog"
	"github.com/leapstack-labs/leapprofile/internal/report"
	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/spf13/cobra"
)

// ReportedError wraps a failure whose message was already shown to the
// user. Execute does not print it again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return controller.MaskSecrets(e.Err.Error()) }

func (e *ReportedError) Unwrap() error { return e.Err }

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer

	closers []func() error
}

// NewCommandContext creates a CommandContext for cmd. Connections are
// opened on demand and released by Close.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Close releases everything opened through the context, newest first.
func (c *CommandContext) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// OpenTarget connects to the configured target, resolving keyring
// password references first.
func (c *CommandContext) OpenTarget(ctx context.Context) (adapter.Adapter, error) {
	if c.Cfg.NeedsSecrets() {
		mgr, err := openSecrets()
		if err != nil {
			return nil, err
		}
		if err := c.Cfg.ResolveSecrets(mgr); err != nil {
			return nil, err
		}
	}

	adapterCfg := c.Cfg.Target.AdapterConfig()
	if dir := filepath.Dir(adapterCfg.Path); adapterCfg.Path != "" && adapterCfg.Path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	a, err := adapter.NewAdapter(adapterCfg, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, adapterCfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s target: %s", c.Cfg.Target.Type, controller.MaskSecrets(err.Error()))
	}
	c.closers = append(c.closers, a.Close)

	c.Logger.Debug("connected to target",
		slog.String("target", c.Cfg.TargetLabel()),
		slog.String("type", c.Cfg.Target.Type))
	return a, nil
}

// OpenHistory opens the run log. It returns nil when history is disabled.
func (c *CommandContext) OpenHistory() (*history.SQLiteStore, error) {
	if !c.Cfg.History.Enabled {
		return nil, nil
	}
	if dir := filepath.Dir(c.Cfg.History.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	store := history.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.History.Path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	c.closers = append(c.closers, store.Close)
	return store, nil
}

// OpenMetrics returns the configured metrics backend. Buffered metrics are
// flushed by Close.
func (c *CommandContext) OpenMetrics(ctx context.Context) (metrics.Backend, error) {
	if c.Cfg.Metrics.Backend != config.MetricsDatadog {
		return metrics.Nop{}, nil
	}
	b, err := datadog.NewBackend(ctx, datadog.Options{
		Service:    c.Cfg.Metrics.Service,
		Tags:       c.Cfg.Metrics.Tags,
		FlushEvery: c.Cfg.Metrics.FlushEvery,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start datadog metrics: %w", err)
	}
	c.closers = append(c.closers, b.Close)
	return b, nil
}

// NewController builds the profiling controller over q from the loaded
// configuration.
func (c *CommandContext) NewController(q controller.Querier, m metrics.Backend, store *history.SQLiteStore) (*controller.Controller, error) {
	format, err := report.ParseFormat(c.Cfg.Format)
	if err != nil {
		return nil, err
	}

	profileCfg := c.Cfg.Profile
	profileCfg.Logger = c.Logger

	opts := []controller.Option{
		controller.WithProfileConfig(profileCfg),
		controller.WithFormat(format),
		controller.WithTarget(c.Cfg.TargetLabel()),
		controller.WithLogger(c.Logger),
		controller.WithMetrics(m),
	}
	if store != nil {
		opts = append(opts, controller.WithRecorder(store))
	}
	return controller.New(q, opts...), nil
}

// getConfig returns the loaded configuration, or defaults when the root
// command did not load one (e.g. commands built directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{
			Target:       &config.TargetConfig{Type: "duckdb"},
			Format:       config.DefaultFormat,
			OutputFormat: config.DefaultOutput,
		}
	}
	return cfg
}
