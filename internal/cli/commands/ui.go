package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/leapstack-labs/leapprofile/internal/ui"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	Host      string
	NoBrowser bool
	Watch     bool
	SeedsDir  string
	Dev       bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the profiling dashboard",
		Long: `Start a local web server with the profiling dashboard.

Enter a table name, generate a profiling report and download it as a
standalone file. The dashboard also lists recent runs and suggests table
names from the target.

With --watch, CSV files in the seeds directory are reloaded into the
target whenever they change.`,
		Example: `  # Start UI on default port
  leapprofile ui

  # Start on custom port without opening a browser
  leapprofile ui --port 3000 --no-browser

  # Reload seeds on change
  leapprofile ui --watch --seeds-dir ./seeds`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().StringVar(&opts.Host, "host", "", "Interface to bind (default: localhost)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload seed files when they change")
	cmd.Flags().StringVar(&opts.SeedsDir, "seeds-dir", "", "Seeds directory watched with --watch")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Serve assets from disk and live-reload the page")
	_ = cmd.Flags().MarkHidden("dev")

	return cmd
}

func runUI(cmd *cobra.Command, _ *UIOptions) error {
	cc := NewCommandContext(cmd)
	defer func() { _ = cc.Close() }()

	cfg := cc.Cfg
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	serverCfg := ui.Config{
		Controller:    ctrl,
		Target:        target,
		Metrics:       m,
		Host:          cfg.UI.Host,
		Port:          cfg.UI.Port,
		Watch:         cfg.UI.Watch,
		SeedsDir:      cfg.UI.SeedsDir,
		SessionSecret: cfg.UI.SessionSecret,
		IsDev:         cfg.UI.Dev,
		Logger:        cc.Logger,
		OnListen: func(url string) {
			r := cc.Renderer
			r.Printf("Starting UI server on %s\n", url)
			r.Muted("Press Ctrl+C to stop")
			if cfg.UI.AutoOpen {
				go openBrowser(ctx, url)
			}
		},
	}
	if store != nil {
		serverCfg.History = store
	}

	if err := ui.NewServer(serverCfg).Serve(ctx); err != nil {
		return fmt.Errorf("ui server: %w", err)
	}
	return nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(ctx context.Context, url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
