package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/leapstack-labs/leapprofile/internal/report"
	"github.com/leapstack-labs/leapprofile/pkg/adapter"
)

// ValidateTarget checks the target type against the adapter registry.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// ParseLogLevel parses debug, info, warn or error.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := ValidateTarget(c.Target); err != nil {
		errs = append(errs, fmt.Errorf("invalid target configuration: %w", err))
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Metrics.Backend {
	case "", MetricsNone, MetricsDatadog:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics backend %q (expected none or datadog)", c.Metrics.Backend))
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port %d out of range", c.UI.Port))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, fmt.Errorf("history.path is required when history is enabled"))
	}

	return errors.Join(errs...)
}
