// Package profile computes an exploratory data profile of a frame:
// per-column statistics, distributions, missing values, correlations and
// alerts.
package profile

import (
	"log/slog"
)

// DefaultTitle is the report title used by the dashboard.
const DefaultTitle = "Data Profiling Report"

// Config controls profiling depth and alert thresholds.
type Config struct {
	Title string `koanf:"title"`

	// Explorative enables Spearman and Cramér's V correlations and
	// character-class breakdowns for text columns.
	Explorative bool `koanf:"explorative"`

	TopN                 int     `koanf:"top_n"`
	MaxBins              int     `koanf:"max_bins"`
	SampleRows           int     `koanf:"sample_rows"`
	CorrelationThreshold float64 `koanf:"correlation_threshold"`
	CardinalityThreshold int     `koanf:"cardinality_threshold"`

	// Alert thresholds, in percent.
	MissingThreshold float64 `koanf:"missing_threshold"`
	ZerosThreshold   float64 `koanf:"zeros_threshold"`

	SkewThreshold float64 `koanf:"skew_threshold"`

	// Progress, if set, is called after each column is profiled.
	Progress func(column string, done, total int) `koanf:"-"`

	Logger *slog.Logger `koanf:"-"`
}

// DefaultConfig returns the explorative configuration used by the dashboard.
func DefaultConfig() Config {
	return Config{
		Title:                DefaultTitle,
		Explorative:          true,
		TopN:                 10,
		MaxBins:              20,
		SampleRows:           10,
		CorrelationThreshold: 0.9,
		CardinalityThreshold: 50,
		MissingThreshold:     5,
		ZerosThreshold:       10,
		SkewThreshold:        20,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	if c.MaxBins <= 0 {
		c.MaxBins = d.MaxBins
	}
	if c.SampleRows <= 0 {
		c.SampleRows = d.SampleRows
	}
	if c.CorrelationThreshold <= 0 {
		c.CorrelationThreshold = d.CorrelationThreshold
	}
	if c.CardinalityThreshold <= 0 {
		c.CardinalityThreshold = d.CardinalityThreshold
	}
	if c.MissingThreshold <= 0 {
		c.MissingThreshold = d.MissingThreshold
	}
	if c.ZerosThreshold <= 0 {
		c.ZerosThreshold = d.ZerosThreshold
	}
	if c.SkewThreshold <= 0 {
		c.SkewThreshold = d.SkewThreshold
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}
