// Package config loads leapprofile configuration from defaults, a
// leapprofile.yaml file, LEAPPROFILE_* environment variables and flags.
package config

import (
	"time"

	"github.com/leapstack-labs/leapprofile/internal/profile"
	"github.com/leapstack-labs/leapprofile/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SeedsDir      string `koanf:"seeds_dir"`
	SessionSecret string `koanf:"session_secret"`
	Dev           bool   `koanf:"dev"`
}

// HistoryConfig controls the local run log.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	Backend    string        `koanf:"backend"` // none, datadog
	Service    string        `koanf:"service"`
	Tags       []string      `koanf:"tags"`
	FlushEvery time.Duration `koanf:"flush_every"`
}

// Config holds all CLI configuration options.
type Config struct {
	DefaultTarget string                   `koanf:"default_target"`
	Target        *TargetConfig            `koanf:"target"`
	Targets       map[string]*TargetConfig `koanf:"targets"`
	UI            UIConfig                 `koanf:"ui"`
	Profile       profile.Config           `koanf:"profile"`
	History       HistoryConfig            `koanf:"history"`
	Metrics       MetricsConfig            `koanf:"metrics"`
	Format        string                   `koanf:"format"`
	LogLevel      string                   `koanf:"log_level"`
	Verbose       bool                     `koanf:"verbose"`
	OutputFormat  string                   `koanf:"output"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`

	// TargetName is the named target in use, empty for the base target.
	TargetName string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultPort        = 8765
	DefaultHost        = "localhost"
	DefaultSeedsDir    = "seeds"
	DefaultHistoryPath = ".leapprofile/history.db"
	DefaultOutput      = "auto" // TTY=text, non-TTY=markdown
	DefaultFormat      = "html"
	DefaultLogLevel    = "warn"
	DefaultFlushEvery  = 10 * time.Second
	MetricsNone        = "none"
	MetricsDatadog     = "datadog"
)

// ConfigFileNames are searched in order.
var ConfigFileNames = []string{"leapprofile.yaml", "leapprofile.yml"}

// TargetLabel names the target for logs and run history.
func (c *Config) TargetLabel() string {
	if c.TargetName != "" {
		return c.TargetName
	}
	if c.Target != nil {
		return c.Target.Type
	}
	return ""
}
