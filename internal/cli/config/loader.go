package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/leapprofile/internal/profile"
	"github.com/leapstack-labs/leapprofile/internal/secrets"
	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// envPrefix prefixes every environment override.
const envPrefix = "LEAPPROFILE_"

// envSections are the nested sections addressable from the environment,
// e.g. LEAPPROFILE_UI_PORT -> ui.port.
var envSections = []string{"target", "ui", "profile", "history", "metrics"}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
	envVarPattern  = regexp.MustCompile(`\$\{([^}]+)\}`)
)

// configExistsIn returns the config file in dir, or "".
func configExistsIn(dir string) string {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if configExistsIn(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]any {
	p := profile.DefaultConfig()
	return map[string]any{
		"target.type":                   "duckdb",
		"ui.host":                       DefaultHost,
		"ui.port":                       DefaultPort,
		"ui.auto_open":                  true,
		"ui.watch":                      false,
		"ui.seeds_dir":                  DefaultSeedsDir,
		"profile.title":                 p.Title,
		"profile.explorative":           p.Explorative,
		"profile.top_n":                 p.TopN,
		"profile.max_bins":              p.MaxBins,
		"profile.sample_rows":           p.SampleRows,
		"profile.correlation_threshold": p.CorrelationThreshold,
		"profile.cardinality_threshold": p.CardinalityThreshold,
		"profile.missing_threshold":     p.MissingThreshold,
		"profile.zeros_threshold":       p.ZerosThreshold,
		"profile.skew_threshold":        p.SkewThreshold,
		"history.enabled":               true,
		"history.path":                  DefaultHistoryPath,
		"metrics.backend":               MetricsNone,
		"metrics.service":               secrets.ServiceName,
		"metrics.flush_every":           DefaultFlushEvery.String(),
		"format":                        DefaultFormat,
		"log_level":                     DefaultLogLevel,
		"verbose":                       false,
		"output":                        DefaultOutput,
	}
}

// envKey maps LEAPPROFILE_UI_AUTO_OPEN to ui.auto_open.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if key == "target" {
		return "default_target"
	}
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// flagKey maps a changed flag to its config key and value. An empty key
// leaves the flag out of the config.
func flagKey(flags *pflag.FlagSet, f *pflag.Flag) (string, any) {
	switch f.Name {
	case "port", "watch", "host":
		return "ui." + f.Name, posflag.FlagVal(flags, f)
	case "seeds-dir":
		return "ui.seeds_dir", posflag.FlagVal(flags, f)
	case "no-browser":
		v, _ := flags.GetBool(f.Name)
		return "ui.auto_open", !v
	case "dev":
		return "ui.dev", posflag.FlagVal(flags, f)
	case "title":
		return "profile.title", posflag.FlagVal(flags, f)
	case "minimal":
		v, _ := flags.GetBool(f.Name)
		return "profile.explorative", !v
	case "no-history":
		v, _ := flags.GetBool(f.Name)
		return "history.enabled", !v
	case "format", "verbose", "output", "log-level":
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}
	return "", nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithTarget(cfgFile, "", flags)
}

// LoadConfigWithTarget loads configuration and selects the named target
// targetOverride, falling back to default_target.
func LoadConfigWithTarget(cfgFile string, targetOverride string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	configFileUsed = ""

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	projectRoot := cwd
	switch {
	case cfgFile != "":
		if abs, err := filepath.Abs(cfgFile); err == nil {
			cfgFile = abs
			projectRoot = filepath.Dir(abs)
		}
	default:
		if root := findProjectRootUpward(cwd); root != "" {
			projectRoot = root
			cfgFile = configExistsIn(root)
		}
	}

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Environment (LEAPPROFILE_ prefix)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	if cfg.Verbose && cfg.LogLevel == DefaultLogLevel {
		cfg.LogLevel = "debug"
	}

	targetName := cfg.DefaultTarget
	if targetOverride != "" {
		targetName = targetOverride
	}
	if targetName != "" {
		named, ok := cfg.Targets[targetName]
		if !ok {
			return nil, fmt.Errorf("unknown target %q (configured: %s)", targetName, strings.Join(targetNames(cfg.Targets), ", "))
		}
		cfg.Target = MergeTargetConfig(cfg.Target, named)
		cfg.TargetName = targetName
	}

	ApplyTargetDefaults(cfg.Target)
	expandTargetEnvVars(cfg.Target)

	if isFileDatabase(cfg.Target.Type) {
		cfg.Target.Database = resolvePathRelativeTo(cfg.Target.Database, projectRoot)
	}
	cfg.UI.SeedsDir = resolvePathRelativeTo(cfg.UI.SeedsDir, projectRoot)
	cfg.History.Path = resolvePathRelativeTo(cfg.History.Path, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	currentConfig = &cfg
	return &cfg, nil
}

func targetNames(m map[string]*TargetConfig) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func isFileDatabase(typ string) bool {
	switch strings.ToLower(typ) {
	case "duckdb", "sqlite":
		return true
	}
	return false
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the configuration loaded last, or nil.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// ApplyTargetDefaults fills the schema from the adapter's dialect and the
// default postgres port.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(t.Type)
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

// DefaultSchemaForType returns the default schema of a registered adapter,
// or "main".
func DefaultSchemaForType(typ string) string {
	if factory, ok := adapter.Get(strings.ToLower(typ)); ok {
		if d := factory(nil).DialectConfig(); d != nil && d.DefaultSchema != "" {
			return d.DefaultSchema
		}
	}
	return "main"
}

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.Account = expandEnvVars(t.Account)
}

// SecretResolver turns keyring references into values.
type SecretResolver interface {
	Resolve(value string) (string, error)
}

// NeedsSecrets reports whether the target password is a keyring reference.
func (c *Config) NeedsSecrets() bool {
	return c.Target != nil && secrets.IsReference(c.Target.Password)
}

// ResolveSecrets replaces a keyring:<key> password with the stored value.
func (c *Config) ResolveSecrets(r SecretResolver) error {
	if !c.NeedsSecrets() {
		return nil
	}
	pw, err := r.Resolve(c.Target.Password)
	if err != nil {
		return fmt.Errorf("failed to resolve target password: %w", err)
	}
	c.Target.Password = pw
	return nil
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	merged.Params = make(map[string]any, len(base.Params)+len(override.Params))
	maps.Copy(merged.Options, base.Options)
	maps.Copy(merged.Params, base.Params)

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	if override.Account != "" {
		merged.Account = override.Account
	}
	if override.Warehouse != "" {
		merged.Warehouse = override.Warehouse
	}
	if override.Role != "" {
		merged.Role = override.Role
	}
	maps.Copy(merged.Options, override.Options)
	maps.Copy(merged.Params, override.Params)

	return &merged
}
