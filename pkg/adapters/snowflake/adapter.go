// Package snowflake provides a Snowflake warehouse adapter for leapprofile.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/leapstack-labs/leapprofile/pkg/core"
	"github.com/snowflakedb/gosnowflake"
)

// Dialect is the Snowflake dialect configuration.
var Dialect = &core.DialectConfig{
	Name: "snowflake",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},
	DefaultSchema: "PUBLIC",
	Placeholder:   core.PlaceholderQuestion,
}

// Adapter implements the adapter.Adapter interface for Snowflake.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new Snowflake adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Dialect: Dialect},
	}
}

// Connect establishes a session with the Snowflake account.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn, err := buildSnowflakeDSN(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to snowflake",
		slog.String("account", cfg.Account),
		slog.String("warehouse", cfg.Warehouse),
		slog.String("database", cfg.Database))

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return fmt.Errorf("failed to open snowflake connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping snowflake: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildSnowflakeDSN maps the target onto a gosnowflake.Config.
// Options are passed through as session parameters.
func buildSnowflakeDSN(cfg adapter.Config) (string, error) {
	if cfg.Account == "" {
		return "", fmt.Errorf("snowflake target requires account")
	}

	sf := &gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.Username,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
		Host:      cfg.Host,
		Port:      cfg.Port,
	}
	if len(cfg.Options) > 0 {
		sf.Params = make(map[string]*string, len(cfg.Options))
		for k, v := range cfg.Options {
			sf.Params[k] = &v
		}
	}

	dsn, err := gosnowflake.DSN(sf)
	if err != nil {
		return "", fmt.Errorf("invalid snowflake config: %w", err)
	}
	return dsn, nil
}

// normalizeName uppercases unquoted identifier parts the way Snowflake
// resolves them, stripping quotes from quoted parts.
func normalizeName(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		if len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`) {
			parts[i] = strings.ReplaceAll(p[1:len(p)-1], `""`, `"`)
			continue
		}
		parts[i] = strings.ToUpper(p)
	}
	return strings.Join(parts, ".")
}

// GetTableMetadata retrieves metadata for a specified table.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.GetTableMetadataCommon(ctx, normalizeName(table))
}

// ListTables lists tables and views in the current database.
func (a *Adapter) ListTables(ctx context.Context) ([]core.TableRef, error) {
	return a.ListTablesCommon(ctx)
}

// LoadCSV loads a CSV file into a table with VARCHAR columns.
func (a *Adapter) LoadCSV(ctx context.Context, tableName string, filePath string) error {
	return a.LoadCSVCommon(ctx, normalizeName(tableName), filePath, "VARCHAR")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
