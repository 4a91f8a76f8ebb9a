// Package sqlite provides a SQLite database adapter for leapprofile,
// backed by the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/leapstack-labs/leapprofile/pkg/core"

	_ "modernc.org/sqlite" // sqlite driver
)

// Dialect is the SQLite dialect configuration.
var Dialect = &core.DialectConfig{
	Name: "sqlite",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Dialect: Dialect},
	}
}

// Connect opens the database file. An empty path opens a private
// in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildSQLiteDSN(cfg)
	a.Logger.Debug("connecting to sqlite", slog.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	// A single connection keeps :memory: databases consistent across queries.
	db.SetMaxOpenConns(1)

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildSQLiteDSN turns a path into a file: DSN, passing full DSNs through.
func buildSQLiteDSN(cfg adapter.Config) string {
	base := strings.TrimSpace(cfg.Path)
	if base == "" || base == ":memory:" {
		return ":memory:"
	}
	if !strings.HasPrefix(base, "file:") {
		base = "file:" + base
	}

	var params []string
	for _, k := range []string{"_pragma", "mode", "cache"} {
		if v, ok := cfg.Options[k]; ok {
			params = append(params, k+"="+v)
		}
	}
	if len(params) == 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strings.Join(params, "&")
}

// GetTableMetadata reads column info with pragma_table_info.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}
	schema, tableName := adapter.ParseQualifiedName(table, Dialect)

	rows, err := a.DB.QueryContext(ctx,
		`SELECT name, type, "notnull", pk, cid FROM pragma_table_info(?, ?) ORDER BY cid`,
		tableName, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var notNull, pk int
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &pk, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Position++
		col.Nullable = notNull == 0
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	var rowCount int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", Dialect.QuoteIdentifier(schema), Dialect.QuoteIdentifier(tableName)) //nolint:gosec // quoted identifiers
	if err := a.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		rowCount = 0
	}

	return &adapter.Metadata{
		Schema:   schema,
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

// ListTables lists tables and views from sqlite_master.
func (a *Adapter) ListTables(ctx context.Context) ([]core.TableRef, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	rows, err := a.DB.QueryContext(ctx, `
		SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []core.TableRef
	for rows.Next() {
		ref := core.TableRef{Schema: "main"}
		if err := rows.Scan(&ref.Name, &ref.Type); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return refs, nil
}

// LoadCSV loads a CSV file into a table with TEXT columns.
func (a *Adapter) LoadCSV(ctx context.Context, tableName string, filePath string) error {
	return a.LoadCSVCommon(ctx, tableName, filePath, "TEXT")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
