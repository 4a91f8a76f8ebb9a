package adapter

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/leapprofile/pkg/core"
)

// ErrNotConnected is returned when an operation runs before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query, ListTables and CSV loading implementations.
type BaseSQLAdapter struct {
	DB      *sql.DB
	Cfg     core.AdapterConfig
	Logger  *slog.Logger
	Dialect *core.DialectConfig
}

// logger returns the configured logger or a discard logger.
func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// dialect returns the configured dialect or an ANSI fallback.
func (b *BaseSQLAdapter) dialect() *core.DialectConfig {
	if b.Dialect == nil {
		return &core.DialectConfig{Name: "ansi", DefaultSchema: "main"}
	}
	return b.Dialect
}

// DialectConfig returns the static dialect configuration for this adapter.
func (b *BaseSQLAdapter) DialectConfig() *core.DialectConfig {
	return b.dialect()
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Rows, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	b.logger().Debug("executing query", slog.String("sql", sqlStr))
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses the dialect's default schema if not specified.
func ParseQualifiedName(table string, d *core.DialectConfig) (schema, name string) {
	parts := strings.Split(table, ".")
	switch len(parts) {
	case 2:
		return parts[0], parts[1]
	case 3:
		return parts[1], parts[2]
	}
	return d.DefaultSchema, table
}

// GetTableMetadataCommon provides a shared implementation of GetTableMetadata.
// Uses information_schema.columns with dialect-appropriate placeholders.
func (b *BaseSQLAdapter) GetTableMetadataCommon(ctx context.Context, table string) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	d := b.dialect()
	schema, tableName := ParseQualifiedName(table, d)

	//nolint:gosec // Placeholders come from the dialect and are safe
	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, d.FormatPlaceholder(1), d.FormatPlaceholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", d.QuoteIdentifier(schema), d.QuoteIdentifier(tableName)) //nolint:gosec // quoted identifiers
	var rowCount int64
	if err := b.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		// Non-fatal, the count is informational
		rowCount = 0
	}

	return &core.TableMetadata{
		Schema:   schema,
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

// ListTablesCommon lists tables and views from information_schema.tables,
// skipping system schemas.
func (b *BaseSQLAdapter) ListTablesCommon(ctx context.Context) ([]core.TableRef, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	rows, err := b.DB.QueryContext(ctx, `
		SELECT table_schema, table_name, table_type
		FROM information_schema.tables
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog', 'INFORMATION_SCHEMA', 'sys')
		ORDER BY table_schema, table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []core.TableRef
	for rows.Next() {
		var ref core.TableRef
		var tableType string
		if err := rows.Scan(&ref.Schema, &ref.Name, &tableType); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		ref.Type = "table"
		if strings.Contains(strings.ToUpper(tableType), "VIEW") {
			ref.Type = "view"
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return refs, nil
}

// LoadCSVCommon loads a CSV file into a freshly created table whose columns
// are all text, inserting the rows in a single transaction. Adapters with a
// native bulk path (DuckDB read_csv_auto, Postgres COPY) use that instead.
func (b *BaseSQLAdapter) LoadCSVCommon(ctx context.Context, tableName, filePath, textType string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	d := b.dialect()

	file, err := os.Open(filePath) //nolint:gosec // filePath comes from the seeds directory
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	quotedTable := quoteQualified(tableName, d)
	colDefs := make([]string, len(headers))
	placeholders := make([]string, len(headers))
	for i, h := range headers {
		colDefs[i] = d.QuoteIdentifier(strings.TrimSpace(h)) + " " + textType
		placeholders[i] = d.FormatPlaceholder(i + 1)
	}

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quotedTable); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quotedTable, strings.Join(colDefs, ", "))); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quotedTable, strings.Join(placeholders, ", ")) //nolint:gosec // quoted identifiers
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var n int
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV row %d: %w", n+2, err)
		}
		args := make([]any, len(headers))
		for i := range headers {
			if i < len(record) && record[i] != "" {
				args[i] = record[i]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert CSV row %d: %w", n+2, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit CSV load: %w", err)
	}
	b.logger().Debug("loaded csv", slog.String("table", tableName), slog.Int("rows", n))
	return nil
}

// quoteQualified quotes every dot-separated part of a table name.
func quoteQualified(name string, d *core.DialectConfig) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
