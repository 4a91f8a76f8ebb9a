package core

import (
	"strconv"
	"strings"
)

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data with no handler functions.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the default schema name ("main" for DuckDB, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseInsensitive normalizes to lowercase for comparison (DuckDB, SQL Server).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, SQLite, Snowflake).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
	// PlaceholderAtP uses @p1, @p2, etc. for parameters (SQL Server).
	PlaceholderAtP
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// FormatPlaceholder returns the placeholder for the 1-based parameter index.
func (d *DialectConfig) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	default:
		return "?"
	}
}

// QuoteIdentifier quotes a single identifier part using the dialect's rules.
func (d *DialectConfig) QuoteIdentifier(name string) string {
	q, qe, esc := d.Identifiers.Quote, d.Identifiers.QuoteEnd, d.Identifiers.Escape
	if q == "" {
		q, qe, esc = `"`, `"`, `""`
	}
	if qe == "" {
		qe = q
	}
	if esc == "" {
		esc = qe + qe
	}
	return q + strings.ReplaceAll(name, qe, esc) + qe
}
