// Package seed loads CSV files into the target database, one table per
// file named after the file.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader loads one CSV file into a table. Every adapter satisfies it.
type Loader interface {
	LoadCSV(ctx context.Context, tableName, filePath string) error
}

// IsSeedFile reports whether path names a CSV file.
func IsSeedFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// TableName derives the table name from a seed file path.
func TableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadFile loads a single seed file and returns the table it replaced.
func LoadFile(ctx context.Context, l Loader, path string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	table := TableName(path)
	logger.Debug("loading seed file", slog.String("table", table), slog.String("path", path))

	if err := l.LoadCSV(ctx, table, path); err != nil {
		return "", fmt.Errorf("failed to load seed %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// LoadDir loads every CSV file directly inside dir in name order. A
// missing directory loads nothing.
func LoadDir(ctx context.Context, l Loader, dir string, logger *slog.Logger) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read seeds directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsSeedFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	tables := make([]string, 0, len(names))
	for _, name := range names {
		table, err := LoadFile(ctx, l, filepath.Join(dir, name), logger)
		if err != nil {
			return tables, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}
