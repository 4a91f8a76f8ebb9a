package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/leapstack-labs/leapprofile/internal/frame"
	"github.com/stretchr/testify/require"
)

// SalesColumns are the columns of the sales fixture.
var SalesColumns = []string{"id", "region", "amount", "sold_at"}

var salesRegions = []string{"north", "south", "east", "west"}

// SalesRows returns n deterministic sales rows: a sequential id, a region,
// an amount between 1 and 500 and a timestamp within 2024.
func SalesRows(n int) [][]any {
	fake := gofakeit.New(42)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{
			i + 1,
			fake.RandomString(salesRegions),
			fake.Float64Range(1, 500),
			base.Add(time.Duration(fake.Number(0, 365*24)) * time.Hour),
		}
	}
	return rows
}

// SalesFrame returns the sales fixture as a frame.
func SalesFrame(n int) *frame.Frame {
	return frame.New(SalesColumns, SalesRows(n))
}

// SeedSales creates table in db and fills it with n sales rows.
// Timestamps are stored as ISO strings so every driver can read them back.
func SeedSales(t testing.TB, db *sql.DB, table string, n int) {
	t.Helper()
	ctx := context.Background()

	_, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE %s (id INTEGER, region TEXT, amount DOUBLE PRECISION, sold_at TEXT)", table))
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?)",
		table, strings.Join(SalesColumns, ", ")))
	require.NoError(t, err)

	for _, r := range SalesRows(n) {
		_, err := stmt.ExecContext(ctx, r[0], r[1], r[2], r[3].(time.Time).Format(time.DateTime))
		require.NoError(t, err)
	}
	require.NoError(t, stmt.Close())
	require.NoError(t, tx.Commit())
}
