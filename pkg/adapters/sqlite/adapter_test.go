package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  adapter.Config
		want string
	}{
		{"empty is memory", adapter.Config{}, ":memory:"},
		{"explicit memory", adapter.Config{Path: ":memory:"}, ":memory:"},
		{"plain path", adapter.Config{Path: "data/app.db"}, "file:data/app.db"},
		{"full dsn kept", adapter.Config{Path: "file:app.db?cache=shared"}, "file:app.db?cache=shared"},
		{
			"pragma option",
			adapter.Config{Path: "app.db", Options: map[string]string{"_pragma": "busy_timeout(5000)"}},
			"file:app.db?_pragma=busy_timeout(5000)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSQLiteDSN(tt.cfg))
		})
	}
}

func setupAdapter(t *testing.T) *Adapter {
	t.Helper()
	adp := New(nil)
	require.NoError(t, adp.Connect(context.Background(), adapter.Config{Path: filepath.Join(t.TempDir(), "test.db")}))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func TestAdapter_MetadataAndList(t *testing.T) {
	ctx := context.Background()
	adp := setupAdapter(t)

	require.NoError(t, adp.Exec(ctx, `CREATE TABLE orders (id INTEGER PRIMARY KEY, region TEXT NOT NULL, amount REAL)`))
	require.NoError(t, adp.Exec(ctx, `INSERT INTO orders (region, amount) VALUES ('north', 1.5), ('south', NULL)`))
	require.NoError(t, adp.Exec(ctx, `CREATE VIEW v_orders AS SELECT * FROM orders`))

	meta, err := adp.GetTableMetadata(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.RowCount)
	require.Len(t, meta.Columns, 3)
	assert.True(t, meta.Columns[0].PrimaryKey)
	assert.False(t, meta.Columns[1].Nullable)
	assert.True(t, meta.Columns[2].Nullable)
	assert.Equal(t, 1, meta.Columns[0].Position)

	refs, err := adp.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "orders", refs[0].Name)
	assert.Equal(t, "view", refs[1].Type)
}

func TestAdapter_MetadataMissingTable(t *testing.T) {
	adp := setupAdapter(t)
	_, err := adp.GetTableMetadata(context.Background(), "nope_table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAdapter_LoadCSV(t *testing.T) {
	ctx := context.Background()
	adp := setupAdapter(t)

	csvPath := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,name\n1,alice\n2,bob\n3,\n"), 0o600))
	require.NoError(t, adp.LoadCSV(ctx, "people", csvPath))

	rows, err := adp.Query(ctx, `SELECT COUNT(*), COUNT(name) FROM people`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())

	var total, named int
	require.NoError(t, rows.Scan(&total, &named))
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, named)
}
