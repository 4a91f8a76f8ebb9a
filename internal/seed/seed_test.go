package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapprofile/internal/testutil"
	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/leapstack-labs/leapprofile/pkg/adapters/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newAdapter(t *testing.T) *sqlite.Adapter {
	t.Helper()
	a := sqlite.New(testutil.NewTestLogger(t))
	require.NoError(t, a.Connect(context.Background(), adapter.Config{Type: "sqlite"}))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestTableName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"seeds/customers.csv", "customers"},
		{"/abs/ORDERS.CSV", "ORDERS"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, TableName(tt.path))
		})
	}
	assert.True(t, IsSeedFile("x.CSV"))
	assert.False(t, IsSeedFile("x.json"))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv", "id,amount\n1,9.5\n2,3\n")
	writeFile(t, dir, "customers.csv", "id,name\n1,Ada\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o750))

	a := newAdapter(t)
	tables, err := LoadDir(context.Background(), a, dir, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)

	var n int
	require.NoError(t, a.DB.QueryRow(`SELECT COUNT(*) FROM "orders"`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestLoadDir_Missing(t *testing.T) {
	tables, err := LoadDir(context.Background(), newAdapter(t), filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestLoadFile_Error(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.csv", "")

	_, err := LoadFile(context.Background(), newAdapter(t), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load seed empty.csv")
}
