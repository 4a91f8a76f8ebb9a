package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapprofile/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}
			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}
			assert.NoError(t, base.Close())
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		errMsg    string
	}{
		{
			name:   "exec without connection",
			sql:    "SELECT 1",
			errMsg: "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE TABLE users (id INT)",
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:    "INVALID SQL",
			errMsg: "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}
			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				tt.setupMock(mock)
				base.DB = db
			}

			err := base.Exec(context.Background(), tt.sql)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT \\* FROM sales").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount"}).AddRow(1, 9.5).AddRow(2, 3.25))

	base := &BaseSQLAdapter{DB: db}
	rows, err := base.Query(context.Background(), "SELECT * FROM sales")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var count int
	for rows.Next() {
		count++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_QueryWithoutConnection(t *testing.T) {
	base := &BaseSQLAdapter{}
	_, err := base.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestParseQualifiedName(t *testing.T) {
	d := &core.DialectConfig{DefaultSchema: "public"}

	tests := []struct {
		in         string
		wantSchema string
		wantName   string
	}{
		{"sales", "public", "sales"},
		{"analytics.sales", "analytics", "sales"},
		{"db.analytics.sales", "analytics", "sales"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			schema, name := ParseQualifiedName(tt.in, d)
			assert.Equal(t, tt.wantSchema, schema)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestBaseSQLAdapter_GetTableMetadataCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("main", "sales").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("id", "INTEGER", "NO", 1).
			AddRow("region", "VARCHAR", "YES", 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "main"."sales"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))

	base := &BaseSQLAdapter{DB: db, Dialect: &core.DialectConfig{DefaultSchema: "main"}}
	meta, err := base.GetTableMetadataCommon(context.Background(), "sales")
	require.NoError(t, err)

	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, "sales", meta.Name)
	assert.Equal(t, int64(50), meta.RowCount)
	require.Len(t, meta.Columns, 2)
	assert.False(t, meta.Columns[0].Nullable)
	assert.True(t, meta.Columns[1].Nullable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_GetTableMetadataCommon_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	base := &BaseSQLAdapter{DB: db}
	_, err = base.GetTableMetadataCommon(context.Background(), "nope_table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBaseSQLAdapter_ListTablesCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name", "table_type"}).
			AddRow("main", "orders", "BASE TABLE").
			AddRow("main", "v_orders", "VIEW"))

	base := &BaseSQLAdapter{DB: db}
	refs, err := base.ListTablesCommon(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "table", refs[0].Type)
	assert.Equal(t, "view", refs[1].Type)
	assert.Equal(t, "main.v_orders", refs[1].QualifiedName())
}

func TestBaseSQLAdapter_LoadCSVCommon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,alice\n2,\n"), 0o600))

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "people"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "people" \("id" TEXT, "name" TEXT\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(`INSERT INTO "people" VALUES \(\$1, \$2\)`)
	prep.ExpectExec().WithArgs("1", "alice").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("2", nil).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	base := &BaseSQLAdapter{DB: db, Dialect: &core.DialectConfig{Placeholder: core.PlaceholderDollar}}
	require.NoError(t, base.LoadCSVCommon(context.Background(), "people", path, "TEXT"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
