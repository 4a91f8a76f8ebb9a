package frame

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM SALES").WillReturnRows(
		sqlmock.NewRows([]string{"id", "region", "amount", "sold_at"}).
			AddRow(int64(1), []byte("north"), 10.5, ts).
			AddRow(int64(2), nil, float32(2.5), ts))

	rows, err := db.QueryContext(context.Background(), "SELECT * FROM SALES")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	f, err := FromRows(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "region", "amount", "sold_at"}, f.Names())
	assert.Equal(t, 2, f.NumRows())
	assert.Equal(t, 4, f.NumCols())
	assert.Equal(t, "north", f.Rows[0][1], "[]byte normalized to string")
	assert.Nil(t, f.Rows[1][1])
	assert.Equal(t, float64(2.5), f.Rows[1][2])
	assert.Equal(t, []any{int64(1), int64(2)}, f.Column(0))
}

func TestFromRows_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"a", "b"}))

	rows, err := db.QueryContext(context.Background(), "SELECT * FROM t")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	f, err := FromRows(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 0, f.NumRows())
	assert.Equal(t, 2, f.NumCols())
	assert.Empty(t, f.Head(10))
	assert.Empty(t, f.Tail(10))
}

func TestFromRows_Cancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))

	rows, err := db.QueryContext(context.Background(), "SELECT * FROM t")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = FromRows(ctx, rows)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromRows_RowError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"a"}).AddRow(1).RowError(0, assert.AnError))

	rows, err := db.QueryContext(context.Background(), "SELECT * FROM t")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	_, err = FromRows(context.Background(), rows)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", 7, int64(7)},
		{"int32", int32(-3), int64(-3)},
		{"uint8", uint8(200), int64(200)},
		{"huge uint64", uint64(1 << 63), float64(1 << 63)},
		{"float32", float32(0.5), float64(0.5)},
		{"bytes", []byte("x"), "x"},
		{"big int", big.NewInt(42), int64(42)},
		{"bool", true, true},
		{"slice falls back to text", []int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestHeadTail(t *testing.T) {
	rows := make([][]any, 25)
	for i := range rows {
		rows[i] = []any{i}
	}
	f := New([]string{"n"}, rows)

	head := f.Head(10)
	tail := f.Tail(10)
	require.Len(t, head, 10)
	require.Len(t, tail, 10)
	assert.Equal(t, int64(0), head[0][0])
	assert.Equal(t, int64(15), tail[0][0])
	assert.Equal(t, int64(24), tail[9][0])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "2024-03-01", FormatValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01T10:30:00Z", FormatValue(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "abc", FormatValue("abc"))
}
