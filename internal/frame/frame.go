// Package frame holds a fully materialized query result: ordered columns
// and normalized cell values.
package frame

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"
)

// Column describes one result column.
type Column struct {
	Name         string
	DatabaseType string
}

// Frame is a query result read fully into memory.
// Cell values are normalized to nil, bool, int64, float64, string or time.Time.
type Frame struct {
	Columns []Column
	Rows    [][]any
}

// New builds a frame from column names and raw rows, normalizing every value.
func New(names []string, rows [][]any) *Frame {
	f := &Frame{Columns: make([]Column, len(names))}
	for i, n := range names {
		f.Columns[i] = Column{Name: n}
	}
	f.Rows = make([][]any, 0, len(rows))
	for _, r := range rows {
		row := make([]any, len(names))
		for i := range names {
			if i < len(r) {
				row[i] = Normalize(r[i])
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

// FromRows drains rows into a Frame. The caller keeps ownership of rows
// and must close it. ctx is checked every 1024 rows.
func FromRows(ctx context.Context, rows *sql.Rows) (*Frame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	f := &Frame{Columns: make([]Column, len(names))}
	types, _ := rows.ColumnTypes()
	for i, n := range names {
		f.Columns[i] = Column{Name: n}
		if i < len(types) && types[i] != nil {
			f.Columns[i].DatabaseType = types[i].DatabaseTypeName()
		}
	}

	for rows.Next() {
		if len(f.Rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(f.Rows)+1, err)
		}
		for i, v := range values {
			values[i] = Normalize(v)
		}
		f.Rows = append(f.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return f, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return len(f.Rows) }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.Columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the values of column i.
func (f *Frame) Column(i int) []any {
	out := make([]any, len(f.Rows))
	for r, row := range f.Rows {
		out[r] = row[i]
	}
	return out
}

// Head returns up to n leading rows.
func (f *Frame) Head(n int) [][]any {
	if n > len(f.Rows) {
		n = len(f.Rows)
	}
	return f.Rows[:n]
}

// Tail returns up to n trailing rows.
func (f *Frame) Tail(n int) [][]any {
	if n > len(f.Rows) {
		n = len(f.Rows)
	}
	return f.Rows[len(f.Rows)-n:]
}

// Normalize converts a driver value to one of the frame's value kinds.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, int64, float64, string, time.Time:
		return x
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return float64(x)
		}
		return int64(x)
	case uint:
		return Normalize(uint64(x))
	case float32:
		return float64(x)
	case *big.Int:
		if x == nil {
			return nil
		}
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case *big.Float:
		if x == nil {
			return nil
		}
		f, _ := x.Float64()
		return f
	case sql.NullString:
		if !x.Valid {
			return nil
		}
		return x.String
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// FormatValue renders a cell for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
