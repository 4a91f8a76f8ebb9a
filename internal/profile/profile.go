package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/leapprofile/internal/frame"
)

// ErrCancelled is returned when the context ends mid-profile.
var ErrCancelled = errors.New("profiling cancelled")

// Profiler computes reports with a fixed configuration.
// It holds no per-run state and is safe for concurrent use.
type Profiler struct {
	cfg Config
}

// New creates a Profiler. Zero config fields take default values.
func New(cfg Config) *Profiler {
	return &Profiler{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (p *Profiler) Config() Config {
	return p.cfg
}

// Profile builds the report for f. The context is checked between columns.
func (p *Profiler) Profile(ctx context.Context, f *frame.Frame) (*Report, error) {
	start := time.Now()
	cfg := p.cfg
	logger := cfg.Logger

	rep := &Report{
		Title: cfg.Title,
		Overview: Overview{
			Rows:       f.NumRows(),
			Columns:    f.NumCols(),
			TypeCounts: make(map[VariableType]int),
			Start:      start,
		},
		Variables: make([]Variable, 0, f.NumCols()),
		Missing:   make([]MissingInfo, 0, f.NumCols()),
	}

	cols := make([]*series, 0, f.NumCols())
	for i, col := range f.Columns {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		s := infer(col, f.Column(i))
		v := describe(s, f.NumRows(), cfg)
		cols = append(cols, s)
		rep.Variables = append(rep.Variables, v)
		rep.Overview.TypeCounts[v.Type]++
		rep.Overview.MissingCells += v.Missing
		rep.Missing = append(rep.Missing, MissingInfo{Column: v.Name, Count: v.Missing, Percent: v.MissingPct})

		logger.Debug("profiled column",
			slog.String("column", v.Name),
			slog.String("type", string(v.Type)),
			slog.Int("distinct", v.Distinct))
		if cfg.Progress != nil {
			cfg.Progress(v.Name, i+1, f.NumCols())
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	rep.Overview.MissingCellsPct = percent(rep.Overview.MissingCells, f.NumRows()*f.NumCols())
	rep.Overview.DuplicateRows = duplicateRows(f)
	rep.Overview.DuplicateRowsPct = percent(rep.Overview.DuplicateRows, f.NumRows())

	if f.NumRows() > 0 {
		rep.Correlations = correlations(cols, rep.Variables, cfg)
	}
	rep.Alerts = alerts(rep, cfg)
	rep.Sample = sample(f, cfg.SampleRows)

	rep.Overview.End = time.Now()
	rep.Overview.Duration = rep.Overview.End.Sub(start)

	logger.Debug("profile complete",
		slog.Int("rows", rep.Overview.Rows),
		slog.Int("columns", rep.Overview.Columns),
		slog.Int("alerts", len(rep.Alerts)),
		slog.Duration("duration", rep.Overview.Duration))
	return rep, nil
}

// describe computes the common and type-specific statistics of a column.
func describe(s *series, rows int, cfg Config) Variable {
	v := Variable{
		Name:         s.name,
		Type:         s.typ,
		DatabaseType: s.dbType,
	}

	counts := make(map[string]int)
	for i, k := range s.keys {
		if s.missing[i] {
			v.Missing++
			continue
		}
		v.Count++
		counts[k]++
	}
	v.MissingPct = percent(v.Missing, rows)
	v.Distinct = len(counts)
	v.DistinctPct = percent(v.Distinct, v.Count)
	for _, c := range counts {
		if c == 1 {
			v.Unique++
		}
	}
	v.IsUnique = v.Count > 0 && v.Distinct == v.Count

	switch s.typ {
	case TypeNumeric:
		v.Numeric = numericStats(s, v.Distinct, cfg.MaxBins)
	case TypeCategorical, TypeText:
		v.Categorical = categoricalStats(s, cfg.TopN, cfg.Explorative)
	case TypeBoolean:
		v.Boolean = booleanStats(s)
	case TypeDateTime:
		v.DateTime = dateTimeStats(s, v.Distinct, cfg.MaxBins)
	}
	return v
}

func duplicateRows(f *frame.Frame) int {
	if f.NumCols() == 0 {
		return 0
	}
	seen := make(map[string]struct{}, f.NumRows())
	var b strings.Builder
	for _, row := range f.Rows {
		b.Reset()
		for _, v := range row {
			b.WriteString(frame.FormatValue(v))
			b.WriteByte(0x1f)
		}
		seen[b.String()] = struct{}{}
	}
	return f.NumRows() - len(seen)
}

func sample(f *frame.Frame, n int) Sample {
	return Sample{
		Columns: f.Names(),
		Head:    formatRows(f.Head(n)),
		Tail:    formatRows(f.Tail(n)),
	}
}

func formatRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = frame.FormatValue(v)
		}
	}
	return out
}
