package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapprofile/internal/history"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	"github.com/leapstack-labs/leapprofile/internal/profile"
	"github.com/leapstack-labs/leapprofile/internal/report"
	"github.com/leapstack-labs/leapprofile/internal/testutil"
	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/leapstack-labs/leapprofile/pkg/adapters/sqlite"
	"github.com/leapstack-labs/leapprofile/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingQuerier records every query it forwards.
type countingQuerier struct {
	Querier
	mu      sync.Mutex
	queries []string
}

func (q *countingQuerier) Query(ctx context.Context, sql string) (*core.Rows, error) {
	q.mu.Lock()
	q.queries = append(q.queries, sql)
	q.mu.Unlock()
	return q.Querier.Query(ctx, sql)
}

// memRecorder keeps recorded runs in memory.
type memRecorder struct {
	mu   sync.Mutex
	runs []*history.Run
}

func (r *memRecorder) Record(_ context.Context, run *history.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

// stageRecorder collects observed stages.
type stageRecorder struct {
	stages  []Stage
	columns []string
}

func (s *stageRecorder) OnStage(stage Stage)              { s.stages = append(s.stages, stage) }
func (s *stageRecorder) OnColumn(column string, _, _ int) { s.columns = append(s.columns, column) }

func newSalesDB(t *testing.T, rows int) *sqlite.Adapter {
	t.Helper()
	a := sqlite.New(testutil.NewTestLogger(t))
	require.NoError(t, a.Connect(context.Background(), adapter.Config{Type: "sqlite"}))
	t.Cleanup(func() { _ = a.Close() })
	testutil.SeedSales(t, a.DB, "SALES", rows)
	return a
}

func newTestController(t *testing.T, q Querier, opts ...Option) (*Controller, string) {
	t.Helper()
	dir := t.TempDir()
	opts = append([]Option{WithTempDir(dir), WithLogger(testutil.NewTestLogger(t))}, opts...)
	return New(q, opts...), dir
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "report temp files must be removed")
}

// =============================================================================
// Validation
// =============================================================================

func TestRun_EmptyIdentifier(t *testing.T) {
	q := &countingQuerier{Querier: newSalesDB(t, 1)}
	c, _ := newTestController(t, q)

	for _, input := range []string{"", "   ", "\t\n"} {
		res, err := c.Run(context.Background(), input, nil)
		require.NoError(t, err)
		assert.Equal(t, WarnEmptyIdentifier, res.Warning)
		assert.Nil(t, res.Report)
		assert.Nil(t, res.Download)
		assert.Empty(t, res.Error)
	}
	assert.Empty(t, q.queries)
}

func TestRun_InvalidIdentifier(t *testing.T) {
	q := &countingQuerier{Querier: newSalesDB(t, 1)}
	c, _ := newTestController(t, q)

	res, err := c.Run(context.Background(), "SALES; DROP TABLE SALES", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Warning, WarnEmptyIdentifier))
	assert.Contains(t, res.Warning, "not a valid identifier")
	assert.Nil(t, res.Report)
	assert.Empty(t, q.queries)
}

// =============================================================================
// Pipeline
// =============================================================================

func TestRun_Sales(t *testing.T) {
	q := &countingQuerier{Querier: newSalesDB(t, 50)}
	rec := &memRecorder{}
	mem := metrics.NewMemory()
	c, dir := newTestController(t, q, WithRecorder(rec), WithMetrics(mem), WithTarget("sqlite"))
	obs := &stageRecorder{}

	res, err := c.Run(context.Background(), "  SALES ", obs)
	require.NoError(t, err)
	require.True(t, res.OK())

	assert.Equal(t, []string{"SELECT * FROM SALES"}, q.queries)
	assert.Equal(t, "SALES", res.Table)
	assert.Empty(t, res.Warning)
	assert.False(t, res.TableSkipped)
	require.NotNil(t, res.Data)
	assert.Equal(t, 50, res.Data.NumRows())
	assert.Equal(t, 4, res.Data.NumCols())

	assert.Equal(t, "Data Profiling Report", res.Report.Title)
	assert.Equal(t, "SALES", res.Report.Table)
	assert.Equal(t, profile.TypeDateTime, res.Report.Variable("sold_at").Type)

	assert.Equal(t, "full_report.html", res.Download.Name)
	assert.Equal(t, "text/html", res.Download.MIME)
	assert.Contains(t, string(res.Download.Data), "Data Profiling Report")

	assert.Equal(t, []Stage{StageValidating, StageQuerying, StageProfiling, StageExporting, StageReady}, obs.stages)
	assert.Equal(t, testutil.SalesColumns, obs.columns)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, history.StatusSuccess, rec.runs[0].Status)
	assert.Equal(t, 50, rec.runs[0].Rows)
	assert.Equal(t, "sqlite", rec.runs[0].Target)
	assert.InDelta(t, 1, mem.Counter(metrics.RunsTotal, metrics.Labels{"status": "success"}), 1e-9)

	assertNoTempFiles(t, dir)
}

func TestRun_DisplayRowLimit(t *testing.T) {
	tests := []struct {
		rows    int
		skipped bool
	}{
		{DisplayRowLimit - 1, false},
		{DisplayRowLimit, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d rows", tt.rows), func(t *testing.T) {
			c, _ := newTestController(t, newSalesDB(t, tt.rows))

			res, err := c.Run(context.Background(), "SALES", nil)
			require.NoError(t, err)
			require.True(t, res.OK())
			assert.Equal(t, tt.rows, res.RowCount)
			assert.Equal(t, tt.skipped, res.TableSkipped)
			if tt.skipped {
				assert.Nil(t, res.Data)
				assert.Equal(t, "DataFrame has more than 10,000 rows. Skipping display of the table.", res.Warning)
			} else {
				require.NotNil(t, res.Data)
				assert.Equal(t, tt.rows, res.Data.NumRows())
				assert.Empty(t, res.Warning)
			}
		})
	}
}

func TestRun_EmptyResult(t *testing.T) {
	c, dir := newTestController(t, newSalesDB(t, 0))

	res, err := c.Run(context.Background(), "SALES", nil)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.NotNil(t, res.Data)
	assert.Equal(t, 0, res.Data.NumRows())
	assert.Equal(t, 4, res.Data.NumCols())
	assert.True(t, res.Report.HasAlert(profile.AlertEmpty, ""))
	assertNoTempFiles(t, dir)
}

func TestRun_ExtremeFloats(t *testing.T) {
	a := sqlite.New(testutil.NewTestLogger(t))
	require.NoError(t, a.Connect(context.Background(), adapter.Config{Type: "sqlite"}))
	t.Cleanup(func() { _ = a.Close() })
	_, err := a.DB.Exec(`CREATE TABLE T (x REAL); INSERT INTO T VALUES (-1e308), (0), (1e308)`)
	require.NoError(t, err)

	for _, f := range []report.Format{report.FormatHTML, report.FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			c, dir := newTestController(t, a, WithFormat(f))

			res, err := c.Run(context.Background(), "T", nil)
			require.NoError(t, err)
			require.True(t, res.OK(), res.Error)
			assert.Equal(t, 3, res.RowCount)
			assert.NotEmpty(t, res.Download.Data)
			assertNoTempFiles(t, dir)
		})
	}
}

func TestRun_BackendError(t *testing.T) {
	rec := &memRecorder{}
	c, dir := newTestController(t, newSalesDB(t, 1), WithRecorder(rec))
	obs := &stageRecorder{}

	res, err := c.Run(context.Background(), "nope_table", obs)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(res.Error, "❌ Error: "), res.Error)
	assert.Contains(t, res.Error, "nope_table")
	assert.Nil(t, res.Download)
	assert.Nil(t, res.Report)
	assert.False(t, res.OK())
	assert.Equal(t, StageError, obs.stages[len(obs.stages)-1])

	require.Len(t, rec.runs, 1)
	assert.Equal(t, history.StatusFailed, rec.runs[0].Status)
	assert.NotContains(t, rec.runs[0].Error, ErrorPrefix)
	assertNoTempFiles(t, dir)
}

func TestRun_BackendErrorMasksCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT \\* FROM SALES").
		WillReturnError(errors.New("dial postgres://admin:hunter2@db:5432/prod failed"))

	c, _ := newTestController(t, &adapter.BaseSQLAdapter{DB: db})
	res, err := c.Run(context.Background(), "SALES", nil)
	require.Error(t, err)
	assert.NotContains(t, res.Error, "hunter2")
	assert.Contains(t, res.Error, "admin:****@")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_Idempotent(t *testing.T) {
	c, dir := newTestController(t, newSalesDB(t, 50))

	first, err := c.Run(context.Background(), "SALES", nil)
	require.NoError(t, err)
	second, err := c.Run(context.Background(), "SALES", nil)
	require.NoError(t, err)

	require.True(t, first.OK())
	require.True(t, second.OK())
	assert.NotSame(t, first.Report, second.Report)
	assert.Equal(t, first.Report.Overview.Rows, second.Report.Overview.Rows)
	assert.Equal(t, first.Report.Variables, second.Report.Variables)
	assert.NotEmpty(t, first.Download.Data)
	assert.NotEmpty(t, second.Download.Data)
	assertNoTempFiles(t, dir)
}

func TestRun_Cancelled(t *testing.T) {
	rec := &memRecorder{}
	c, dir := newTestController(t, newSalesDB(t, 50), WithRecorder(rec))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	obs := ObserverFuncs{Stage: func(s Stage) {
		if s == StageProfiling {
			cancel()
		}
	}}

	res, err := c.Run(ctx, "SALES", obs)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Cancelled)
	assert.Equal(t, WarnCancelled, res.Warning)
	assert.Empty(t, res.Error)
	assert.Nil(t, res.Download)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, history.StatusCancelled, rec.runs[0].Status)
	assertNoTempFiles(t, dir)
}

func TestRun_Format(t *testing.T) {
	c, _ := newTestController(t, newSalesDB(t, 10), WithFormat(report.FormatJSON))

	res, err := c.Run(context.Background(), "main.SALES", nil)
	require.NoError(t, err)
	assert.Equal(t, "full_report.json", res.Download.Name)
	assert.Equal(t, "application/json", res.Download.MIME)
	assert.Contains(t, string(res.Download.Data), `"title": "Data Profiling Report"`)
}
