// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapprofile/internal/controller"
	"github.com/leapstack-labs/leapprofile/internal/history"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	"github.com/leapstack-labs/leapprofile/internal/testutil"
	"github.com/leapstack-labs/leapprofile/internal/ui/notifier"
	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/leapstack-labs/leapprofile/pkg/adapters/sqlite"
)

// SalesTable is the table seeded by SetupTestFixture.
const SalesTable = "SALES"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Adapter      *sqlite.Adapter
	History      *history.SQLiteStore
	Controller   *controller.Controller
	Metrics      *metrics.Memory
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	TempDir      string
}

// SetupTestFixture connects an in-memory sqlite target seeded with
// salesRows rows of SalesTable and wires a controller that records into
// an in-memory history store.
func SetupTestFixture(t *testing.T, salesRows int) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	ctx := context.Background()

	a := sqlite.New(logger)
	require.NoError(t, a.Connect(ctx, adapter.Config{Type: "sqlite"}))
	t.Cleanup(func() { _ = a.Close() })
	testutil.SeedSales(t, a.DB, SalesTable, salesRows)

	store := history.NewSQLiteStore(logger)
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	mem := metrics.NewMemory()
	tmpDir := t.TempDir()

	ctrl := controller.New(a,
		controller.WithTempDir(tmpDir),
		controller.WithTarget("test"),
		controller.WithLogger(logger),
		controller.WithMetrics(mem),
		controller.WithRecorder(store),
	)

	return &TestFixture{
		Adapter:      a,
		History:      store,
		Controller:   ctrl,
		Metrics:      mem,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		TempDir:      tmpDir,
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context that expires after
// timeout, ending long-lived SSE handlers.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
