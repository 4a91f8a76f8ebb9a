package runs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leapstack-labs/leapprofile/internal/history"
	"github.com/leapstack-labs/leapprofile/internal/ui/features"
	"github.com/leapstack-labs/leapprofile/internal/ui/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Recent(context.Context, int) ([]*history.Run, error) {
	return nil, errors.New("database is locked")
}

func seedRuns(t *testing.T, f *features.TestFixture) {
	t.Helper()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	require.NoError(t, f.History.Record(ctx, &history.Run{
		Table: "SALES", Target: "test", Format: "html", Status: history.StatusSuccess,
		Rows: 50, Columns: 4, Alerts: 2, StartedAt: base, Duration: 1200 * time.Millisecond,
	}))
	require.NoError(t, f.History.Record(ctx, &history.Run{
		Table: "nope_table", Target: "test", Format: "html", Status: history.StatusFailed,
		StartedAt: base.Add(time.Minute), Duration: 30 * time.Millisecond, Error: "no such table: nope_table",
	}))
}

func TestRunsPage(t *testing.T) {
	f := features.SetupTestFixture(t, 1)
	seedRuns(t, f)
	h := NewHandlers(f.History, f.Notifier, false)

	w := httptest.NewRecorder()
	h.RunsPage(w, httptest.NewRequest(http.MethodGet, "/runs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Run history - leapprofile</title>")
	assert.Contains(t, body, "<code>SALES</code>")
	assert.Contains(t, body, "status--success")
	assert.Contains(t, body, "status--failed")
	assert.Contains(t, body, "no such table: nope_table")
	assert.Contains(t, body, "1.2s")
	assert.Contains(t, body, "@get('/api/runs/updates')")
}

func TestRunsPage_Empty(t *testing.T) {
	f := features.SetupTestFixture(t, 1)
	h := NewHandlers(f.History, f.Notifier, false)

	w := httptest.NewRecorder()
	h.RunsPage(w, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Contains(t, w.Body.String(), "No runs yet.")
}

func TestRunsPage_StoreError(t *testing.T) {
	h := NewHandlers(brokenStore{}, notifier.New(), false)

	w := httptest.NewRecorder()
	h.RunsPage(w, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRunsListSSE_Limit(t *testing.T) {
	f := features.SetupTestFixture(t, 1)
	seedRuns(t, f)
	h := NewHandlers(f.History, f.Notifier, false)

	w := httptest.NewRecorder()
	h.RunsListSSE(w, httptest.NewRequest(http.MethodGet, "/api/runs?limit=1", nil))

	body := w.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "nope_table")
	assert.NotContains(t, body, "<code>SALES</code>")
}

func TestRunsUpdatesSSE(t *testing.T) {
	f := features.SetupTestFixture(t, 1)
	h := NewHandlers(f.History, f.Notifier, false)

	req := features.RequestWithTimeout(t, httptest.NewRequest(http.MethodGet, "/api/runs/updates", nil), 500*time.Millisecond)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.RunsUpdatesSSE(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.Notifier.Len() == 1 }, time.Second, 5*time.Millisecond)
	seedRuns(t, f)
	f.Notifier.Broadcast(notifier.TopicRuns)
	<-done

	assert.Contains(t, w.Body.String(), "<code>SALES</code>")
}
