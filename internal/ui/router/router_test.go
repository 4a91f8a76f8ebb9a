package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	dashboardFeature "github.com/leapstack-labs/leapprofile/internal/ui/features/dashboard"
	"github.com/leapstack-labs/leapprofile/internal/ui/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, isDev bool) (http.Handler, *metrics.Memory) {
	t.Helper()
	f := features.SetupTestFixture(t, 5)

	r := chi.NewMux()
	require.NoError(t, SetupRoutes(r, Config{
		Dashboard: dashboardFeature.Config{
			Controller:   f.Controller,
			Tables:       f.Adapter,
			SessionStore: f.SessionStore,
			Notifier:     f.Notifier,
			Metrics:      f.Metrics,
		},
		Runs:    f.History,
		Metrics: f.Metrics,
		IsDev:   isDev,
	}))
	return r, f.Metrics
}

func TestSetupRoutes(t *testing.T) {
	r, mem := newTestRouter(t, false)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/runs", http.StatusOK},
		{http.MethodGet, "/static/app.css", http.StatusOK},
		{http.MethodGet, "/download/unknown", http.StatusNotFound},
		{http.MethodPost, "/api/profile/unknown/cancel", http.StatusNotFound},
		{http.MethodGet, "/reload", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}

	assert.Equal(t, 1.0, mem.Counter(metrics.HTTPRequestTotal, metrics.Labels{
		"method": http.MethodGet, "route": "/runs", "status": "200",
	}))
	assert.Equal(t, 1.0, mem.Counter(metrics.HTTPRequestTotal, metrics.Labels{
		"method": http.MethodGet, "route": "/download/{token}", "status": "404",
	}))
}

func TestSetupRoutes_DevReload(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "@get('/reload'")
}
