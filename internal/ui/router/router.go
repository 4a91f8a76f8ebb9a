// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	dashboardFeature "github.com/leapstack-labs/leapprofile/internal/ui/features/dashboard"
	runsFeature "github.com/leapstack-labs/leapprofile/internal/ui/features/runs"
	"github.com/leapstack-labs/leapprofile/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// Config carries what the features need.
type Config struct {
	Dashboard dashboardFeature.Config
	Runs      runsFeature.Lister
	Metrics   metrics.Backend
	IsDev     bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, cfg Config) error {
	if cfg.Metrics != nil {
		router.Use(countRequests(cfg.Metrics))
	}

	if cfg.IsDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	cfg.Dashboard.IsDev = cfg.IsDev
	if err := dashboardFeature.SetupRoutes(router, cfg.Dashboard); err != nil {
		return err
	}

	if cfg.Runs != nil {
		if err := runsFeature.SetupRoutes(router, cfg.Runs, cfg.Dashboard.Notifier, cfg.IsDev); err != nil {
			return err
		}
	}

	return nil
}

// countRequests counts requests by route pattern and status code.
func countRequests(b metrics.Backend) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			b.IncCounter(metrics.HTTPRequestTotal, 1, metrics.Labels{
				"method": r.Method,
				"route":  route,
				"status": strconv.Itoa(status),
			})
		})
	}
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
