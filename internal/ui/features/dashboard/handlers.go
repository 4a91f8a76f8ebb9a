// Package dashboard provides the profiling page: table input, streamed
// progress, result area and report download.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapprofile/internal/controller"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	"github.com/leapstack-labs/leapprofile/internal/ui/features/common"
	"github.com/leapstack-labs/leapprofile/internal/ui/notifier"
	"github.com/leapstack-labs/leapprofile/pkg/core"
	"github.com/starfederation/datastar-go/datastar"
)

// maxSuggestions caps the datalist size.
const maxSuggestions = 200

// TableLister lists the tables offered as input suggestions.
type TableLister interface {
	ListTables(ctx context.Context) ([]core.TableRef, error)
}

// Config holds the dashboard dependencies.
type Config struct {
	Controller   *controller.Controller
	Tables       TableLister
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Metrics      metrics.Backend
	Logger       *slog.Logger
	DownloadTTL  time.Duration
	IsDev        bool
}

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	controller   *controller.Controller
	tables       TableLister
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	metrics      metrics.Backend
	logger       *slog.Logger
	tasks        *Tasks
	downloads    *Downloads
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg Config) *Handlers {
	h := &Handlers{
		controller:   cfg.Controller,
		tables:       cfg.Tables,
		sessionStore: cfg.SessionStore,
		notifier:     cfg.Notifier,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		tasks:        NewTasks(),
		downloads:    NewDownloads(cfg.DownloadTTL),
		isDev:        cfg.IsDev,
	}
	if h.metrics == nil {
		h.metrics = metrics.Nop{}
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	if h.notifier == nil {
		h.notifier = notifier.New()
	}
	return h
}

type profileSignals struct {
	Table string `json:"table"`
}

// HomePage renders the dashboard.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	data := HomeData{
		Suggestions: h.recentTables(r),
		Benefits:    Benefits,
		Progress:    stageProgress(controller.StageIdle),
	}
	if err := common.Page("Profile", "/", h.isDev, Home(data)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ProfileSSE runs the pipeline for the bound table name and streams
// progress and the result.
func (h *Handlers) ProfileSSE(w http.ResponseWriter, r *http.Request) {
	var signals profileSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, fmt.Sprintf("invalid signals: %v", err), http.StatusBadRequest)
		return
	}

	// The cookie has to be set before the SSE stream sends headers.
	if name, err := controller.ValidateIdentifier(signals.Table); err == nil {
		h.rememberTable(w, r, name)
	}

	sse := datastar.NewSSE(w, r)

	task, ctx := h.tasks.Start(r.Context(), signals.Table)
	defer h.tasks.Finish(task.ID)

	_ = sse.MarshalAndPatchSignals(map[string]any{"runId": task.ID, "running": true})
	_ = sse.PatchElementTempl(Result(ResultData{}))

	obs := controller.ObserverFuncs{
		Stage: func(stage controller.Stage) {
			_ = sse.PatchElementTempl(Progress(stageProgress(stage)))
		},
		Column: func(column string, done, total int) {
			p := stageProgress(controller.StageProfiling)
			p.Column, p.Done, p.Total = column, done, total
			_ = sse.PatchElementTempl(Progress(p))
		},
	}

	res, err := h.controller.Run(ctx, signals.Table, obs)
	if err != nil && !res.Cancelled {
		h.logger.Debug("profiling run failed", slog.String("task", task.ID), slog.String("error", err.Error()))
	}

	var downloadURL string
	if res.Download != nil {
		downloadURL = "/download/" + h.downloads.Put(res.Download)
	}
	view, err := newResultData(ctx, res, downloadURL)
	if err != nil {
		_ = sse.ConsoleError(err)
		view = ResultData{Error: controller.FormatError(err)}
	}
	if err := sse.PatchElementTempl(Result(view)); err != nil {
		_ = sse.ConsoleError(err)
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{"runId": "", "running": false})

	if res.Report != nil || res.Error != "" || res.Cancelled {
		h.notifier.Broadcast(notifier.TopicRuns)
	}
}

// CancelProfile cancels a running profile request.
func (h *Handlers) CancelProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.tasks.Cancel(id) {
		http.Error(w, "no running profile with that id", http.StatusNotFound)
		return
	}
	h.logger.Info("profile cancelled by user", slog.String("task", id))
	w.WriteHeader(http.StatusNoContent)
}

// Download serves a finished report until its token expires.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	dl, ok := h.downloads.Get(chi.URLParam(r, "token"))
	if !ok {
		http.Error(w, "report not found or expired", http.StatusNotFound)
		return
	}

	h.metrics.IncCounter(metrics.DownloadsTotal, 1, metrics.Labels{
		"format": strings.TrimPrefix(filepath.Ext(dl.Name), "."),
	})

	w.Header().Set("Content-Type", dl.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(dl.Data); err != nil {
		h.logger.Debug("download interrupted", slog.String("error", err.Error()))
	}
}

// TablesSSE sends table name suggestions and resends them whenever the
// target's tables change.
func (h *Handlers) TablesSSE(w http.ResponseWriter, r *http.Request) {
	recent := h.recentTables(r)
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(notifier.TopicTables)
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	send := func() {
		names, err := h.suggestions(ctx, recent)
		if err != nil {
			_ = sse.ConsoleError(err)
		}
		if err := sse.PatchElementTempl(Suggestions(names)); err != nil {
			_ = sse.ConsoleError(err)
		}
	}

	send()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			send()
		}
	}
}

// suggestions merges recent names with the target's tables. A listing
// error still returns the recent names.
func (h *Handlers) suggestions(ctx context.Context, recent []string) ([]string, error) {
	seen := make(map[string]struct{}, len(recent))
	names := make([]string, 0, len(recent))
	add := func(name string) {
		if _, ok := seen[name]; ok || len(names) >= maxSuggestions {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, name := range recent {
		add(name)
	}

	if h.tables == nil {
		return names, nil
	}
	refs, err := h.tables.ListTables(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return names, nil
		}
		return names, fmt.Errorf("failed to list tables: %w", err)
	}
	var dialect *core.DialectConfig
	if d, ok := h.tables.(interface{ DialectConfig() *core.DialectConfig }); ok {
		dialect = d.DialectConfig()
	}
	for _, ref := range refs {
		add(ref.DisplayName(dialect))
	}
	return names, nil
}
