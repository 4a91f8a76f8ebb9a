// Package runs provides run history handlers for the UI.
package runs

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapprofile/internal/history"
	"github.com/leapstack-labs/leapprofile/internal/ui/features/common"
	"github.com/leapstack-labs/leapprofile/internal/ui/notifier"
	"github.com/starfederation/datastar-go/datastar"
)

// defaultLimit is the number of runs shown.
const defaultLimit = 50

//go:embed templates/*.html
var templateFS embed.FS

var templates = common.Templates(templateFS, nil)

// Lister reads recent runs.
type Lister interface {
	Recent(ctx context.Context, limit int) ([]*history.Run, error)
}

// Handlers provides HTTP handlers for the runs history feature.
type Handlers struct {
	store    Lister
	notifier *notifier.Notifier
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store Lister, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		store:    store,
		notifier: notify,
		isDev:    isDev,
	}
}

// List renders the runs table.
func List(runs []*history.Run) templ.Component {
	return common.Fragment(templates, "list", runs)
}

// RunsPage renders the runs history page with full content.
func (h *Handlers) RunsPage(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.Recent(r.Context(), defaultLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := common.Fragment(templates, "page", runs)
	if err := common.Page("Run history", "/runs", h.isDev, page).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RunsListSSE sends the list of recent runs via SSE.
func (h *Handlers) RunsListSSE(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := h.sendList(r.Context(), sse, limit); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// RunsUpdatesSSE is the long-lived SSE endpoint for the runs page. The
// page is rendered in full first; this only pushes changes.
func (h *Handlers) RunsUpdatesSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(notifier.TopicRuns)
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendList(ctx, sse, defaultLimit); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) sendList(ctx context.Context, sse *datastar.ServerSentEventGenerator, limit int) error {
	runs, err := h.store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return sse.PatchElementTempl(List(runs))
}
