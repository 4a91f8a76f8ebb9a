package dashboard

import (
	"log/slog"
	"net/http"
)

const (
	sessionName = "leapprofile"
	recentKey   = "recent_tables"
	maxRecent   = 10
)

// recentTables returns the table names this browser profiled, newest first.
func (h *Handlers) recentTables(r *http.Request) []string {
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return nil
	}
	recent, _ := sess.Values[recentKey].([]string)
	return recent
}

// rememberTable adds table to the session cookie. It must run before any
// response body is written.
func (h *Handlers) rememberTable(w http.ResponseWriter, r *http.Request, table string) {
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("discarding unreadable session", slog.String("error", err.Error()))
	}
	recent, _ := sess.Values[recentKey].([]string)
	sess.Values[recentKey] = pushRecent(recent, table, maxRecent)
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("failed to save session", slog.String("error", err.Error()))
	}
}

// pushRecent moves name to the front of list, dropping duplicates and
// anything past limit.
func pushRecent(list []string, name string, limit int) []string {
	out := make([]string, 0, min(len(list)+1, limit))
	out = append(out, name)
	for _, s := range list {
		if len(out) == limit {
			break
		}
		if s != name {
			out = append(out, s)
		}
	}
	return out
}
