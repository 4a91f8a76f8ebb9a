//go:build !dev

package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_ServesEmbeddedCSS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, StaticPath("app.css"), nil)
	w := httptest.NewRecorder()

	Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, w.Body.String(), "#4CAF50")
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
}

func TestHandler_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/static/nope.js", nil)
	w := httptest.NewRecorder()

	Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
