package ui

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapprofile/internal/testutil"
	"github.com/leapstack-labs/leapprofile/internal/ui/features"
	"github.com/leapstack-labs/leapprofile/internal/ui/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, cfg Config) (*Server, string) {
	t.Helper()
	urls := make(chan string, 1)
	cfg.Host = "127.0.0.1"
	cfg.Logger = testutil.NewTestLogger(t)
	cfg.OnListen = func(url string) { urls <- url }

	srv := NewServer(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errc:
			assert.NoError(t, err)
		case <-time.After(6 * time.Second):
			t.Error("server did not shut down")
		}
	})

	select {
	case url := <-urls:
		return srv, url
	case err := <-errc:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	return nil, ""
}

func TestServer_Serve(t *testing.T) {
	f := features.SetupTestFixture(t, 5)
	_, url := startServer(t, Config{
		Controller: f.Controller,
		Target:     f.Adapter,
		History:    f.History,
	})

	resp, err := http.Get(url + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Welcome to Exploratory Data Analysis App")

	resp, err = http.Get(url + "/runs")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_WatchSeeds(t *testing.T) {
	f := features.SetupTestFixture(t, 1)
	dir := t.TempDir()

	srv, _ := startServer(t, Config{
		Controller: f.Controller,
		Target:     f.Adapter,
		Watch:      true,
		SeedsDir:   dir,
	})

	updates := srv.Notifier().Subscribe(notifier.TopicTables)
	defer srv.Notifier().Unsubscribe(updates)

	path := filepath.Join(dir, "regions.csv")
	require.Eventually(t, func() bool {
		// rewrite until the watcher has registered the directory
		if err := os.WriteFile(path, []byte("code,name\nN,North\nS,South\n"), 0o600); err != nil {
			return false
		}
		select {
		case <-updates:
			return true
		case <-time.After(300 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	var n int
	require.NoError(t, f.Adapter.DB.QueryRow(`SELECT COUNT(*) FROM "regions"`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestNewServer_EmptySecret(t *testing.T) {
	srv := NewServer(Config{})
	assert.NotNil(t, srv.sessionStore)
	assert.NotNil(t, srv.Notifier())
}
