// Package ui serves the profiling dashboard.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapprofile/internal/controller"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	"github.com/leapstack-labs/leapprofile/internal/seed"
	"github.com/leapstack-labs/leapprofile/internal/ui/features/dashboard"
	"github.com/leapstack-labs/leapprofile/internal/ui/features/runs"
	"github.com/leapstack-labs/leapprofile/internal/ui/notifier"
	"github.com/leapstack-labs/leapprofile/internal/ui/router"
	"golang.org/x/sync/errgroup"
)

// debounce delays seed reloads until a burst of writes settles.
const debounce = 100 * time.Millisecond

// Target is the database the dashboard profiles and seeds.
type Target interface {
	dashboard.TableLister
	seed.Loader
}

// Config holds configuration for the UI server.
type Config struct {
	Controller    *controller.Controller
	Target        Target
	History       runs.Lister
	Metrics       metrics.Backend
	Host          string
	Port          int
	Watch         bool
	SeedsDir      string
	SessionSecret string
	IsDev         bool
	Logger        *slog.Logger

	// OnListen is called with the dashboard URL once the port is bound.
	OnListen func(url string)
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg          Config
	sessionStore *sessions.CookieStore
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// Cookies then only survive until restart.
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}

	return &Server{
		cfg:          cfg,
		sessionStore: sessionStore,
		logger:       cfg.Logger,
		notifier:     notifier.New(),
	}
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Handler builds the routed handler.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Config{
		Dashboard: dashboard.Config{
			Controller:   s.cfg.Controller,
			Tables:       s.cfg.Target,
			SessionStore: s.sessionStore,
			Notifier:     s.notifier,
			Metrics:      s.cfg.Metrics,
			Logger:       s.logger,
		},
		Runs:    s.cfg.History,
		Metrics: s.cfg.Metrics,
		IsDev:   s.cfg.IsDev,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	url := "http://" + displayAddr(ln.Addr())
	s.logger.Info("starting UI server", slog.String("addr", url))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch && s.cfg.SeedsDir != "" && s.cfg.Target != nil {
		eg.Go(func() error {
			return s.watchSeeds(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if s.cfg.OnListen != nil {
		s.cfg.OnListen(url)
	}

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// displayAddr rewrites wildcard listen addresses to localhost.
func displayAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP.IsUnspecified() {
		port := 0
		if ok {
			port = tcp.Port
		}
		return fmt.Sprintf("localhost:%d", port)
	}
	return tcp.String()
}

// watchSeeds reloads changed CSV files from the seeds directory and tells
// suggestion streams to refresh.
func (s *Server) watchSeeds(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.cfg.SeedsDir); err != nil {
		s.logger.Error("failed to watch seeds directory", slog.String("dir", s.cfg.SeedsDir), slog.String("error", err.Error()))
		<-ctx.Done()
		return nil
	}

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !seed.IsSeedFile(event.Name) {
				continue
			}

			path := event.Name
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounce, func() {
				s.reloadSeed(ctx, path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}

func (s *Server) reloadSeed(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	table, err := seed.LoadFile(ctx, s.cfg.Target, path, s.logger)
	if err != nil {
		s.logger.Error("seed reload failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("seed reloaded", slog.String("table", table))
	s.notifier.Broadcast(notifier.TopicTables)
}
