// Package server serves the commit history dashboard and its JSON API over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
	"github.com/Sumatoshi-tech/locmeta/pkg/profile"
)

const (
	defaultAddr            = "127.0.0.1:8080"
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

var ginMode sync.Once

// ProfileFetcher looks up a GitHub profile.
type ProfileFetcher interface {
	Fetch(ctx context.Context, username string) (*profile.Profile, error)
}

// Options configures a Server. Zero values use defaults.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Dashboard dashboard.Options
	Page      dashboard.PageOptions

	Profiles ProfileFetcher
	Username string

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// Server serves one immutable commit history.
type Server struct {
	opts    Options
	commits []commits.Summary
	engine  *gin.Engine

	mu         sync.RWMutex
	profile    *profile.Profile
	profileErr error
}

// New creates a server over a chronologically sorted commit list.
func New(all []commits.Summary, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	ginMode.Do(func() { gin.SetMode(gin.ReleaseMode) })

	s := &Server{opts: opts, commits: all}
	s.engine = s.routes()

	return s
}

// Handler returns the traced HTTP handler.
func (s *Server) Handler() http.Handler {
	return observability.HTTPMiddleware(s.opts.Tracer, s.opts.Metrics, s.engine)
}

// FetchProfile looks up the configured profile once. Failures are kept and
// shown inline on the page.
func (s *Server) FetchProfile(ctx context.Context) {
	if s.opts.Profiles == nil || s.opts.Username == "" {
		return
	}

	p, err := s.opts.Profiles.Fetch(ctx, s.opts.Username)
	if err != nil {
		s.opts.Logger.WarnContext(ctx, "profile lookup failed", "user", s.opts.Username, "error", err)
	}

	s.mu.Lock()
	s.profile, s.profileErr = p, err
	s.mu.Unlock()
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       s.opts.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.FetchProfile(gctx)

		return nil
	})

	g.Go(func() error {
		s.opts.Logger.InfoContext(ctx, "dashboard listening",
			"addr", ln.Addr().String(), "commits", len(s.commits))

		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		s.opts.Logger.Info("dashboard stopped")

		return nil
	})

	return g.Wait()
}

func (s *Server) profileState() (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.profile, s.profileErr
}
