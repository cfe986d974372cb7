// Package httpapi serves the tracker over HTTP under /api, plus /metrics.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/waterrun/internal/chart"
	"github.com/roach88/waterrun/internal/metrics"
	"github.com/roach88/waterrun/internal/model"
	"github.com/roach88/waterrun/internal/notify"
	"github.com/roach88/waterrun/internal/suggest"
	"github.com/roach88/waterrun/internal/tracker"
)

// Service is the tracker surface the API exposes.
type Service interface {
	State(ctx context.Context) (tracker.State, error)
	RecordRun(ctx context.Context, req tracker.RecordRequest) (tracker.RecordResult, error)
	History(ctx context.Context, page, limit int) ([]model.RunView, error)
	Suggest(ctx context.Context) (suggest.Suggestion, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
	Remind(ctx context.Context) (tracker.RemindResult, error)
	NotifierStatus() notify.Status
	OverrideScore(ctx context.Context, participantID int64, score int) (tracker.State, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	svc     Service
	metrics *metrics.Metrics
	ids     IDGenerator
	palette chart.Palette
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request latency and mounts /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithIDGenerator overrides how request ids are made.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Server) { s.ids = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithPalette sets the chart colors.
func WithPalette(p chart.Palette) Option {
	return func(s *Server) { s.palette = p }
}

// New creates a Server.
func New(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		ids:     UUIDv7Generator{},
		palette: chart.DefaultPalette,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/record", s.handleRecord)
		r.Get("/history", s.handleHistory)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/export/csv", s.handleExportCSV)
		r.Get("/export/xlsx", s.handleExportXLSX)
		r.Get("/chart.png", s.handleChart)
		r.Post("/remind", s.handleRemind)
		r.Get("/notify/status", s.handleNotifyStatus)
		r.Post("/override", s.handleOverride)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}
	return r
}

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
