package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"squo/internal/config"
	"squo/internal/metrics"
)

const (
	contentType       = "text/plain; version=0.0.4; charset=utf-8"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Scraper renders one exposition document per call.
type Scraper interface {
	Scrape(ctx context.Context, sc metrics.ScrapeContext) (string, error)
}

// Server serves the metrics endpoint tied to a lifecycle context.
// Params: bound listener, HTTP server, and logger for diagnostics.
// Returns: runnable exporter server.
type Server struct {
	listen string
	ln     net.Listener
	server *http.Server
	logger *slog.Logger
}

// New binds the exporter listener and wires the metrics route.
// Params: cfg exporter section; scraper renders documents; logger root logger.
// Returns: server instance or bind error.
func New(cfg config.ExporterConfig, scraper Scraper, logger *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen %q: %w", cfg.Listen, err)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, NewHandler(scraper, metrics.NewScrapeContext(cfg.Mounts), cfg.ScrapeTimeout.Duration, logger))

	return &Server{
		listen: cfg.Listen,
		ln:     ln,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}, nil
}

// Addr returns bound listener address.
// Params: none.
// Returns: listener address (useful with port 0).
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Run starts serving and shuts down on context cancellation.
// Params: ctx lifecycle context.
// Returns: nil on graceful stop; error on early serve failures.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.ln)
	}()

	s.logger.Info("exporter listening", slog.String("listen", s.ln.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		err := <-errCh
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("exporter server stopped unexpectedly", slog.String("listen", s.listen), slog.String("error", err.Error()))
		return err
	}
}

// Close releases the listener of a server that was never run.
// Params: none.
// Returns: listener close error.
func (s *Server) Close() error {
	return s.ln.Close()
}

type handler struct {
	scraper Scraper
	sc      metrics.ScrapeContext
	timeout time.Duration
	logger  *slog.Logger
}

// NewHandler creates the scrape handler: one orchestrator run per GET.
// Params: scraper renders documents; sc per-request configuration; timeout bounds a scrape (0 disables); logger diagnostics.
// Returns: HTTP handler.
func NewHandler(scraper Scraper, sc metrics.ScrapeContext, timeout time.Duration, logger *slog.Logger) http.Handler {
	return &handler{
		scraper: scraper,
		sc:      sc,
		timeout: timeout,
		logger:  logger,
	}
}

// ServeHTTP answers 200 with the document or 500 when any collector fails.
// Params: w response writer; r request.
// Returns: none.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	started := time.Now()
	document, err := h.scraper.Scrape(ctx, h.sc)
	if err != nil {
		h.logger.Error("scrape failed",
			slog.String("remote", r.RemoteAddr),
			slog.Duration("elapsed", time.Since(started)),
			slog.String("error", err.Error()),
		)
		http.Error(w, fmt.Sprintf("scrape failed: %v", err), http.StatusInternalServerError)
		return
	}

	h.logger.Debug("scrape served",
		slog.String("remote", r.RemoteAddr),
		slog.Duration("elapsed", time.Since(started)),
		slog.Int("bytes", len(document)),
	)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(document))
}
