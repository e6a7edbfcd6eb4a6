package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	pprofhttp "net/http/pprof"
	"sync"
	"time"

	"squo/internal/config"
)

const (
	pprofShutdownTimeout = 3 * time.Second
	pprofReadHeaderTO    = 2 * time.Second
)

// pprofRoutes maps debug paths to profile handlers; named profiles resolve through Index.
var pprofRoutes = map[string]http.HandlerFunc{
	"/debug/pprof/":        pprofhttp.Index,
	"/debug/pprof/cmdline": pprofhttp.Cmdline,
	"/debug/pprof/profile": pprofhttp.Profile,
	"/debug/pprof/symbol":  pprofhttp.Symbol,
	"/debug/pprof/trace":   pprofhttp.Trace,
}

// startPprofServer serves profiling endpoints on a listener separate from the exporter.
// Params: ctx bounds server lifetime; cfg enabled flag and listen address; logger for lifecycle events.
// Returns: idempotent stop func and bind error. Disabled config yields a no-op stop.
func startPprofServer(ctx context.Context, cfg config.PprofConfig, logger *slog.Logger) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen pprof %q: %w", cfg.Listen, err)
	}
	addr := listener.Addr().String()

	mux := http.NewServeMux()
	for pattern, handler := range pprofRoutes {
		mux.HandleFunc(pattern, handler)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: pprofReadHeaderTO,
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), pprofShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("pprof shutdown failed", slog.String("error", err.Error()))
			}
		})
	}

	go func() {
		<-ctx.Done()
		stop()
	}()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof serve failed", slog.String("addr", addr), slog.String("error", err.Error()))
		}
	}()

	logger.Info("pprof listening", slog.String("addr", addr))
	return stop, nil
}
