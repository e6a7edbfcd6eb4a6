package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"squo/internal/config"
)

// New builds root logger from console/file sink config.
// Params: cfg logging section of validated config.
// Returns: logger, close callback for file sinks, and setup error.
func New(cfg config.LogConfig) (*slog.Logger, func(), error) {
	handlers := make([]slog.Handler, 0, 2)
	closers := make([]io.Closer, 0, 1)

	if cfg.Console.Enabled {
		handler, err := newSinkHandler(consoleWriter(os.Stderr, cfg.Console.Format), cfg.Console)
		if err != nil {
			return nil, nil, fmt.Errorf("log.console: %w", err)
		}
		handlers = append(handlers, handler)
	}

	if cfg.File.Enabled {
		file, err := os.OpenFile(cfg.File.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("log.file: open %q: %w", cfg.File.Path, err)
		}
		handler, err := newSinkHandler(file, cfg.File)
		if err != nil {
			_ = file.Close()
			return nil, nil, fmt.Errorf("log.file: %w", err)
		}
		handlers = append(handlers, handler)
		closers = append(closers, file)
	}

	closeFn := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closeFn, nil
	case 1:
		return slog.New(handlers[0]), closeFn, nil
	default:
		return slog.New(fanoutHandler(handlers)), closeFn, nil
	}
}

// newSinkHandler creates a text or JSON handler for one sink.
// Params: w sink writer; sink level/format options.
// Returns: slog handler or unsupported option error.
func newSinkHandler(w io.Writer, sink config.LogSinkConfig) (slog.Handler, error) {
	level, err := parseLevel(sink.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(strings.TrimSpace(sink.Format)) {
	case "", "line":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", sink.Format)
	}
}

// parseLevel maps config level names to slog levels.
// Params: level is config level name.
// Returns: slog level or error.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported level %q", level)
	}
}

// consoleWriter wraps terminal output with ANSI coloring for line format.
// Params: file console stream; format sink format.
// Returns: writer used by console handler.
func consoleWriter(file *os.File, format string) io.Writer {
	if strings.ToLower(strings.TrimSpace(format)) == "json" || !isTerminal(file) {
		return file
	}
	return &colorLineWriter{dst: file}
}

// isTerminal reports whether file is attached to a TTY.
func isTerminal(file *os.File) bool {
	_, err := unix.IoctlGetTermios(int(file.Fd()), unix.TCGETS)
	return err == nil
}

// fanoutHandler dispatches each record to all sink handlers.
type fanoutHandler []slog.Handler

// Enabled reports true when any sink accepts the level.
// Params: ctx logging context; level record level.
// Returns: true when at least one sink is enabled.
func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards record clones to enabled sinks.
// Params: ctx logging context; record log record.
// Returns: joined sink errors.
func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns fanout over sinks with attrs attached.
// Params: attrs attributes to attach.
// Returns: derived handler.
func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, 0, len(h))
	for _, handler := range h {
		out = append(out, handler.WithAttrs(attrs))
	}
	return out
}

// WithGroup returns fanout over sinks with group opened.
// Params: name group name.
// Returns: derived handler.
func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, 0, len(h))
	for _, handler := range h {
		out = append(out, handler.WithGroup(name))
	}
	return out
}
