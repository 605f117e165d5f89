// Package logger builds the run's logging handle: a text slog logger
// writing to a log file, optionally echoing warnings and errors to the
// terminal in colour. The handle is passed explicitly into every component
// rather than installed as process-global state, so tests can capture or
// discard it.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
)

// New opens path for appending and returns a logger writing text records to
// it, plus a closer for the underlying file. When echo is non-nil, records
// at warn level and above are also printed there: yellow for warnings, red
// for errors.
func New(path string, echo io.Writer) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	var handler slog.Handler = slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if echo != nil {
		handler = &echoHandler{inner: handler, out: echo, mu: &sync.Mutex{}}
	}
	return slog.New(handler), f, nil
}

// NewDiscard returns a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoHandler forwards every record to the inner handler and mirrors
// warnings and errors to a console writer.
type echoHandler struct {
	inner slog.Handler
	out   io.Writer
	mu    *sync.Mutex
}

func (h *echoHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *echoHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		c := color.New(color.FgYellow)
		if r.Level >= slog.LevelError {
			c = color.New(color.FgRed)
		}
		line := r.Message
		r.Attrs(func(a slog.Attr) bool {
			line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
			return true
		})
		h.mu.Lock()
		c.Fprintln(h.out, line)
		h.mu.Unlock()
	}
	return h.inner.Handle(ctx, r)
}

func (h *echoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &echoHandler{inner: h.inner.WithAttrs(attrs), out: h.out, mu: h.mu}
}

func (h *echoHandler) WithGroup(name string) slog.Handler {
	return &echoHandler{inner: h.inner.WithGroup(name), out: h.out, mu: h.mu}
}
