// Package logging builds the slog handlers used by the command line tools.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Logger returns a logger writing to w. Text output is colourized by tint
// unless w is not a terminal-like *os.File; json switches to slog's JSON
// handler. Attributes stored with AppendCtx are added to every record.
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: level < slog.LevelInfo})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			AddSource:  level < slog.LevelInfo,
			NoColor:    !isTerminal(w),
		})
	}
	return slog.New(&ContextHandler{Handler: h})
}

// ContextHandler adds the attributes carried by the context to each record.
type ContextHandler struct {
	slog.Handler
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx returns a child context carrying attr in addition to any
// attributes already attached.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	prev, _ := parent.Value(ctxKey{}).([]slog.Attr)
	attrs := make([]slog.Attr, 0, len(prev)+1)
	attrs = append(attrs, prev...)
	attrs = append(attrs, attr)
	return context.WithValue(parent, ctxKey{}, attrs)
}

// FileWriter returns a size-rotated log file. maxSizeMB and maxBackups of 0
// fall back to lumberjack's defaults.
func FileWriter(path string, maxSizeMB, maxBackups int) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
