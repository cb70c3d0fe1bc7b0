package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"photocat/internal/config"
)

// LogFileName is the name of the rotating log file inside the log directory.
const LogFileName = "photocat.log"

// photocatHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
type photocatHandler struct {
	w     io.Writer
	level slog.Level
	opID  string
	attrs []slog.Attr
}

func (h *photocatHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *photocatHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")

	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s", ts, r.Level.String(), h.opID, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	// One write per record keeps lines whole in the rotating file.
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *photocatHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &photocatHandler{
		w:     h.w,
		level: h.level,
		opID:  h.opID,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *photocatHandler) WithGroup(string) slog.Handler { return h }

// parseLevel maps a config log level to a slog level. Empty means info.
func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
}

// newLogger creates a structured logger that writes to a rotating
// <log_dir>/photocat.log and to stderr. The returned closer releases the log file.
func newLogger(cfg *config.Config, opID string, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, LogFileName),
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
	}

	w := io.Writer(rotating)
	if stderr != nil {
		w = io.MultiWriter(rotating, stderr)
	}
	handler := &photocatHandler{w: w, level: level, opID: opID}
	return slog.New(handler), rotating, nil
}

// slogAdapter wraps *slog.Logger to satisfy the catalog.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
