// ABOUTME: slog setup for the gateway binary
// ABOUTME: JSON handler for production, colorized console handler otherwise

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/tucoach/interview-gateway/internal/config"
)

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(newConsoleHandler(os.Stderr, level))
}

// consoleHandler renders one colorized line per record. Group names prefix
// attribute keys the way JSONHandler nests them, so grouped output stays
// consistent across formats.
type consoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Level
	attrs  []slog.Attr
	prefix string
}

func newConsoleHandler(out io.Writer, level slog.Level) *consoleHandler {
	return &consoleHandler{
		mu:    &sync.Mutex{},
		out:   out,
		level: level,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

var levelTags = map[slog.Level]string{
	slog.LevelDebug: color.HiBlackString("DEBUG"),
	slog.LevelInfo:  color.GreenString("INFO "),
	slog.LevelWarn:  color.YellowString("WARN "),
	slog.LevelError: color.New(color.FgRed, color.Bold).Sprint("ERROR"),
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder

	line.WriteString(color.HiBlackString(r.Time.Format("15:04:05.000")))
	line.WriteByte(' ')

	tag, ok := levelTags[r.Level]
	if !ok {
		tag = r.Level.String()
	}
	line.WriteString(tag)
	line.WriteByte(' ')

	line.WriteString(r.Message)

	// Handler-level attrs carry their group prefix from WithAttrs already;
	// record attrs take the prefix in effect at call time.
	for _, a := range h.attrs {
		h.writeAttr(&line, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&line, h.prefix, a)
		return true
	})

	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line.String())
	return err
}

func (h *consoleHandler) writeAttr(line *strings.Builder, prefix string, a slog.Attr) {
	if a.Value.Kind() == slog.KindGroup {
		for _, nested := range a.Value.Group() {
			h.writeAttr(line, prefix+a.Key+".", nested)
		}
		return
	}

	line.WriteString(color.HiBlackString(" " + prefix + a.Key + "="))
	val := a.Value.String()
	if a.Key == "error" {
		val = color.RedString(val)
	}
	line.WriteString(val)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
