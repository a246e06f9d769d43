package main

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/exp/slog"
)

type LogHandler struct {
	level slog.Level
	mu    *sync.Mutex
	out   io.Writer
}

func NewLogHandler(o io.Writer, level slog.Level) *LogHandler {
	return &LogHandler{
		out:   o,
		level: level,
		mu:    &sync.Mutex{},
	}
}

func InitLogging() {
	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, slog.LevelInfo)))
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	strs := []string{r.Time.Format("2006/01/02 15:04:05"), r.Level.String(), r.Message}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Key+"="+a.Value.String())
			return true
		})
	}

	result := strings.Join(strs, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.out.Write([]byte(result))

	return err
}
