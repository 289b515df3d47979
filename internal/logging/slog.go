package logging

import (
	"context"
	"log/slog"
	"strings"
)

// SlogLogger adapts *slog.Logger to Logger. It is the default backend.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}

// newSlog writes text records, or JSON when opts.Format is "json".
func newSlog(opts Options) Logger {
	ho := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(opts.Output, ho)
	} else {
		h = slog.NewTextHandler(opts.Output, ho)
	}
	return NewSlogLogger(slog.New(h))
}

func slogLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(orDefault(s, "info"))); err != nil {
		return slog.LevelInfo
	}
	return l
}

var _ Logger = (*SlogLogger)(nil)
