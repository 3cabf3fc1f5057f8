package nest

import (
	"context"
	"log/slog"
)

type logCtxKey struct{}

// logger returns the logger attached to ctx by LoggingContext, or one that
// discards everything.
func logger(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(logCtxKey{}).(*slog.Logger)
	if !ok || l == nil {
		return slog.New(noopHandler{})
	}
	return l
}

// LoggingContext returns a copy of ctx that carries logger. Passes rendered
// with the returned context log to it.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (n noopHandler) WithAttrs([]slog.Attr) slog.Handler { return n }

func (n noopHandler) WithGroup(string) slog.Handler { return n }
