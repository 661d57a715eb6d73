// Package logger configures the process-wide slog logger and carries
// request-scoped loggers through the context.
package logger

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// L is the global logger, set by InitLogger.
var L = slog.Default()

type contextKey string

const loggerKey contextKey = "logger"

// ParseLevel maps a LOG_LEVEL string onto a slog.Level. Unknown values
// report ok=false and yield Info.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// InitLogger installs a JSON handler at the given level as the default
// logger. Call once at startup, after loading config.
func InitLogger(levelStr string) *slog.Logger {
	level, ok := ParseLevel(levelStr)
	if !ok {
		slog.Warn("invalid LOG_LEVEL, defaulting to info", "configured", levelStr)
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	L = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(L)
	return L
}

// FromContext retrieves the request logger, or the global logger if none
// was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return L
}

// ToContext embeds a logger into ctx.
func ToContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Middleware attaches a logger tagged with chi's request id. It must run
// after middleware.RequestID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := L
		if id := middleware.GetReqID(r.Context()); id != "" {
			l = l.With("request_id", id)
		}
		next.ServeHTTP(w, r.WithContext(ToContext(r.Context(), l)))
	})
}
