package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// RequestLogger attaches a request-scoped logger carrying the request ID to
// the user context. Handlers retrieve it with LoggerFromCtx.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := slog.Default()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			logger = logger.With("request_id", rid)
		}
		c.SetUserContext(context.WithValue(c.UserContext(), loggerKey, logger))
		return c.Next()
	}
}

// LoggerFromCtx returns the request logger, or the default logger.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// AccessLog writes one structured line per request. 4xx logs at warn and
// 5xx or handler errors at error.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		switch {
		case err != nil || status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", len(c.Response().Body())),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		LoggerFromCtx(c.UserContext()).LogAttrs(c.UserContext(), level, "http request", attrs...)
		return err
	}
}
