package api

import (
	"crypto/subtle"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adify/rewards/internal/metrics"
)

// ErrorHandler renders every error returned by a handler as the JSON envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed",
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		message = "Internal Server Error"
	}
	return sendError(c, status, code, message)
}

// LoggingMiddleware logs each request and records its latency.
func LoggingMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status, _ = statusFor(err)
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		attrs := []any{
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("took", duration),
			slog.String("ip", c.IP()),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		slog.Log(c.Context(), level, "HTTP request processed", attrs...)

		if m != nil {
			m.RequestDuration.
				WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
				Observe(duration.Seconds())
		}
		return err
	}
}

// AdminRequired checks the bearer token against the configured admin token.
// With no token configured every admin request is rejected.
func AdminRequired(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		given, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			slog.Warn("Admin request rejected",
				slog.String("type", "api"),
				slog.String("path", c.Path()),
				slog.String("ip", c.IP()))
			return fiber.NewError(fiber.StatusUnauthorized, "admin token required")
		}
		return c.Next()
	}
}
