package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"sp3clock/internal/logging"
)

// Logger logs each HTTP request as one JSON line with request_id, method,
// path, status and latency in milliseconds.
func Logger(log *logging.Logger) fiber.Handler {
	log = log.With("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		entry := map[string]any{
			"event":      "http_request",
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if msg, ok := c.Locals(ErrorLocalKey).(string); ok {
			entry["error_message"] = msg
		}
		if status >= fiber.StatusInternalServerError {
			entry["level"] = "error"
		}
		log.Write(entry)
		return err
	}
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.NewWithWriter(w, loc, "http"))
}
