package logging

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// New builds the process logger. Non-JSON output is meant for local runs.
func New(level string, jsonOut bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	var w io.Writer = os.Stdout
	if !jsonOut {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// RequestLogger logs one line per request after the handler chain ran.
// Errors are rendered through the app's ErrorHandler first so the logged
// status is the one the client gets.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start))
		if rid, ok := c.Locals("requestid").(string); ok {
			ev = ev.Str("request_id", rid)
		}
		if uid, ok := c.Locals("userId").(string); ok {
			ev = ev.Str("user_id", uid)
		}
		ev.Msg("request")
		return nil
	}
}
