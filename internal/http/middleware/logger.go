package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes one access log line per request through the global zerolog logger.
func Logger() fiber.Handler {
	return accessLog(func() *zerolog.Logger { return &log.Logger }, time.UTC)
}

// LoggerWithWriter writes bare JSON access log lines to w, timestamped in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	l := zerolog.New(w)
	return accessLog(func() *zerolog.Logger { return &l }, loc)
}

// Fields: request_id, method, path (no query string), status, latency (ms) and ts.
func accessLog(get func() *zerolog.Logger, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := responseStatus(c, err)
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		l := get()
		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error()
		case status >= fiber.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Str("ts", time.Now().In(loc).Format(time.RFC3339Nano)).
			Msg("http_request")

		return err
	}
}
