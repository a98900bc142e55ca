package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger emits one structured log line per request, including the
// controller action the request was dispatched to.
// Health check endpoints (/_health) are not logged to reduce noise.
//
// Errors are rendered by the error handler after the middleware chain
// unwinds, so statusOf maps a returned error to the status that will be
// sent. A nil statusOf only understands *fiber.Error.
func RequestLogger(logger Logger, statusOf func(error) int) fiber.Handler {
	if statusOf == nil {
		statusOf = fiberStatus
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		stop := time.Since(start)

		path := c.Path()
		if strings.HasPrefix(path, "/_health") {
			return err
		}

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}

		route, _ := c.Locals(RouteKey).(string)
		logger.Info("http request",
			"method", c.Method(),
			"path", path,
			"route", route,
			"status", status,
			"duration", stop,
			"ip", c.IP(),
		)

		return err
	}
}

func fiberStatus(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
