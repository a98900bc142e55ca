package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// Recover creates a panic recovery middleware using Fiber's built-in recover.
// Recovered panics are logged with their stack and turned into a 500.
func Recover(logger Logger) fiber.Handler {
	return fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.Error("panic recovered",
				"panic", fmt.Sprint(e),
				"path", c.Path(),
				"route", c.Locals(RouteKey),
				"stack", string(debug.Stack()),
			)
		},
	})
}
