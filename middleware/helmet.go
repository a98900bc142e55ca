package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
)

// Helmet creates a security headers middleware using Fiber's built-in helmet.
func Helmet() fiber.Handler {
	return helmet.New(helmet.Config{
		ReferrerPolicy: "same-origin",
	})
}
