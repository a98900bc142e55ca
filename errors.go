package p13

import (
	"errors"
	"fmt"
	"html"

	"github.com/gofiber/fiber/v2"
)

// Dispatch errors. Both render as 404 Not Found.
var (
	// ErrControllerNotFound means no controller is registered for the
	// resolved module and controller name.
	ErrControllerNotFound = errors.New("p13: controller not found")

	// ErrActionNotFound means the controller exists but has no action for
	// the resolved method.
	ErrActionNotFound = errors.New("p13: action not found")
)

// DefaultErrorHandler returns a production-ready error handler.
// It returns JSON for API requests and simple HTML for browser requests.
// Error details are only shown to browsers when isDev is set.
func DefaultErrorHandler(logger Logger, isDev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusCode(err)

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"error", err,
				"path", c.Path(),
				"method", c.Method(),
				"status", code,
			)
		} else {
			logger.Debug("request rejected",
				"error", err,
				"path", c.Path(),
				"status", code,
			)
		}

		if c.Accepts(fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
			return c.Status(code).JSON(fiber.Map{
				"error":   ErrorCodeName(code),
				"message": err.Error(),
			})
		}

		errorMsg := ""
		if isDev {
			errorMsg = err.Error()
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(code).SendString(errorHTML(code, ErrorCodeName(code), errorMsg))
	}
}

// StatusCode maps an error returned by a handler to an HTTP status.
func StatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrControllerNotFound), errors.Is(err, ErrActionNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorCodeName returns a human-readable name for common HTTP status codes.
func ErrorCodeName(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "Bad Request"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusForbidden:
		return "Forbidden"
	case fiber.StatusNotFound:
		return "Not Found"
	case fiber.StatusMethodNotAllowed:
		return "Method Not Allowed"
	case fiber.StatusTooManyRequests:
		return "Too Many Requests"
	case fiber.StatusInternalServerError:
		return "Internal Server Error"
	case fiber.StatusBadGateway:
		return "Bad Gateway"
	case fiber.StatusServiceUnavailable:
		return "Service Unavailable"
	default:
		return "Error"
	}
}

// errorHTML generates a simple, styled HTML error page.
func errorHTML(code int, title, message string) string {
	details := ""
	if message != "" {
		details = fmt.Sprintf(`<p style="color:#666;font-size:14px;margin-top:20px;font-family:monospace;background:#f5f5f5;padding:10px;border-radius:4px;">%s</p>`, html.EscapeString(message))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%d - %s</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            min-height: 100vh;
            margin: 0;
            background: #f8f9fa;
            color: #333;
        }
        .container {
            text-align: center;
            padding: 40px;
            max-width: 500px;
        }
        h1 {
            font-size: 72px;
            margin: 0;
            color: #dc3545;
        }
        h2 {
            font-size: 24px;
            margin: 10px 0 20px;
            color: #666;
        }
        a {
            color: #007bff;
            text-decoration: none;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>%d</h1>
        <h2>%s</h2>
        <p><a href="/">← Go back home</a></p>
        %s
    </div>
</body>
</html>`, code, title, code, title, details)
}
