// Package middleware provides the fiber middleware the p13 server installs
// in front of its catch-all dispatch route.
package middleware

// Logger is the logging surface the middleware needs. It matches p13.Logger.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// RouteKey is the fiber.Locals key under which the server stores the
// dispatch target ("module/controller.method") of the current request.
const RouteKey = "p13_route"
