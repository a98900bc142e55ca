package p13

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/p13/resolver"
)

// Context provides request-scoped access to application dependencies.
// It embeds fiber.Ctx to provide all HTTP request/response methods while
// adding direct field access to the logger, config and resolved route.
type Context struct {
	*fiber.Ctx // All Fiber HTTP methods (JSON, SendString, etc.)

	Logger     Logger              // Request logger (shared across app)
	Config     Config              // Runtime configuration
	Resolution resolver.Resolution // Everything derived from the request URL
	Target     Target              // The action being dispatched, defaults applied
}

// HandlerFunc is the signature for p13 request handlers.
type HandlerFunc func(*Context) error

// Arg returns the i-th positional argument after the method.
func (ctx *Context) Arg(i int) (string, bool) {
	if i < 0 || i >= len(ctx.Target.Args) {
		return "", false
	}
	return ctx.Target.Args[i], true
}

// Param returns the decoded query parameter key from the request URL.
func (ctx *Context) Param(key string) (string, bool) {
	v, ok := ctx.Resolution.Query[key]
	return v, ok
}

// contextKey is the fiber.Locals key the request Context is stored under.
const contextKey = "p13_ctx"

// FromFiber returns the p13 Context stored on c by the server, if any.
func FromFiber(c *fiber.Ctx) (*Context, bool) {
	ctx, ok := c.Locals(contextKey).(*Context)
	return ctx, ok
}
