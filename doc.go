// Package p13 hosts front-controller web applications on GoFiber.
//
// Every request goes through a single catch-all route. The request URL is
// decomposed by the urlparts package, mapped onto an install subdirectory,
// module, controller, method and arguments by the resolver package, and the
// matching controller action is invoked with a request-scoped Context.
//
// It provides:
//
//   - Request-scoped Context carrying the Logger, Config and resolved route
//   - Controller registration keyed by module and controller name
//   - Dispatch defaults for URLs that leave the controller or method out
//   - Built-in middleware for recovery, security headers and request logging
//   - Application lifecycle management with graceful shutdown
//   - Support for both slog and zap logging via adapters
//
// # Usage
//
//	cfg, err := config.Load("shop")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := p13.NewLogger(cfg, nil)
//
//	app, err := p13.NewApplication(p13.ApplicationOptions{
//	    Config: cfg,
//	    Logger: p13.NewSlogAdapter(logger),
//	    RouteMountFunc: func(s *p13.Server) {
//	        s.Register("", "products", p13.Actions{
//	            "index": listProducts,
//	            "show":  showProduct,
//	        })
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(app.Run())
//
// With the front controller at public/index.php, a request for
// /shop/public/index.php/products/show/42 runs showProduct with the
// argument "42", and so does /shop/products/show/42 once the document root
// contains shop/public/index.php.
//
// # Handlers
//
//	func showProduct(ctx *p13.Context) error {
//	    id, _ := ctx.Arg(0)
//	    return ctx.JSON(fiber.Map{"id": id})
//	}
package p13
