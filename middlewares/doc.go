// Package middlewares provides HTTP middleware for sitekit applications.
//
// Most of them are meant to be pipeline stages, installed in a fixed order
// with sitekit.WithPipeline:
//
//	app := sitekit.New(
//	    sitekit.WithPipeline(sitekit.Pipeline{
//	        {Name: "forwarded-headers", Middleware: middlewares.ForwardedHeaders(proxies)},
//	        {Name: "exception-handler", Middleware: middlewares.ExceptionHandler("/Error")},
//	        {Name: "https-redirection", Middleware: middlewares.HTTPSRedirect(443)},
//	        {Name: "hsts", Middleware: middlewares.HSTS()},
//	        {Name: "static-files", Middleware: middlewares.StaticFiles(assets, 24*time.Hour)},
//	        {Name: "frame-options", Middleware: middlewares.FrameOptions("SAMEORIGIN")},
//	        {Name: "healthcheck", Middleware: middlewares.Healthcheck("/healthcheck")},
//	    }),
//	)
//
// # Forwarded Headers
//
// ForwardedHeaders applies X-Forwarded-For and X-Forwarded-Proto from trusted
// proxies, so later stages see the client address and the original scheme.
// It should run first.
//
// # Exceptions
//
// ExceptionHandler and DeveloperExceptionPage catch errors and panics returned
// by everything after them. ExceptionHandler logs the failure and re-executes
// the pipeline on an error path; the error page reads the failure with
// ExceptionFromContext. DeveloperExceptionPage renders the error, the stack and
// the request instead. Client errors (4xx) are not exceptions and go to the
// app's error handler unchanged.
//
//	func errorPage(c sitekit.Context) error {
//	    status := http.StatusOK
//	    if exc, ok := middlewares.ExceptionFromContext(c); ok {
//	        status = exc.Status
//	    }
//	    return c.Render(status, views.Error())
//	}
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing one set by a proxy.
// Use RequestIDExtractor with the logger to add request_id to every record:
//
//	app := sitekit.New(
//	    sitekit.WithLogger("web", middlewares.RequestIDExtractor()),
//	    sitekit.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover converts panics into *PanicError. The exception stages include it.
package middlewares
