// Package internal provides the core types and implementation for the sitekit framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/sitekit"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Owns the request pipeline, the router and the server lifecycle
//   - Pipeline: Ordered, named stages that run before routing
//   - Context: Request/response access, cookies, sessions and authentication
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns
//   - ErrorHandler: Handles errors nobody else handled
//
// # Request Flow
//
// Every request goes through the pipeline stages in order, then through the
// global middlewares, then through the router. A stage that does not call next
// ends the request. Errors returned by route handlers travel back through the
// stages, so an exception stage sees them like any other error:
//
//	app := internal.New(
//	    internal.WithPipeline(internal.Pipeline{
//	        {Name: "forwarded-headers", Middleware: middlewares.ForwardedHeaders(forwarded.DefaultProxies)},
//	        {Name: "frame-options", Middleware: middlewares.FrameOptions("SAMEORIGIN")},
//	    }),
//	    internal.WithHandlers(pages),
//	)
//
// # Routing Conventions
//
// With RoutingConventions enabled, route patterns and request paths are
// normalized the same way: static segments are lowercased and a trailing slash
// is appended. The request URL itself is not rewritten.
//
//	internal.WithRouting(internal.RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true})
//	internal.WithRouteAlias("/robots.txt", "/robotstxt")
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to database
// calls and HTTP clients:
//
//	func (p *Pages) privacy(c sitekit.Context) error {
//	    doc, err := p.docs.Render(c, "privacy.md")
//	    if err != nil {
//	        return err
//	    }
//	    return c.Render(http.StatusOK, views.Document(doc))
//	}
//
// # Graceful Shutdown
//
// Run listens for SIGINT and SIGTERM, stops accepting connections and waits for
// in-flight requests up to the shutdown timeout. Shutdown hooks run afterwards
// so pools and clients close after the last request.
package internal
