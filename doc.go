// Package sitekit is the startup layer of a server-rendered web site: it
// declares process-wide services and an explicit, ordered request pipeline in
// front of a chi router.
//
// Everything is plain Go. An App is built from options, serves through an
// ordered list of named stages and ends in routing:
//
//	app := sitekit.New(
//	    sitekit.WithCustomLogger(log),
//	    sitekit.WithRouting(sitekit.RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true}),
//	    sitekit.WithRouteAlias("/robots.txt", "/robotstxt"),
//	    sitekit.WithPipeline(sitekit.Pipeline{
//	        {Name: "forwarded-headers", Middleware: middlewares.ForwardedHeaders(forwarded.DefaultProxies)},
//	        {Name: "frame-options", Middleware: middlewares.FrameOptions("SAMEORIGIN")},
//	    }),
//	    sitekit.WithHandlers(pages.New(docs, config.Production)),
//	)
//
//	if err := app.Run(":8080", sitekit.ShutdownTimeout(30*time.Second)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type Pages struct{ docs *markdown.Renderer }
//
//	func (p *Pages) Routes(r sitekit.Router) {
//	    r.GET("/", p.index)
//	    r.GET("/privacy", p.privacy)
//	}
//
//	func (p *Pages) privacy(c sitekit.Context) error {
//	    doc, err := p.docs.Render(c, "privacy")
//	    if err != nil {
//	        return err
//	    }
//	    return c.Render(http.StatusOK, documentView(doc))
//	}
//
// Route patterns go through the same [RoutingConventions] as request paths, so
// "/Privacy" and "/privacy/" reach the handler declared for "/privacy".
//
// # Pipeline
//
// A [Pipeline] is a slice of [Stage] values applied in slice order; the first
// stage sees the request first and routing always runs last. A stage may answer
// and stop, or call next and inspect the returned error. [When] keeps
// environment branches readable:
//
//	p := sitekit.Pipeline{forwarded}
//	p = append(p, sitekit.When(dev, developerPage)...)
//	p = append(p, sitekit.When(!dev, exceptionHandler, httpsRedirect, hsts)...)
//
// Middlewares given to [WithMiddleware] wrap routing only and run after every
// stage.
//
// # Errors
//
// Handlers return errors. They travel back through the middlewares and stages,
// and whatever is left goes to the [ErrorHandler]. [HTTPError] carries a
// status; [StatusOf] reports 500 for anything else.
//
// # Services
//
// Cookies, the auth cookie, sessions, the shared [HTTPClient] and health
// endpoints are configured once with options and reached through [Context].
package sitekit
