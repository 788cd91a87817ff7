package internal

// Handler declares routes on a router.
//
// Example:
//
//	type Pages struct {
//	    docs *markdown.Renderer
//	}
//
//	func (p *Pages) Routes(r sitekit.Router) {
//	    r.GET("/", p.index)
//	    r.GET("/privacy", p.privacy)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the enclosing middlewares
// and finally to the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// The error returned by next is the error of everything downstream,
// including route handlers.
//
// Example:
//
//	func Timing(next sitekit.HandlerFunc) sitekit.HandlerFunc {
//	    return func(c sitekit.Context) error {
//	        start := time.Now()
//	        err := next(c)
//	        c.LogInfo("request served", "duration", time.Since(start))
//	        return err
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors nobody else handled.
type ErrorHandler func(Context, error) error

// Chain composes middlewares around h. The first middleware is the outermost.
func Chain(h HandlerFunc, mw ...Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			h = mw[i](h)
		}
	}
	return h
}
