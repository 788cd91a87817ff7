package startup

import (
	"github.com/dmitrymomot/sitekit"
	"github.com/dmitrymomot/sitekit/internal/config"
	"github.com/dmitrymomot/sitekit/internal/controllers"
	"github.com/dmitrymomot/sitekit/internal/pages"
	"github.com/dmitrymomot/sitekit/pkg/markdown"
)

// Routing lowercases URLs and appends a trailing slash, for route patterns and
// request paths alike.
var Routing = sitekit.RoutingConventions{
	LowercaseURLs:       true,
	AppendTrailingSlash: true,
}

// Alias maps a public path onto a route.
type Alias struct {
	Path   string
	Target string
}

// Aliases are applied before route dispatch.
var Aliases = []Alias{
	{Path: "/robots.txt", Target: "/robotstxt"},
}

// Routes returns the route table: pages, controllers and the not found page.
func Routes(cfg config.Config, docs *markdown.Renderer) []sitekit.Option {
	p := pages.New(docs, cfg.Environment)

	return []sitekit.Option{
		sitekit.WithHandlers(
			p,
			controllers.NewStatus(cfg.Environment, cfg.Version),
		),
		sitekit.WithNotFoundHandler(p.NotFound),
	}
}
