// Package pages serves the server-rendered pages of the site.
package pages

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/sitekit"
	"github.com/dmitrymomot/sitekit/internal/config"
	"github.com/dmitrymomot/sitekit/middlewares"
	"github.com/dmitrymomot/sitekit/pkg/markdown"
)

const (
	robotsDisallowAll = "User-agent: *\nDisallow: /\n"
	robotsAllowAll    = "User-agent: *\nAllow: /\n"

	errorMessage    = "An error occurred while processing your request."
	notFoundMessage = "The page you are looking for does not exist."
)

// Pages renders markdown documents and the utility pages.
type Pages struct {
	docs *markdown.Renderer
	env  config.Environment
}

// New creates the pages handler.
func New(docs *markdown.Renderer, env config.Environment) *Pages {
	return &Pages{docs: docs, env: env}
}

// Routes declares the page routes.
func (p *Pages) Routes(r sitekit.Router) {
	r.GET("/", p.index)
	r.GET("/privacy", p.privacy)
	r.GET("/robotstxt", p.robots)
	r.GET("/error", p.error)
}

func (p *Pages) index(c sitekit.Context) error {
	return p.document(c, "index")
}

func (p *Pages) privacy(c sitekit.Context) error {
	c.LogInfo("Privacy page loaded")
	return p.document(c, "privacy")
}

func (p *Pages) document(c sitekit.Context, name string) error {
	doc, err := p.docs.Render(c, name)
	if errors.Is(err, markdown.ErrNotFound) {
		return p.NotFound(c)
	}
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, documentView(doc))
}

// robots keeps crawlers out of everything but production.
func (p *Pages) robots(c sitekit.Context) error {
	if p.env.IsDevelopment() {
		return c.String(http.StatusOK, robotsDisallowAll)
	}
	return c.String(http.StatusOK, robotsAllowAll)
}

// error is the target of the exception handler. Requested directly it answers 200.
func (p *Pages) error(c sitekit.Context) error {
	status := http.StatusOK
	if exc, ok := middlewares.ExceptionFromContext(c); ok {
		status = exc.Status
	}
	return c.Render(status, statusView(status, errorMessage))
}

// NotFound renders the 404 page.
func (p *Pages) NotFound(c sitekit.Context) error {
	return c.Render(http.StatusNotFound, statusView(http.StatusNotFound, notFoundMessage))
}
