// Package controllers holds the JSON endpoints of the site.
package controllers

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/sitekit"
	"github.com/dmitrymomot/sitekit/internal/config"
)

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
}

// Status reports build and runtime information.
type Status struct {
	env     config.Environment
	version string
	started time.Time
}

// NewStatus creates the status controller. Uptime counts from this call.
func NewStatus(env config.Environment, version string) *Status {
	return &Status{env: env, version: version, started: time.Now()}
}

// Routes declares the status route.
func (s *Status) Routes(r sitekit.Router) {
	r.GET("/api/status", s.status)
}

func (s *Status) status(c sitekit.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Status:      "ok",
		Environment: string(s.env),
		Version:     s.version,
		Uptime:      time.Since(s.started).Truncate(time.Second).String(),
	})
}
