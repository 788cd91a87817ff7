// Package startup assembles the site: the services every request can reach,
// the ordered request pipeline and the route table.
//
// Build is the entry point for the process:
//
//	app, hooks, err := startup.Build(ctx, cfg, log)
//
// Services, Pipeline and Routes return the pieces Build combines, so tests can
// assemble the same app over in-memory assets.
package startup
