package startup

import (
	"io/fs"

	"github.com/dmitrymomot/sitekit"
	"github.com/dmitrymomot/sitekit/internal/config"
	"github.com/dmitrymomot/sitekit/middlewares"
)

// Stage names, in pipeline order.
const (
	StageForwardedHeaders       = "forwarded-headers"
	StageDeveloperExceptionPage = "developer-exception-page"
	StageExceptionHandler       = "exception-handler"
	StageHTTPSRedirection       = "https-redirection"
	StageHSTS                   = "hsts"
	StageStaticFiles            = "static-files"
	StageFrameOptions           = "frame-options"
	StageHealthcheck            = "healthcheck"
)

const (
	// ErrorPath is where production errors are re-executed.
	ErrorPath = "/Error"
	// HealthcheckPath answers before routing.
	HealthcheckPath = "/healthcheck"
	// FrameOptions is the X-Frame-Options value of every page.
	FrameOptions = "SAMEORIGIN"
)

// Pipeline returns the stages that run before routing.
func Pipeline(cfg config.Config, policy config.Policy, static fs.FS) sitekit.Pipeline {
	detailed := policy.ErrorPage == config.DetailedErrors

	p := sitekit.Pipeline{
		{Name: StageForwardedHeaders, Middleware: middlewares.ForwardedHeaders(cfg.Proxies())},
	}

	p = append(p, sitekit.When(detailed,
		sitekit.Stage{Name: StageDeveloperExceptionPage, Middleware: middlewares.DeveloperExceptionPage()},
	)...)
	p = append(p, sitekit.When(!detailed,
		sitekit.Stage{Name: StageExceptionHandler, Middleware: middlewares.ExceptionHandler(ErrorPath)},
	)...)
	p = append(p, sitekit.When(policy.EnforceHTTPS,
		sitekit.Stage{Name: StageHTTPSRedirection, Middleware: middlewares.HTTPSRedirect(cfg.HTTPSPort)},
		sitekit.Stage{Name: StageHSTS, Middleware: middlewares.HSTS(
			middlewares.WithHSTSMaxAge(cfg.HSTS.MaxAge),
			middlewares.WithHSTSIncludeSubdomains(cfg.HSTS.IncludeSubdomains),
			middlewares.WithHSTSPreload(cfg.HSTS.Preload),
		)},
	)...)

	return append(p,
		sitekit.Stage{Name: StageStaticFiles, Middleware: middlewares.StaticFiles(static, policy.StaticCacheMaxAge)},
		sitekit.Stage{Name: StageFrameOptions, Middleware: middlewares.FrameOptions(FrameOptions)},
		sitekit.Stage{Name: StageHealthcheck, Middleware: middlewares.Healthcheck(HealthcheckPath)},
	)
}
