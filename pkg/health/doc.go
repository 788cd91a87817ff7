// Package health runs dependency checks for readiness reporting.
//
//	checker := health.New(health.WithTimeout(3*time.Second), health.WithLogger(log))
//	_ = checker.Add("redis", redis.Healthcheck(client))
//	_ = checker.Add("postgres", db.Healthcheck(pool))
//
//	report := checker.Run(ctx)
//	if !report.Healthy() {
//		// respond 503
//	}
//
// Checks run concurrently. The report marks the whole service unhealthy when
// any check fails or does not finish before the timeout.
package health
