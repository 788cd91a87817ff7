// Package httpclient provides the shared outbound HTTP client, a thin wrapper
// over resty with an OpenTelemetry transport.
//
//	client := httpclient.New(
//		httpclient.WithTimeout(5*time.Second),
//		httpclient.WithUserAgent("sitekit/1.0"),
//	)
//	resp, err := client.R().SetContext(ctx).Get("https://example.com/status")
//
// One client is created at startup and shared by all requests, so the
// connection pool is reused.
package httpclient
