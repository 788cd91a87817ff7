// Package telemetry sets up OpenTelemetry tracing.
//
// [InitTracer] installs a global provider with a stdout exporter and
// W3C trace context propagation. [Handler] and [Transport] instrument the
// server side and the outbound HTTP client. Without InitTracer both use the
// no-op global provider, so they are safe to install unconditionally.
package telemetry
