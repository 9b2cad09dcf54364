// Package tracing wires OpenTelemetry spans into the portal.
//
// Spans are created through the global tracer provider, so they are no-ops until a
// provider is installed. The HTTP middleware names server spans after the matched
// route pattern and returns the trace ID in X-Trace-Id.
package tracing
