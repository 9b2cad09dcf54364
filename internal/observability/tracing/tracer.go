package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "municipal-portal"

// GetTracer returns the portal tracer from the current global provider.
// It is looked up on every call so providers installed later (tests) take effect.
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
