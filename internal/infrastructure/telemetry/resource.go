// Package telemetry wires the gateway's OpenTelemetry signals (traces,
// metrics, logs) and Pyroscope continuous profiling. Every provider here is
// safe to construct with its signal disabled; it then degrades to a no-op so
// call sites never need nil checks.
package telemetry

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// shutdownTimeout bounds how long a provider may block flushing its queue
// during gateway shutdown.
const shutdownTimeout = 10 * time.Second

// serviceVersion is reported on every exported signal.
const serviceVersion = "1.0.0"

// newResource describes this gateway instance to the collector. All three
// signal providers share it so traces, metrics and logs correlate on the
// same service identity.
func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}
	return res, nil
}
