package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys recorded by the tracing middleware.
const (
	AttrHTTPMethod = attribute.Key("http.method")
	AttrHTTPRoute  = attribute.Key("http.route")
	AttrHTTPStatus = attribute.Key("http.status_code")
	AttrRequestID  = attribute.Key("request.id")
)
