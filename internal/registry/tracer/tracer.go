// Package tracer provides a lightweight tracing abstraction for the registry.
//
// The interface keeps the registry decoupled from OpenTelemetry APIs:
// NoopTracer serves tests, OTelTracer adapts the global provider for
// production.
package tracer

import "context"

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Uint64 creates an attribute from an unsigned id.
func Uint64(key string, value uint64) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Span names used by the registry.
const (
	SpanAddRecord    = "registry.add_record"
	SpanVerifyRecord = "registry.verify_record"
	SpanGetRecord    = "registry.get_record"
	SpanTotalRecords = "registry.total_records"
)

// Attribute keys used by the registry.
const (
	AttrRecordID = "record.id"
	AttrVerified = "record.verified"
	AttrSubject  = "caller.subject"
)
