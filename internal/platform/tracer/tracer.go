// Package tracer provides a small tracing abstraction for the verifier.
//
// Stores and use cases depend on the Tracer interface rather than on
// OpenTelemetry directly. NoopTracer serves tests; OTelTracer adapts the
// global OpenTelemetry provider for production.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span and returns a context carrying it.
	//
	//   ctx, span := t.Start(ctx, tracer.SpanStoreLoadByID,
	//       tracer.String(tracer.AttrTransactionID, txID.String()),
	//   )
	//   defer span.End(err)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Fingerprint returns a short SHA-256 prefix of a bearer value so request ids
// and response codes can be correlated in traces without being exposed.
func Fingerprint(value string) string {
	if value == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanStoreSave            = "presentation.store.save"
	SpanStoreLoadByID        = "presentation.store.load_by_id"
	SpanStoreLoadByRequestID = "presentation.store.load_by_request_id"
	SpanWalletPost           = "presentation.wallet.post"
)

// Attribute keys.
const (
	AttrTransactionID = "transaction_id"
	AttrRequestID     = "request_id.fp"
	AttrBackend       = "kv.backend"
	AttrResult        = "query.result"
	AttrResponseMode  = "response_mode"
)

// Event names.
const (
	EventMalformedRecord = "record.malformed"
	EventDanglingIndex   = "index.dangling"
)
