// Package store persists presentations under two keys: the internal
// transaction id and the wallet-facing request id. Both entries share one
// retention window set at write time; once it elapses, lookups by either key
// report NotFound.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"verifier/internal/platform/tracer"
	"verifier/internal/presentation/metrics"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	"verifier/internal/presentation/store/kv"
	id "verifier/pkg/domain"
)

const (
	// Key namespaces. The version segment moves with incompatible key layouts.
	idKeyPrefix        = "v1:id:"
	requestIDKeyPrefix = "v1:request_id:"

	// DefaultTTL is the retention window of a presentation.
	DefaultTTL = 24 * time.Hour
)

// TransactionStore is the dual-indexed presentation store.
//
// Writes put the primary record before the request-id index entry so a
// concurrent reader can at worst see a dangling index entry, which reads as
// NotFound. Backend faults are returned as errors and never retried here.
type TransactionStore struct {
	backend kv.Backend
	ttl     time.Duration
	tracer  tracer.Tracer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures the TransactionStore.
type Option func(*TransactionStore)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *TransactionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *TransactionStore) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TransactionStore) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *TransactionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a TransactionStore over backend.
func New(backend kv.Backend, opts ...Option) *TransactionStore {
	s := &TransactionStore{
		backend: backend,
		ttl:     DefaultTTL,
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the retention window applied to every write.
func (s *TransactionStore) TTL() time.Duration {
	return s.ttl
}

// Store writes the presentation under both keys, replacing any previous
// version of it. Concurrent writers of the same presentation race with
// last-writer-wins semantics.
func (s *TransactionStore) Store(ctx context.Context, p *models.Presentation) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanStoreSave,
		tracer.String(tracer.AttrTransactionID, p.ID.String()),
		tracer.String(tracer.AttrRequestID, tracer.Fingerprint(p.RequestID.String())),
	)
	defer func() {
		span.End(err)
		s.observe("save", start)
	}()

	data, err := encodePresentation(p)
	if err != nil {
		return err
	}
	if err = s.backend.Put(ctx, idKey(p.ID), data, s.ttl); err != nil {
		return fmt.Errorf("store presentation %s: %w", p.ID, err)
	}
	if err = s.backend.Put(ctx, requestIDKey(p.RequestID), p.ID.String(), s.ttl); err != nil {
		return fmt.Errorf("store request id index for %s: %w", p.ID, err)
	}
	return nil
}

// LoadByID returns Found or NotFound. The error is non-nil only for backend faults.
func (s *TransactionStore) LoadByID(ctx context.Context, txID id.TransactionID) (result query.Result[*models.Presentation], err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanStoreLoadByID,
		tracer.String(tracer.AttrTransactionID, txID.String()),
	)
	defer func() {
		span.SetAttributes(tracer.String(tracer.AttrResult, result.String()))
		span.End(err)
		s.observe("load_by_id", start)
	}()

	return s.loadByID(ctx, span, txID)
}

// LoadByRequestID resolves the request id through the secondary index and then
// loads the primary record. A miss on either hop is NotFound.
func (s *TransactionStore) LoadByRequestID(ctx context.Context, requestID id.RequestID) (result query.Result[*models.Presentation], err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanStoreLoadByRequestID,
		tracer.String(tracer.AttrRequestID, tracer.Fingerprint(requestID.String())),
	)
	defer func() {
		span.SetAttributes(tracer.String(tracer.AttrResult, result.String()))
		span.End(err)
		s.observe("load_by_request_id", start)
	}()

	txID, ok, err := s.backend.Get(ctx, requestIDKey(requestID))
	if err != nil {
		return query.NotFound[*models.Presentation](), fmt.Errorf("load request id index: %w", err)
	}
	if !ok || txID == "" {
		return query.NotFound[*models.Presentation](), nil
	}

	result, err = s.loadByID(ctx, span, id.TransactionID(txID))
	if err != nil {
		return result, err
	}
	return query.Fold(result,
		func(p *models.Presentation) query.Result[*models.Presentation] {
			if p.RequestID != requestID {
				// index points at a presentation bound to another request id
				s.logger.WarnContext(ctx, "request id index mismatch", "transaction_id", p.ID)
				return query.NotFound[*models.Presentation]()
			}
			return query.Found(p)
		},
		func() query.Result[*models.Presentation] {
			span.AddEvent(tracer.EventDanglingIndex)
			return query.NotFound[*models.Presentation]()
		},
		query.InvalidState[*models.Presentation],
	), nil
}

func (s *TransactionStore) loadByID(ctx context.Context, span tracer.Span, txID id.TransactionID) (query.Result[*models.Presentation], error) {
	data, ok, err := s.backend.Get(ctx, idKey(txID))
	if err != nil {
		return query.NotFound[*models.Presentation](), fmt.Errorf("load presentation %s: %w", txID, err)
	}
	if !ok {
		return query.NotFound[*models.Presentation](), nil
	}

	p, err := decodePresentation(data)
	if err != nil {
		span.AddEvent(tracer.EventMalformedRecord)
		if s.metrics != nil {
			s.metrics.IncrementMalformedRecord()
		}
		s.logger.WarnContext(ctx, "unreadable presentation record treated as absent",
			"transaction_id", txID,
			"reason", err.Error(),
		)
		return query.NotFound[*models.Presentation](), nil
	}
	if p.ID != txID {
		s.logger.WarnContext(ctx, "presentation record stored under foreign key", "transaction_id", txID)
		return query.NotFound[*models.Presentation](), nil
	}
	return query.Found(p), nil
}

func (s *TransactionStore) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStore(operation, start)
	}
}

func idKey(txID id.TransactionID) string {
	return idKeyPrefix + txID.String()
}

func requestIDKey(requestID id.RequestID) string {
	return requestIDKeyPrefix + requestID.String()
}
