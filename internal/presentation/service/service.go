// Package service implements the presentation use cases: initiating a
// transaction, serving the wallet its request artifacts, accepting the
// wallet's response, and handing the response to the verifier UI.
//
// Read-side operations return a query.Result plus an error that is non-nil
// only when the store failed.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gojose "github.com/go-jose/go-jose/v3"

	"verifier/internal/jose"
	"verifier/internal/presentation/events"
	"verifier/internal/presentation/metrics"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	id "verifier/pkg/domain"
)

// TransactionStore persists presentations under transaction id and request id.
// Load methods return NotFound for missing, expired or unreadable records and
// an error only for backend faults.
type TransactionStore interface {
	Store(ctx context.Context, p *models.Presentation) error
	LoadByID(ctx context.Context, txID id.TransactionID) (query.Result[*models.Presentation], error)
	LoadByRequestID(ctx context.Context, requestID id.RequestID) (query.Result[*models.Presentation], error)
}

// RequestObjectSigner signs authorization requests with the verifier key.
type RequestObjectSigner interface {
	Sign(claims *jose.RequestObjectClaims) (string, error)
	PublicKeySet() gojose.JSONWebKeySet
}

// Verifier is the verification engine. It checks a submitted presentation
// cryptographically and semantically; a nil error accepts it.
type Verifier interface {
	Verify(ctx context.Context, p *models.Presentation) error
}

// EventPublisher receives presentation lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Config carries the verifier settings the use cases need.
type Config struct {
	PublicURL                  string
	ClientID                   string
	ClientIDScheme             string
	ResponseMode               models.ResponseMode
	JARMode                    models.EmbedMode
	PresentationDefinitionMode models.EmbedMode
	RequestObjectMaxAge        time.Duration
}

const (
	defaultClientIDScheme      = "pre-registered"
	defaultRequestObjectMaxAge = 5 * time.Minute
)

type Option func(*Service)

// Service implements the presentation use cases.
type Service struct {
	store     TransactionStore
	signer    RequestObjectSigner
	verifier  Verifier
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cfg       Config
	now       func() time.Time
}

func New(store TransactionStore, signer RequestObjectSigner, cfg Config, opts ...Option) *Service {
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.ClientIDScheme == "" {
		cfg.ClientIDScheme = defaultClientIDScheme
	}
	if !cfg.ResponseMode.IsValid() {
		cfg.ResponseMode = models.ResponseModeDirectPostJWT
	}
	if !cfg.JARMode.IsValid() {
		cfg.JARMode = models.EmbedByReference
	}
	if !cfg.PresentationDefinitionMode.IsValid() {
		cfg.PresentationDefinitionMode = models.EmbedByValue
	}
	if cfg.RequestObjectMaxAge <= 0 {
		cfg.RequestObjectMaxAge = defaultRequestObjectMaxAge
	}

	svc := &Service{
		store:    store,
		signer:   signer,
		verifier: StructuralVerifier{},
		logger:   slog.Default(),
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithVerifier replaces the default StructuralVerifier.
func WithVerifier(v Verifier) Option {
	return func(s *Service) {
		if v != nil {
			s.verifier = v
		}
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// GetPublicJWKSet returns the public half of the request object signing key.
func (s *Service) GetPublicJWKSet() gojose.JSONWebKeySet {
	return s.signer.PublicKeySet()
}
