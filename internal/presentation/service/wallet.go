package service

import (
	"context"

	gojose "github.com/go-jose/go-jose/v3"
	"github.com/hyperledger/aries-framework-go/component/models/presexch"

	"verifier/internal/jose"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
)

const (
	opGetRequestObject          = "get_request_object"
	opGetPresentationDefinition = "get_presentation_definition"
	opGetJarmJWKS               = "get_jarm_jwks"
	opGetWalletResponse         = "get_wallet_response"
	opPostWalletResponse        = "post_wallet_response"
)

// GetRequestObject signs the authorization request of a pending presentation.
func (s *Service) GetRequestObject(ctx context.Context, requestID id.RequestID) (query.Result[string], error) {
	p, err := s.loadPending(ctx, requestID)
	if err != nil {
		return query.NotFound[string](), err
	}

	var signErr error
	result := query.Fold(p,
		func(p *models.Presentation) query.Result[string] {
			jar, err := s.signRequestObject(p)
			if err != nil {
				signErr = err
				return query.NotFound[string]()
			}
			return query.Found(jar)
		},
		query.NotFound[string],
		query.InvalidState[string],
	)
	if signErr != nil {
		return query.NotFound[string](), signErr
	}
	return observeQuery(s, opGetRequestObject, result), nil
}

// GetPresentationDefinition serves the definition of a pending presentation
// that was initiated with the definition by reference.
func (s *Service) GetPresentationDefinition(ctx context.Context, requestID id.RequestID) (query.Result[*presexch.PresentationDefinition], error) {
	p, err := s.loadPending(ctx, requestID)
	if err != nil {
		return query.NotFound[*presexch.PresentationDefinition](), err
	}

	result := query.Fold(p,
		func(p *models.Presentation) query.Result[*presexch.PresentationDefinition] {
			pd, ok := models.PresentationDefinitionOf(p.Type)
			if !ok || p.PresentationDefinitionMode != models.EmbedByReference {
				return query.InvalidState[*presexch.PresentationDefinition]()
			}
			return query.Found(pd)
		},
		query.NotFound[*presexch.PresentationDefinition],
		query.InvalidState[*presexch.PresentationDefinition],
	)
	return observeQuery(s, opGetPresentationDefinition, result), nil
}

// GetJarmJWKS serves the public half of the ephemeral key a wallet encrypts
// its direct_post.jwt response to.
func (s *Service) GetJarmJWKS(ctx context.Context, requestID id.RequestID) (query.Result[gojose.JSONWebKeySet], error) {
	p, err := s.loadPending(ctx, requestID)
	if err != nil {
		return query.NotFound[gojose.JSONWebKeySet](), err
	}

	var keyErr error
	result := query.Fold(p,
		func(p *models.Presentation) query.Result[gojose.JSONWebKeySet] {
			if p.EphemeralECDHPrivateJWK == nil {
				return query.InvalidState[gojose.JSONWebKeySet]()
			}
			set, err := jose.EphemeralPublicKeySet(*p.EphemeralECDHPrivateJWK)
			if err != nil {
				keyErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to project ephemeral key")
				return query.NotFound[gojose.JSONWebKeySet]()
			}
			return query.Found(set)
		},
		query.NotFound[gojose.JSONWebKeySet],
		query.InvalidState[gojose.JSONWebKeySet],
	)
	if keyErr != nil {
		return query.NotFound[gojose.JSONWebKeySet](), keyErr
	}
	return observeQuery(s, opGetJarmJWKS, result), nil
}

// loadPending loads by request id and narrows the result to presentations the
// wallet may still fetch artifacts for.
func (s *Service) loadPending(ctx context.Context, requestID id.RequestID) (query.Result[*models.Presentation], error) {
	result, err := s.store.LoadByRequestID(ctx, requestID)
	if err != nil {
		return query.NotFound[*models.Presentation](), dErrors.Wrap(err, dErrors.CodeInternal, "failed to load presentation")
	}
	return query.Fold(result,
		func(p *models.Presentation) query.Result[*models.Presentation] {
			if !p.IsPending() {
				return query.InvalidState[*models.Presentation]()
			}
			return query.Found(p)
		},
		query.NotFound[*models.Presentation],
		query.InvalidState[*models.Presentation],
	), nil
}
