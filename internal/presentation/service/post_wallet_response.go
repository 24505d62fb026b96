package service

import (
	"context"
	"errors"
	"log/slog"

	"verifier/internal/jose"
	"verifier/internal/presentation/events"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	"verifier/internal/presentation/walletresponse"
	"verifier/internal/sentinel"
	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
)

const (
	outcomeSubmitted = "submitted"
	outcomeAccepted  = "accepted"
	outcomeRejected  = "rejected"
	outcomeMalformed = "malformed"
	outcomeFault     = "fault"
)

// PostWalletResponse correlates a wallet's authorisation response with its
// presentation through the state parameter, retains the answer, and hands it
// to the verifier. The result carries the redirect URI for the redirect
// method.
//
// A verifier rejection leaves the presentation Submitted so the UI can still
// read what the wallet sent.
func (s *Service) PostWalletResponse(ctx context.Context, resp models.AuthorisationResponse) (query.Result[*models.PostWalletResponseResult], error) {
	mode := string(models.ResponseModeOf(resp))

	state := models.StateOf(resp)
	if state == "" {
		s.incrementWalletResponse(mode, outcomeMalformed)
		return query.NotFound[*models.PostWalletResponseResult](),
			dErrors.Wrap(sentinel.ErrMalformed, dErrors.CodeInvalidRequest, "state is required to locate the presentation")
	}

	loaded, err := s.store.LoadByRequestID(ctx, id.RequestID(state))
	if err != nil {
		s.incrementWalletResponse(mode, outcomeFault)
		return query.NotFound[*models.PostWalletResponseResult](), dErrors.Wrap(err, dErrors.CodeInternal, "failed to load presentation")
	}

	p, ok := foundValue(loaded)
	if !ok || !p.IsRequested() {
		result := query.InvalidState[*models.PostWalletResponseResult]()
		if !ok {
			result = query.Map(loaded, func(*models.Presentation) *models.PostWalletResponseResult { return nil })
		}
		s.incrementWalletResponse(mode, result.String())
		return observeQuery(s, opPostWalletResponse, result), nil
	}

	data, err := s.responseData(p, resp)
	if dErrors.HasCode(err, dErrors.CodeInvalidState) {
		invalid := query.InvalidState[*models.PostWalletResponseResult]()
		s.incrementWalletResponse(mode, invalid.String())
		return observeQuery(s, opPostWalletResponse, invalid), nil
	}
	if err != nil {
		s.incrementWalletResponse(mode, outcomeFor(err))
		return query.NotFound[*models.PostWalletResponseResult](), err
	}

	result := &models.PostWalletResponseResult{}
	var code *id.ResponseCode
	if redirect, ok := p.WalletResponseMethod.(models.Redirect); ok {
		issued, err := id.NewResponseCode()
		if err != nil {
			s.incrementWalletResponse(mode, outcomeFault)
			return query.NotFound[*models.PostWalletResponseResult](), dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate response code")
		}
		code = &issued
		result.RedirectURI = redirect.RedirectURI(issued)
	}

	walletResponse := data.ToWalletResponse()
	if err := p.Submit(s.now().UTC(), walletResponse, code); err != nil {
		s.incrementWalletResponse(mode, outcomeFor(err))
		return query.NotFound[*models.PostWalletResponseResult](), err
	}
	if err := s.store.Store(ctx, p); err != nil {
		s.incrementWalletResponse(mode, outcomeFault)
		return query.NotFound[*models.PostWalletResponseResult](), dErrors.Wrap(err, dErrors.CodeInternal, "failed to store submitted presentation")
	}
	s.publish(ctx, events.TypeSubmitted, p, "")

	if walletResponse.IsError() {
		s.logger.InfoContext(ctx, "wallet answered with an error",
			slog.String("transaction_id", p.ID.String()),
			slog.String("error", walletResponse.Error),
		)
		s.incrementWalletResponse(mode, outcomeSubmitted)
		return observeQuery(s, opPostWalletResponse, query.Found(result)), nil
	}

	if err := s.verify(ctx, p); err != nil {
		return query.NotFound[*models.PostWalletResponseResult](), err
	}

	s.incrementWalletResponse(mode, outcomeAccepted)
	return observeQuery(s, opPostWalletResponse, query.Found(result)), nil
}

// responseData yields the plain response fields, decrypting a JARM envelope
// with the presentation's ephemeral key. A response whose shape does not match
// the mode the presentation was initiated with is an invalid state.
func (s *Service) responseData(p *models.Presentation, resp models.AuthorisationResponse) (models.AuthorisationResponseData, error) {
	var data models.AuthorisationResponseData
	switch r := resp.(type) {
	case models.DirectPost:
		if p.ResponseMode != models.ResponseModeDirectPost {
			return data, dErrors.New(dErrors.CodeInvalidState, "presentation expects an encrypted response")
		}
		data = r.Response
	case models.DirectPostJWT:
		if p.ResponseMode != models.ResponseModeDirectPostJWT || p.EphemeralECDHPrivateJWK == nil {
			return data, dErrors.New(dErrors.CodeInvalidState, "presentation does not expect an encrypted response")
		}
		claims, err := jose.DecryptJARM(r.Response, *p.EphemeralECDHPrivateJWK)
		if errors.Is(err, sentinel.ErrMalformed) {
			return data, dErrors.Wrap(err, dErrors.CodeInvalidRequest, "invalid jarm response")
		}
		if err != nil {
			return data, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decrypt jarm response")
		}
		data = walletresponse.ResolveClaims(claims)
		if data.State != "" && data.State != r.State {
			return data, dErrors.Wrap(sentinel.ErrMalformed, dErrors.CodeInvalidRequest, "jarm response state does not match")
		}
	default:
		return data, dErrors.Wrap(sentinel.ErrMalformed, dErrors.CodeInvalidRequest, "unsupported response shape")
	}

	if data.Error == "" && data.IDToken == "" && data.VPToken == "" {
		return data, dErrors.Wrap(sentinel.ErrMalformed, dErrors.CodeInvalidRequest, "response carries neither tokens nor an error")
	}
	return data, nil
}

// verify runs the verifier on a submitted presentation and accepts it when the
// verifier agrees.
func (s *Service) verify(ctx context.Context, p *models.Presentation) error {
	mode := string(p.ResponseMode)
	if err := s.verifier.Verify(ctx, p); err != nil {
		if errors.Is(err, ErrRejected) {
			s.publish(ctx, events.TypeRejected, p, err.Error())
			s.incrementWalletResponse(mode, outcomeRejected)
			s.logger.InfoContext(ctx, "presentation rejected",
				slog.String("transaction_id", p.ID.String()),
				slog.String("reason", err.Error()),
			)
			return dErrors.Wrap(err, dErrors.CodeAccessDenied, "presentation rejected")
		}
		s.incrementWalletResponse(mode, outcomeFault)
		return dErrors.Wrap(err, dErrors.CodeInternal, "verification failed")
	}

	if err := p.Accept(s.now().UTC()); err != nil {
		s.incrementWalletResponse(mode, outcomeFor(err))
		return err
	}
	if err := s.store.Store(ctx, p); err != nil {
		s.incrementWalletResponse(mode, outcomeFault)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store accepted presentation")
	}
	s.publish(ctx, events.TypeAccepted, p, "")
	return nil
}

func outcomeFor(err error) string {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		return outcomeFault
	}
	return outcomeMalformed
}

// foundValue extracts the value of a Found result.
func foundValue[T any](r query.Result[T]) (value T, ok bool) {
	r.Match(
		func(v T) { value, ok = v, true },
		func() {},
		func() {},
	)
	return value, ok
}
