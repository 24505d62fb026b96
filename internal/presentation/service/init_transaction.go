package service

import (
	"context"
	"log/slog"

	"verifier/internal/jose"
	"verifier/internal/presentation/events"
	"verifier/internal/presentation/models"
	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
)

// InitTransaction creates a presentation in the Requested state and tells the
// UI how to hand the authorization request to the wallet.
func (s *Service) InitTransaction(ctx context.Context, req *models.InitTransactionRequest) (*models.InitTransactionResponse, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	responseMode := models.ResponseMode(req.ResponseMode)
	if responseMode == "" {
		responseMode = s.cfg.ResponseMode
	}
	jarMode := models.EmbedMode(req.JARMode)
	if jarMode == "" {
		jarMode = s.cfg.JARMode
	}
	pdMode := models.EmbedMode(req.PresentationDefinitionMode)
	if pdMode == "" {
		pdMode = s.cfg.PresentationDefinitionMode
	}

	requestID, err := id.NewRequestID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate request id")
	}

	var ephemeralKey *models.EphemeralECDHPrivateJWK
	if responseMode.RequiresJARM() {
		key, err := jose.GenerateEphemeralKey()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate ephemeral key")
		}
		ephemeralKey = &key
	}

	presentation, err := models.NewRequested(
		id.NewTransactionID(),
		requestID,
		s.now().UTC(),
		req.PresentationType(),
		models.Nonce(req.Nonce),
		ephemeralKey,
		responseMode,
		pdMode,
		req.WalletResponseMethod(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Store(ctx, presentation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store presentation")
	}

	resp := &models.InitTransactionResponse{
		TransactionID: presentation.ID.String(),
		ClientID:      s.cfg.ClientID,
	}
	if jarMode == models.EmbedByValue {
		jar, err := s.signRequestObject(presentation)
		if err != nil {
			return nil, err
		}
		resp.Request = jar
	} else {
		resp.RequestURI = s.walletURL(RequestObjectPath, presentation.RequestID.String())
	}

	if s.metrics != nil {
		s.metrics.IncrementTransactionsInitiated(string(presentation.Type.Kind()))
	}
	s.publish(ctx, events.TypeInitiated, presentation, "")
	s.logger.InfoContext(ctx, "presentation initiated",
		slog.String("transaction_id", presentation.ID.String()),
		slog.String("kind", string(presentation.Type.Kind())),
		slog.String("response_mode", string(responseMode)),
		slog.String("jar_mode", string(jarMode)),
	)
	return resp, nil
}
