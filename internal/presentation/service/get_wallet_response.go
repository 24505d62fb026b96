package service

import (
	"context"

	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
)

// GetWalletResponse returns the wallet's answer to the verifier UI. A
// presentation using the redirect method only answers to the response code it
// issued; one using the poll method answers without a code.
func (s *Service) GetWalletResponse(ctx context.Context, txID id.TransactionID, code *id.ResponseCode) (query.Result[*models.WalletResponseTO], error) {
	loaded, err := s.store.LoadByID(ctx, txID)
	if err != nil {
		return query.NotFound[*models.WalletResponseTO](), dErrors.Wrap(err, dErrors.CodeInternal, "failed to load presentation")
	}

	result := query.Fold(loaded,
		func(p *models.Presentation) query.Result[*models.WalletResponseTO] {
			if !p.HasAnswer() || p.WalletResponse == nil {
				return query.InvalidState[*models.WalletResponseTO]()
			}
			if !p.MatchesResponseCode(code) {
				return query.InvalidState[*models.WalletResponseTO]()
			}
			return query.Found(models.NewWalletResponseTO(p.WalletResponse))
		},
		query.NotFound[*models.WalletResponseTO],
		query.InvalidState[*models.WalletResponseTO],
	)
	return observeQuery(s, opGetWalletResponse, result), nil
}
