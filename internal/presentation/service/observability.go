package service

import (
	"context"

	"verifier/internal/presentation/events"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
)

func (s *Service) publish(ctx context.Context, eventType events.Type, p *models.Presentation, reason string) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Type:          eventType,
		TransactionID: p.ID.String(),
		Kind:          string(p.Type.Kind()),
		ResponseMode:  string(p.ResponseMode),
		Reason:        reason,
		OccurredAt:    s.now().UTC(),
	}
	if p.WalletResponse != nil {
		event.WalletError = p.WalletResponse.Error
	}
	s.publisher.Publish(ctx, event)
}

func observeQuery[T any](s *Service, operation string, r query.Result[T]) query.Result[T] {
	if s.metrics != nil {
		s.metrics.IncrementQueryResult(operation, r.String())
	}
	return r
}

func (s *Service) incrementWalletResponse(mode, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementWalletResponse(mode, outcome)
	}
}
