package service

import (
	"context"
	"errors"
	"fmt"

	"verifier/internal/presentation/models"
)

// ErrRejected marks a verification failure attributable to the presentation
// rather than to the verifier. Verifiers wrap it; any other error is a fault.
var ErrRejected = errors.New("presentation rejected")

// StructuralVerifier checks that a submitted response carries the tokens the
// presentation asked for. It performs no cryptographic checks and is meant to
// be replaced by a full verification engine.
type StructuralVerifier struct{}

func (StructuralVerifier) Verify(_ context.Context, p *models.Presentation) error {
	r := p.WalletResponse
	if r == nil {
		return fmt.Errorf("%w: no wallet response", ErrRejected)
	}

	kind := p.Type.Kind()
	if kind != models.KindVPToken && r.IDToken == "" {
		return fmt.Errorf("%w: id_token is missing", ErrRejected)
	}
	if kind != models.KindIDToken {
		if r.VPToken == "" {
			return fmt.Errorf("%w: vp_token is missing", ErrRejected)
		}
		if r.PresentationSubmission == nil {
			return fmt.Errorf("%w: presentation_submission is missing", ErrRejected)
		}
	}
	return nil
}
