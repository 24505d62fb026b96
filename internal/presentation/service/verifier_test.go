package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/models/presexch"
	"github.com/stretchr/testify/assert"

	"verifier/internal/presentation/models"
)

func TestStructuralVerifier(t *testing.T) {
	submission := &presexch.PresentationSubmission{ID: "sub-1", DefinitionID: "pd-1"}
	idOnly := models.IDTokenRequest{}
	vpOnly := models.VPTokenRequest{}
	both := models.IDAndVPTokenRequest{}

	tests := []struct {
		name     string
		kind     models.PresentationType
		response *models.WalletResponse
		rejected bool
	}{
		{name: "id token present", kind: idOnly, response: &models.WalletResponse{IDToken: "id"}},
		{name: "id token missing", kind: idOnly, response: &models.WalletResponse{VPToken: "vp"}, rejected: true},
		{name: "vp token with submission", kind: vpOnly, response: &models.WalletResponse{VPToken: "vp", PresentationSubmission: submission}},
		{name: "vp token without submission", kind: vpOnly, response: &models.WalletResponse{VPToken: "vp"}, rejected: true},
		{name: "both present", kind: both, response: &models.WalletResponse{IDToken: "id", VPToken: "vp", PresentationSubmission: submission}},
		{name: "both requested, vp missing", kind: both, response: &models.WalletResponse{IDToken: "id"}, rejected: true},
		{name: "no response", kind: vpOnly, rejected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Presentation{Type: tt.kind, WalletResponse: tt.response}
			err := StructuralVerifier{}.Verify(context.Background(), p)
			if tt.rejected {
				assert.True(t, errors.Is(err, ErrRejected))
				return
			}
			assert.NoError(t, err)
		})
	}
}
