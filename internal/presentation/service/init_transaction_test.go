package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/mock/gomock"

	"verifier/internal/jose"
	"verifier/internal/presentation/events"
	"verifier/internal/presentation/models"
	dErrors "verifier/pkg/domain-errors"
)

func (s *ServiceSuite) initRequest() *models.InitTransactionRequest {
	return &models.InitTransactionRequest{
		Type:                   string(models.KindIDAndVPToken),
		IDTokenType:            "subject_signed_id_token",
		PresentationDefinition: testDefinition(),
		Nonce:                  " nonce-1 ",
	}
}

func (s *ServiceSuite) TestInitTransaction() {
	ctx := context.Background()

	s.Run("by reference with configured defaults", func() {
		var stored *models.Presentation
		s.mockStore.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *models.Presentation) error {
				stored = p
				return nil
			})
		s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
			func(_ context.Context, e events.Event) {
				s.Equal(events.TypeInitiated, e.Type)
				s.Equal(stored.ID.String(), e.TransactionID)
			})

		resp, err := s.service.InitTransaction(ctx, s.initRequest())
		s.Require().NoError(err)
		s.Require().NotNil(stored)

		s.Equal(stored.ID.String(), resp.TransactionID)
		s.Equal(testClientID, resp.ClientID)
		s.Empty(resp.Request)
		s.Equal(testPublicURL+"/wallet/request.jwt/"+stored.RequestID.String(), resp.RequestURI)

		s.True(stored.IsRequested())
		s.Equal(models.ResponseModeDirectPostJWT, stored.ResponseMode)
		s.Equal(models.EmbedByValue, stored.PresentationDefinitionMode)
		s.Equal(models.Nonce("nonce-1"), stored.Nonce)
		s.Equal(s.now, stored.InitiatedAt)
		s.Require().NotNil(stored.EphemeralECDHPrivateJWK)
		s.IsType(models.Poll{}, stored.WalletResponseMethod)
		s.NotEqual(stored.ID.String(), stored.RequestID.String())
		s.False(strings.Contains(resp.RequestURI, stored.ID.String()), "the transaction id never reaches the wallet")
	})

	s.Run("by value signs the request object", func() {
		s.mockStore.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		s.ignoreEvents()

		var claims *jose.RequestObjectClaims
		s.mockSigner.EXPECT().Sign(gomock.Any()).DoAndReturn(func(c *jose.RequestObjectClaims) (string, error) {
			claims = c
			return "signed-jar", nil
		})

		req := s.initRequest()
		req.JARMode = string(models.EmbedByValue)
		req.ResponseMode = string(models.ResponseModeDirectPost)
		req.PresentationDefinitionMode = string(models.EmbedByReference)
		req.WalletResponseRedirectURITemplate = testTemplate

		resp, err := s.service.InitTransaction(ctx, req)
		s.Require().NoError(err)
		s.Equal("signed-jar", resp.Request)
		s.Empty(resp.RequestURI)

		s.Require().NotNil(claims)
		s.Equal("vp_token id_token", claims.ResponseType)
		s.Equal("direct_post", claims.ResponseMode)
		s.Equal(testPublicURL+"/wallet/direct_post", claims.ResponseURI)
		s.Equal("subject_signed_id_token", claims.IDTokenType)
		s.Equal("nonce-1", claims.Nonce)
		s.Nil(claims.PresentationDefinition)
		s.Equal(testPublicURL+"/wallet/pd/"+claims.State, claims.PresentationDefinitionURI)
		s.Require().NotNil(claims.ClientMetadata)
		s.Empty(claims.ClientMetadata.JWKSURI, "no jarm keys without direct_post.jwt")
		s.Equal(testClientID, claims.Issuer)
		s.Equal(s.now.Add(defaultRequestObjectMaxAge), claims.ExpiresAt.Time)
	})

	s.Run("invalid request is rejected before anything is stored", func() {
		req := s.initRequest()
		req.PresentationDefinition = nil

		_, err := s.service.InitTransaction(ctx, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("store fault is internal", func() {
		s.mockStore.EXPECT().Store(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		_, err := s.service.InitTransaction(ctx, s.initRequest())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("signing failure is internal", func() {
		s.mockStore.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		s.mockSigner.EXPECT().Sign(gomock.Any()).Return("", errors.New("hsm offline"))

		req := s.initRequest()
		req.JARMode = string(models.EmbedByValue)
		_, err := s.service.InitTransaction(ctx, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestRequestObjectClaims() {
	s.Run("jarm presentation advertises its key set", func() {
		f := defaultFixture()
		f.responseMode = models.ResponseModeDirectPostJWT
		p := s.presentation(f)

		claims := s.service.requestObjectClaims(p)
		s.Equal(string(p.RequestID), claims.State)
		s.Equal("vp_token", claims.ResponseType)
		s.Equal(testPublicURL+"/wallet/jarm/"+p.RequestID.String()+"/jwks.json", claims.ClientMetadata.JWKSURI)
		s.Equal("ECDH-ES", claims.ClientMetadata.AuthorizationEncryptedResponseAlg)
		s.Equal("A128CBC-HS256", claims.ClientMetadata.AuthorizationEncryptedResponseEnc)
		s.Equal(testDefinition().ID, claims.PresentationDefinition.ID)
		s.Empty(claims.IDTokenType)
	})

	s.Run("id token presentation carries no definition", func() {
		f := defaultFixture()
		f.presentationType = models.IDTokenRequest{IDTokenTypes: []models.IDTokenType{models.IDTokenSubjectSigned, models.IDTokenAttesterSigned}}
		claims := s.service.requestObjectClaims(s.presentation(f))

		s.Equal("id_token", claims.ResponseType)
		s.Equal("subject_signed_id_token attester_signed_id_token", claims.IDTokenType)
		s.Nil(claims.PresentationDefinition)
		s.Empty(claims.PresentationDefinitionURI)
	})
}
