package service

import (
	"context"
	"errors"

	gojose "github.com/go-jose/go-jose/v3"
	"go.uber.org/mock/gomock"

	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	dErrors "verifier/pkg/domain-errors"
)

func (s *ServiceSuite) TestGetRequestObject() {
	ctx := context.Background()

	s.Run("pending presentation is signed", func() {
		s.expectLoadByRequestID(s.presentation(defaultFixture()))
		s.mockSigner.EXPECT().Sign(gomock.Any()).Return("signed-jar", nil)

		result, err := s.service.GetRequestObject(ctx, testRequestID)
		jar := mustFound(s, result, err)
		s.Equal("signed-jar", jar)
	})

	s.Run("unknown request id", func() {
		s.expectLoadByRequestID(nil)

		result, err := s.service.GetRequestObject(ctx, testRequestID)
		s.Require().NoError(err)
		s.Equal("not_found", result.String())
	})

	s.Run("accepted presentation is no longer served", func() {
		p := s.submitted(defaultFixture(), nil)
		s.Require().NoError(p.Accept(s.now))
		s.expectLoadByRequestID(p)

		result, err := s.service.GetRequestObject(ctx, testRequestID)
		s.Require().NoError(err)
		s.Equal("invalid_state", result.String())
	})

	s.Run("store fault", func() {
		s.mockStore.EXPECT().LoadByRequestID(gomock.Any(), testRequestID).
			Return(query.NotFound[*models.Presentation](), errors.New("redis down"))

		_, err := s.service.GetRequestObject(ctx, testRequestID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("signing failure", func() {
		s.expectLoadByRequestID(s.presentation(defaultFixture()))
		s.mockSigner.EXPECT().Sign(gomock.Any()).Return("", errors.New("no key"))

		_, err := s.service.GetRequestObject(ctx, testRequestID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestGetPresentationDefinition() {
	ctx := context.Background()

	s.Run("by reference", func() {
		f := defaultFixture()
		f.pdMode = models.EmbedByReference
		s.expectLoadByRequestID(s.presentation(f))

		result, err := s.service.GetPresentationDefinition(ctx, testRequestID)
		pd := mustFound(s, result, err)
		s.Equal("pd-1", pd.ID)
	})

	s.Run("by value is not served", func() {
		s.expectLoadByRequestID(s.presentation(defaultFixture()))

		result, err := s.service.GetPresentationDefinition(ctx, testRequestID)
		s.Require().NoError(err)
		s.Equal("invalid_state", result.String())
	})

	s.Run("id token presentation has none", func() {
		f := defaultFixture()
		f.presentationType = models.IDTokenRequest{IDTokenTypes: []models.IDTokenType{models.IDTokenSubjectSigned}}
		f.pdMode = models.EmbedByReference
		s.expectLoadByRequestID(s.presentation(f))

		result, err := s.service.GetPresentationDefinition(ctx, testRequestID)
		s.Require().NoError(err)
		s.Equal("invalid_state", result.String())
	})

	s.Run("unknown request id", func() {
		s.expectLoadByRequestID(nil)

		result, err := s.service.GetPresentationDefinition(ctx, testRequestID)
		s.Require().NoError(err)
		s.Equal("not_found", result.String())
	})
}

func (s *ServiceSuite) TestGetJarmJWKS() {
	ctx := context.Background()

	s.Run("public half of the ephemeral key", func() {
		f := defaultFixture()
		f.responseMode = models.ResponseModeDirectPostJWT
		s.expectLoadByRequestID(s.presentation(f))

		result, err := s.service.GetJarmJWKS(ctx, testRequestID)
		set := mustFound(s, result, err)
		s.Require().Len(set.Keys, 1)
		s.True(set.Keys[0].IsPublic())
		s.Equal("enc", set.Keys[0].Use)
	})

	s.Run("plain direct_post has no jarm keys", func() {
		s.expectLoadByRequestID(s.presentation(defaultFixture()))

		result, err := s.service.GetJarmJWKS(ctx, testRequestID)
		s.Require().NoError(err)
		s.Equal("invalid_state", result.String())
	})

	s.Run("corrupt stored key is a fault", func() {
		p := s.presentation(defaultFixture())
		broken := models.EphemeralECDHPrivateJWK("broken")
		p.EphemeralECDHPrivateJWK = &broken
		s.expectLoadByRequestID(p)

		_, err := s.service.GetJarmJWKS(ctx, testRequestID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestGetPublicJWKSet() {
	set := gojose.JSONWebKeySet{Keys: []gojose.JSONWebKey{{KeyID: "verifier-key"}}}
	s.mockSigner.EXPECT().PublicKeySet().Return(set)

	s.Equal(set, s.service.GetPublicJWKSet())
}
