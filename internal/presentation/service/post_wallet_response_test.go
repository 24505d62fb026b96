package service

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	gojose "github.com/go-jose/go-jose/v3"
	"go.uber.org/mock/gomock"

	"verifier/internal/jose"
	"verifier/internal/presentation/events"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	"verifier/internal/sentinel"
	dErrors "verifier/pkg/domain-errors"
)

const testSubmission = `{"id":"sub-1","definition_id":"pd-1","descriptor_map":[{"id":"pid","format":"vc+sd-jwt","path":"$"}]}`

func directPost(data models.AuthorisationResponseData) models.AuthorisationResponse {
	return models.DirectPost{Response: data}
}

func (s *ServiceSuite) encryptFor(p *models.Presentation, payload string) string {
	set, err := jose.EphemeralPublicKeySet(*p.EphemeralECDHPrivateJWK)
	s.Require().NoError(err)
	public, ok := set.Keys[0].Key.(*ecdsa.PublicKey)
	s.Require().True(ok)

	enc, err := gojose.NewEncrypter(jose.JARMEncryption, gojose.Recipient{Algorithm: jose.JARMAlgorithm, Key: public}, nil)
	s.Require().NoError(err)
	obj, err := enc.Encrypt([]byte(payload))
	s.Require().NoError(err)
	compact, err := obj.CompactSerialize()
	s.Require().NoError(err)
	return compact
}

// recordStates captures the state of every write, since the store receives the
// same pointer the service keeps mutating.
func (s *ServiceSuite) recordStates(states *[]models.State) *gomock.Call {
	return s.mockStore.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *models.Presentation) error {
			*states = append(*states, p.State)
			return nil
		})
}

func (s *ServiceSuite) TestPostWalletResponseDirectPostPoll() {
	ctx := context.Background()
	p := s.presentation(defaultFixture())
	s.expectLoadByRequestID(p)

	var states []models.State
	var published []events.Type
	gomock.InOrder(
		s.recordStates(&states),
		s.mockVerifier.EXPECT().Verify(gomock.Any(), p).Return(nil),
		s.recordStates(&states),
	)
	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, e events.Event) { published = append(published, e.Type) },
	).Times(2)

	posted, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{
		State:   string(testRequestID),
		VPToken: "vp",
	}))
	result := mustFound(s, posted, err)

	s.Empty(result.RedirectURI)
	s.Equal([]models.State{models.StateSubmitted, models.StateAccepted}, states)
	s.Equal([]events.Type{events.TypeSubmitted, events.TypeAccepted}, published)
	s.Nil(p.ResponseCode)
	s.Equal(s.now, *p.SubmittedAt)
	s.Equal(s.now, *p.AcceptedAt)
	s.Equal("vp", p.WalletResponse.VPToken)
}

func (s *ServiceSuite) TestPostWalletResponseJARMRedirect() {
	ctx := context.Background()
	f := defaultFixture()
	f.responseMode = models.ResponseModeDirectPostJWT
	f.method = models.Redirect{URITemplate: testTemplate}
	p := s.presentation(f)
	s.ignoreEvents()

	s.expectLoadByRequestID(p)
	var states []models.State
	gomock.InOrder(
		s.recordStates(&states),
		s.mockVerifier.EXPECT().Verify(gomock.Any(), p).Return(nil),
		s.recordStates(&states),
	)

	envelope := s.encryptFor(p, fmt.Sprintf(`{"state":%q,"vp_token":"vp","presentation_submission":%s}`, testRequestID, testSubmission))
	posted, err := s.service.PostWalletResponse(ctx, models.DirectPostJWT{State: string(testRequestID), Response: envelope})
	result := mustFound(s, posted, err)

	s.Require().NotNil(p.ResponseCode)
	s.Equal(strings.Replace(testTemplate, models.ResponseCodePlaceholder, p.ResponseCode.String(), 1), result.RedirectURI)
	s.Require().NotNil(p.WalletResponse.PresentationSubmission)
	s.Equal("sub-1", p.WalletResponse.PresentationSubmission.ID)
	s.True(p.IsAccepted())
	s.Nil(p.EphemeralECDHPrivateJWK, "the key is dropped on acceptance")
	s.Equal([]models.State{models.StateSubmitted, models.StateAccepted}, states)
}

func (s *ServiceSuite) TestPostWalletResponseWalletError() {
	ctx := context.Background()
	p := s.presentation(defaultFixture())
	s.expectLoadByRequestID(p)
	s.mockStore.EXPECT().Store(gomock.Any(), p).Return(nil)
	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e events.Event) {
		s.Equal(events.TypeSubmitted, e.Type)
		s.Equal("access_denied", e.WalletError)
	})

	posted, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{
		State:            string(testRequestID),
		Error:            "access_denied",
		ErrorDescription: "user declined",
	}))
	mustFound(s, posted, err)

	s.True(p.IsSubmitted(), "an error answer is retained but never verified")
	s.Equal("user declined", p.WalletResponse.ErrorDescription)
}

func (s *ServiceSuite) TestPostWalletResponseRejected() {
	ctx := context.Background()
	p := s.presentation(defaultFixture())
	s.expectLoadByRequestID(p)

	var published []events.Type
	s.mockStore.EXPECT().Store(gomock.Any(), p).Return(nil).Times(1)
	s.mockVerifier.EXPECT().Verify(gomock.Any(), p).Return(fmt.Errorf("%w: nonce mismatch", ErrRejected))
	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, e events.Event) { published = append(published, e.Type) },
	).Times(2)

	_, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID), VPToken: "vp"}))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAccessDenied))
	s.True(p.IsSubmitted())
	s.Equal([]events.Type{events.TypeSubmitted, events.TypeRejected}, published)
}

func (s *ServiceSuite) TestPostWalletResponseVerifierFault() {
	ctx := context.Background()
	p := s.presentation(defaultFixture())
	s.expectLoadByRequestID(p)
	s.ignoreEvents()
	s.mockStore.EXPECT().Store(gomock.Any(), p).Return(nil)
	s.mockVerifier.EXPECT().Verify(gomock.Any(), p).Return(errors.New("trust list unavailable"))

	_, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID), VPToken: "vp"}))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.True(p.IsSubmitted())
}

func (s *ServiceSuite) TestPostWalletResponseUnusable() {
	ctx := context.Background()

	s.Run("missing state is malformed", func() {
		_, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{VPToken: "vp"}))
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrMalformed))
	})

	s.Run("unknown state", func() {
		s.expectLoadByRequestID(nil)

		result, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID), VPToken: "vp"}))
		s.Require().NoError(err)
		s.Equal("not_found", result.String())
	})

	s.Run("second submission", func() {
		s.expectLoadByRequestID(s.submitted(defaultFixture(), nil))

		result, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID), VPToken: "vp"}))
		s.Require().NoError(err)
		s.Equal("invalid_state", result.String())
	})

	s.Run("plain post to a jarm presentation", func() {
		f := defaultFixture()
		f.responseMode = models.ResponseModeDirectPostJWT
		s.expectLoadByRequestID(s.presentation(f))

		result, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID), VPToken: "vp"}))
		s.Require().NoError(err)
		s.Equal("invalid_state", result.String())
	})

	s.Run("jarm post to a plain presentation", func() {
		s.expectLoadByRequestID(s.presentation(defaultFixture()))

		result, err := s.service.PostWalletResponse(ctx, models.DirectPostJWT{State: string(testRequestID), Response: "a.b.c.d.e"})
		s.Require().NoError(err)
		s.Equal("invalid_state", result.String())
	})

	s.Run("undecryptable envelope is malformed", func() {
		f := defaultFixture()
		f.responseMode = models.ResponseModeDirectPostJWT
		s.expectLoadByRequestID(s.presentation(f))

		_, err := s.service.PostWalletResponse(ctx, models.DirectPostJWT{State: string(testRequestID), Response: "not-a-jwe"})
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrMalformed))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidRequest))
	})

	s.Run("envelope bound to another request", func() {
		f := defaultFixture()
		f.responseMode = models.ResponseModeDirectPostJWT
		p := s.presentation(f)
		s.expectLoadByRequestID(p)

		envelope := s.encryptFor(p, `{"state":"req-other","vp_token":"vp"}`)
		_, err := s.service.PostWalletResponse(ctx, models.DirectPostJWT{State: string(testRequestID), Response: envelope})
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrMalformed))
	})

	s.Run("response without tokens or error", func() {
		s.expectLoadByRequestID(s.presentation(defaultFixture()))

		_, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID)}))
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrMalformed))
	})

	s.Run("store fault on load", func() {
		s.mockStore.EXPECT().LoadByRequestID(gomock.Any(), testRequestID).
			Return(query.NotFound[*models.Presentation](), errors.New("redis down"))

		_, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID), VPToken: "vp"}))
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("store fault on submit", func() {
		s.expectLoadByRequestID(s.presentation(defaultFixture()))
		s.mockStore.EXPECT().Store(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		_, err := s.service.PostWalletResponse(ctx, directPost(models.AuthorisationResponseData{State: string(testRequestID), VPToken: "vp"}))
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
