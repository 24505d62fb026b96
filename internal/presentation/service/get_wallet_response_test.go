package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
)

func (s *ServiceSuite) expectLoadByID(p *models.Presentation) {
	result := query.NotFound[*models.Presentation]()
	if p != nil {
		result = query.Found(p)
	}
	s.mockStore.EXPECT().LoadByID(gomock.Any(), testTxID).Return(result, nil)
}

func (s *ServiceSuite) TestGetWalletResponse() {
	ctx := context.Background()
	code := id.ResponseCode("code-1")
	other := id.ResponseCode("code-2")

	redirect := defaultFixture()
	redirect.method = models.Redirect{URITemplate: testTemplate}

	tests := []struct {
		name         string
		presentation func() *models.Presentation
		code         *id.ResponseCode
		want         string
	}{
		{name: "poll without code", presentation: func() *models.Presentation { return s.submitted(defaultFixture(), nil) }, want: "found"},
		{name: "poll with a code", presentation: func() *models.Presentation { return s.submitted(defaultFixture(), nil) }, code: &code, want: "invalid_state"},
		{name: "redirect with the issued code", presentation: func() *models.Presentation { return s.submitted(redirect, &code) }, code: &code, want: "found"},
		{name: "redirect with another code", presentation: func() *models.Presentation { return s.submitted(redirect, &code) }, code: &other, want: "invalid_state"},
		{name: "redirect without code", presentation: func() *models.Presentation { return s.submitted(redirect, &code) }, want: "invalid_state"},
		{name: "accepted", presentation: func() *models.Presentation {
			p := s.submitted(defaultFixture(), nil)
			s.Require().NoError(p.Accept(s.now))
			return p
		}, want: "found"},
		{name: "still requested", presentation: func() *models.Presentation { return s.presentation(defaultFixture()) }, want: "invalid_state"},
		{name: "unknown transaction", presentation: func() *models.Presentation { return nil }, want: "not_found"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.expectLoadByID(tt.presentation())

			result, err := s.service.GetWalletResponse(ctx, testTxID, tt.code)
			s.Require().NoError(err)
			s.Equal(tt.want, result.String())
		})
	}

	s.Run("returns the retained answer", func() {
		s.expectLoadByID(s.submitted(defaultFixture(), nil))

		result, err := s.service.GetWalletResponse(ctx, testTxID, nil)
		to := mustFound(s, result, err)
		s.Equal("vp", to.VPToken)
		s.Empty(to.Error)
	})

	s.Run("store fault", func() {
		s.mockStore.EXPECT().LoadByID(gomock.Any(), testTxID).
			Return(query.NotFound[*models.Presentation](), errors.New("redis down"))

		_, err := s.service.GetWalletResponse(ctx, testTxID, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
