package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	gojose "github.com/go-jose/go-jose/v3"
	"github.com/hyperledger/aries-framework-go/component/models/presexch"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"verifier/internal/platform/tracer"
	"verifier/internal/presentation/handler/mocks"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
	"verifier/pkg/platform/validation"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)

	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), tracer.NewNoop())
	s.router = chi.NewRouter()
	h.RegisterUI(s.router)
	h.RegisterWallet(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.serve(req)
}

func (s *HandlerSuite) postForm(form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/wallet/direct_post", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.serve(req)
}

func (s *HandlerSuite) assertError(rec *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, rec.Code)
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(code, body["error"])
}

func (s *HandlerSuite) TestInitTransaction() {
	s.Run("returns the request uri", func() {
		s.service.EXPECT().InitTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *models.InitTransactionRequest) (*models.InitTransactionResponse, error) {
				s.Equal("nonce-1", req.Nonce, "request is normalized before reaching the service")
				return &models.InitTransactionResponse{
					TransactionID: "tx-1",
					ClientID:      "verifier.example",
					RequestURI:    "https://verifier.example/wallet/request.jwt/req-1",
				}, nil
			})

		rec := s.postJSON("/ui/presentations", `{"type":"id_token","id_token_type":"subject_signed_id_token","nonce":" nonce-1 "}`)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"transaction_id":"tx-1","client_id":"verifier.example","request_uri":"https://verifier.example/wallet/request.jwt/req-1"}`, rec.Body.String())
	})

	s.Run("undecodable body", func() {
		s.assertError(s.postJSON("/ui/presentations", `{`), http.StatusBadRequest, "bad_request")
	})

	s.Run("invalid request never reaches the service", func() {
		rec := s.postJSON("/ui/presentations", `{"type":"id_token","id_token_type":"subject_signed_id_token"}`)
		s.assertError(rec, http.StatusBadRequest, "validation_error")
	})

	s.Run("wrong content type", func() {
		req := httptest.NewRequest(http.MethodPost, "/ui/presentations", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		s.Equal(http.StatusUnsupportedMediaType, s.serve(req).Code)
	})

	s.Run("service fault hides details", func() {
		s.service.EXPECT().InitTransaction(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("redis down"), dErrors.CodeInternal, "failed to store presentation"))

		rec := s.postJSON("/ui/presentations", `{"type":"id_token","id_token_type":"subject_signed_id_token","nonce":"n"}`)
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.JSONEq(`{"error":"internal_error"}`, rec.Body.String())
	})
}

func (s *HandlerSuite) TestGetWalletResponse() {
	code := id.ResponseCode("code-1")

	s.Run("found with response code", func() {
		s.service.EXPECT().GetWalletResponse(gomock.Any(), id.TransactionID("tx-1"), gomock.Eq(&code)).
			Return(query.Found(&models.WalletResponseTO{VPToken: "vp"}), nil)

		rec := s.serve(httptest.NewRequest(http.MethodGet, "/ui/presentations/tx-1?response_code=code-1", nil))
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"vp_token":"vp"}`, rec.Body.String())
	})

	s.Run("poll without code", func() {
		s.service.EXPECT().GetWalletResponse(gomock.Any(), id.TransactionID("tx-1"), gomock.Nil()).
			Return(query.InvalidState[*models.WalletResponseTO](), nil)

		s.assertError(s.serve(httptest.NewRequest(http.MethodGet, "/ui/presentations/tx-1", nil)), http.StatusBadRequest, "invalid_state")
	})

	s.Run("unknown transaction", func() {
		s.service.EXPECT().GetWalletResponse(gomock.Any(), id.TransactionID("tx-2"), gomock.Nil()).
			Return(query.NotFound[*models.WalletResponseTO](), nil)

		s.assertError(s.serve(httptest.NewRequest(http.MethodGet, "/ui/presentations/tx-2", nil)), http.StatusNotFound, "not_found")
	})

	s.Run("oversized id", func() {
		path := "/ui/presentations/" + strings.Repeat("a", validation.MaxPathIDLength+1)
		s.assertError(s.serve(httptest.NewRequest(http.MethodGet, path, nil)), http.StatusBadRequest, "validation_error")
	})
}

func (s *HandlerSuite) TestWalletArtifacts() {
	s.Run("request object", func() {
		s.service.EXPECT().GetRequestObject(gomock.Any(), id.RequestID("req-1")).Return(query.Found("header.payload.sig"), nil)

		rec := s.serve(httptest.NewRequest(http.MethodGet, "/wallet/request.jwt/req-1", nil))
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("application/oauth-authz-req+jwt", rec.Header().Get("Content-Type"))
		s.Equal("header.payload.sig", rec.Body.String())
	})

	s.Run("request object no longer available", func() {
		s.service.EXPECT().GetRequestObject(gomock.Any(), id.RequestID("req-1")).Return(query.InvalidState[string](), nil)

		s.assertError(s.serve(httptest.NewRequest(http.MethodGet, "/wallet/request.jwt/req-1", nil)), http.StatusBadRequest, "invalid_state")
	})

	s.Run("request object store fault", func() {
		s.service.EXPECT().GetRequestObject(gomock.Any(), id.RequestID("req-1")).
			Return(query.NotFound[string](), dErrors.New(dErrors.CodeInternal, "failed to load presentation"))

		s.assertError(s.serve(httptest.NewRequest(http.MethodGet, "/wallet/request.jwt/req-1", nil)), http.StatusInternalServerError, "internal_error")
	})

	s.Run("presentation definition", func() {
		s.service.EXPECT().GetPresentationDefinition(gomock.Any(), id.RequestID("req-1")).
			Return(query.Found(&presexch.PresentationDefinition{ID: "pd-1"}), nil)

		rec := s.serve(httptest.NewRequest(http.MethodGet, "/wallet/pd/req-1", nil))
		s.Equal(http.StatusOK, rec.Code)
		var pd presexch.PresentationDefinition
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &pd))
		s.Equal("pd-1", pd.ID)
	})

	s.Run("jarm key set", func() {
		s.service.EXPECT().GetJarmJWKS(gomock.Any(), id.RequestID("req-1")).
			Return(query.Found(gojose.JSONWebKeySet{Keys: []gojose.JSONWebKey{}}), nil)

		rec := s.serve(httptest.NewRequest(http.MethodGet, "/wallet/jarm/req-1/jwks.json", nil))
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("application/jwk-set+json; charset=UTF-8", rec.Header().Get("Content-Type"))
		s.JSONEq(`{"keys":[]}`, rec.Body.String())
	})

	s.Run("jarm key set for unknown request", func() {
		s.service.EXPECT().GetJarmJWKS(gomock.Any(), id.RequestID("req-9")).
			Return(query.NotFound[gojose.JSONWebKeySet](), nil)

		s.assertError(s.serve(httptest.NewRequest(http.MethodGet, "/wallet/jarm/req-9/jwks.json", nil)), http.StatusNotFound, "not_found")
	})

	s.Run("public key set", func() {
		s.service.EXPECT().GetPublicJWKSet().Return(gojose.JSONWebKeySet{})

		rec := s.serve(httptest.NewRequest(http.MethodGet, "/wallet/public-keys.json", nil))
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("application/jwk-set+json; charset=UTF-8", rec.Header().Get("Content-Type"))
	})
}

func (s *HandlerSuite) TestPostWalletResponse() {
	s.Run("plain direct post", func() {
		s.service.EXPECT().PostWalletResponse(gomock.Any(), models.DirectPost{Response: models.AuthorisationResponseData{
			State:   "req-1",
			VPToken: "vp",
		}}).Return(query.Found(&models.PostWalletResponseResult{RedirectURI: "https://verifier.example/cb#response_code=c"}), nil)

		rec := s.postForm(url.Values{"state": {"req-1"}, "vp_token": {"vp"}})
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"redirect_uri":"https://verifier.example/cb#response_code=c"}`, rec.Body.String())
	})

	s.Run("jarm envelope wins over plain fields", func() {
		s.service.EXPECT().PostWalletResponse(gomock.Any(), models.DirectPostJWT{State: "req-1", Response: "jwe"}).
			Return(query.Found(&models.PostWalletResponseResult{}), nil)

		rec := s.postForm(url.Values{"state": {"req-1"}, "response": {"jwe"}, "vp_token": {"vp"}})
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{}`, rec.Body.String())
	})

	s.Run("envelope without state", func() {
		s.assertError(s.postForm(url.Values{"response": {"jwe"}}), http.StatusBadRequest, "invalid_request")
	})

	s.Run("oversized state", func() {
		rec := s.postForm(url.Values{"state": {strings.Repeat("s", validation.MaxStateLength+1)}, "vp_token": {"vp"}})
		s.assertError(rec, http.StatusBadRequest, "validation_error")
	})

	s.Run("oversized body", func() {
		body := bytes.Repeat([]byte("a"), validation.MaxWalletResponseSize+1)
		req := httptest.NewRequest(http.MethodPost, "/wallet/direct_post", bytes.NewReader(append([]byte("vp_token="), body...)))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		s.assertError(s.serve(req), http.StatusBadRequest, "invalid_request")
	})

	s.Run("unknown state", func() {
		s.service.EXPECT().PostWalletResponse(gomock.Any(), gomock.Any()).
			Return(query.NotFound[*models.PostWalletResponseResult](), nil)

		s.assertError(s.postForm(url.Values{"state": {"req-9"}, "vp_token": {"vp"}}), http.StatusNotFound, "not_found")
	})

	s.Run("already submitted", func() {
		s.service.EXPECT().PostWalletResponse(gomock.Any(), gomock.Any()).
			Return(query.InvalidState[*models.PostWalletResponseResult](), nil)

		s.assertError(s.postForm(url.Values{"state": {"req-1"}, "vp_token": {"vp"}}), http.StatusBadRequest, "invalid_state")
	})

	s.Run("rejected presentation", func() {
		s.service.EXPECT().PostWalletResponse(gomock.Any(), gomock.Any()).
			Return(query.NotFound[*models.PostWalletResponseResult](), dErrors.New(dErrors.CodeAccessDenied, "presentation rejected"))

		s.assertError(s.postForm(url.Values{"state": {"req-1"}, "vp_token": {"vp"}}), http.StatusBadRequest, "access_denied")
	})

	s.Run("json body is refused", func() {
		req := httptest.NewRequest(http.MethodPost, "/wallet/direct_post", strings.NewReader(`{"state":"req-1"}`))
		req.Header.Set("Content-Type", "application/json")
		s.Equal(http.StatusUnsupportedMediaType, s.serve(req).Code)
	})
}
