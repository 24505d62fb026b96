package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	gojose "github.com/go-jose/go-jose/v3"
	"github.com/hyperledger/aries-framework-go/component/models/presexch"

	"verifier/internal/jose"
	"verifier/internal/platform/middleware"
	"verifier/internal/platform/tracer"
	"verifier/internal/presentation/dispatch"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/query"
	"verifier/internal/presentation/service"
	"verifier/internal/presentation/walletresponse"
	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
	"verifier/pkg/platform/httputil"
	"verifier/pkg/platform/validation"
)

const (
	contentTypeRequestObject = "application/oauth-authz-req+jwt"
	contentTypeJWKSet        = "application/jwk-set+json; charset=UTF-8"
	contentTypeForm          = "application/x-www-form-urlencoded"
	contentTypeJSON          = "application/json"

	paramTransactionID = "transactionId"
	paramRequestID     = "requestId"
	queryResponseCode  = "response_code"
)

// Service defines the presentation use cases served over HTTP.
type Service interface {
	InitTransaction(ctx context.Context, req *models.InitTransactionRequest) (*models.InitTransactionResponse, error)
	GetWalletResponse(ctx context.Context, txID id.TransactionID, code *id.ResponseCode) (query.Result[*models.WalletResponseTO], error)
	GetRequestObject(ctx context.Context, requestID id.RequestID) (query.Result[string], error)
	GetPresentationDefinition(ctx context.Context, requestID id.RequestID) (query.Result[*presexch.PresentationDefinition], error)
	GetJarmJWKS(ctx context.Context, requestID id.RequestID) (query.Result[gojose.JSONWebKeySet], error)
	PostWalletResponse(ctx context.Context, resp models.AuthorisationResponse) (query.Result[*models.PostWalletResponseResult], error)
	GetPublicJWKSet() gojose.JSONWebKeySet
}

// Handler serves the verifier UI and wallet endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
	tracer  tracer.Tracer
}

// New creates a new presentation Handler.
func New(svc Service, logger *slog.Logger, t tracer.Tracer) *Handler {
	if t == nil {
		t = tracer.NewNoop()
	}
	return &Handler{service: svc, logger: logger, tracer: t}
}

// RegisterUI registers the endpoints used by the verifier UI.
func (h *Handler) RegisterUI(r chi.Router) {
	r.With(middleware.RequireContentType(contentTypeJSON)).Post("/ui/presentations", h.handleInitTransaction)
	r.Get("/ui/presentations/{transactionId}", h.handleGetWalletResponse)
}

// RegisterWallet registers the endpoints a wallet talks to.
func (h *Handler) RegisterWallet(r chi.Router) {
	r.Get(service.RequestObjectPath, h.handleGetRequestObject)
	r.Get(service.PresentationDefinitionPath, h.handleGetPresentationDefinition)
	r.Get(service.JarmJWKSPath, h.handleGetJarmJWKS)
	r.With(middleware.RequireContentType(contentTypeForm)).Post(service.DirectPostPath, h.handlePostWalletResponse)
	r.Get(service.PublicJWKSPath, h.handleGetPublicJWKSet)
}

func (h *Handler) handleInitTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxBodySize)
	req, ok := httputil.DecodeAndPrepare[models.InitTransactionRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.InitTransaction(ctx, req)
	if err != nil {
		h.logFailure(ctx, "failed to initiate presentation", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleGetWalletResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txID, err := parseTransactionID(chi.URLParam(r, paramTransactionID))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	code, err := parseResponseCode(r.URL.Query().Get(queryResponseCode))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.GetWalletResponse(ctx, txID, code)
	writeResult(h, w, r, result, err, "presentation", func(to *models.WalletResponseTO) {
		httputil.WriteJSON(w, http.StatusOK, to)
	})
}

func (h *Handler) handleGetRequestObject(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseRequestID(chi.URLParam(r, paramRequestID))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.GetRequestObject(r.Context(), requestID)
	writeResult(h, w, r, result, err, "request object", func(jar string) {
		httputil.WriteBody(w, http.StatusOK, contentTypeRequestObject, []byte(jar))
	})
}

func (h *Handler) handleGetPresentationDefinition(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseRequestID(chi.URLParam(r, paramRequestID))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.GetPresentationDefinition(r.Context(), requestID)
	writeResult(h, w, r, result, err, "presentation definition", func(pd *presexch.PresentationDefinition) {
		httputil.WriteJSON(w, http.StatusOK, pd)
	})
}

func (h *Handler) handleGetJarmJWKS(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseRequestID(chi.URLParam(r, paramRequestID))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.GetJarmJWKS(r.Context(), requestID)
	writeResult(h, w, r, result, err, "jarm key set", func(set gojose.JSONWebKeySet) {
		h.writeKeySet(w, r, set)
	})
}

func (h *Handler) handleGetPublicJWKSet(w http.ResponseWriter, r *http.Request) {
	h.writeKeySet(w, r, h.service.GetPublicJWKSet())
}

func (h *Handler) handlePostWalletResponse(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), tracer.SpanWalletPost)
	var spanErr error
	defer func() { span.End(spanErr) }()

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxWalletResponseSize)
	if err := r.ParseForm(); err != nil {
		spanErr = err
		h.logger.WarnContext(ctx, "failed to parse wallet response",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid form body"))
		return
	}
	if err := validation.CheckStringLength(walletresponse.FieldState, r.PostForm.Get(walletresponse.FieldState), validation.MaxStateLength); err != nil {
		spanErr = err
		httputil.WriteError(w, err)
		return
	}

	resp, err := walletresponse.Resolve(r.PostForm)
	if err != nil {
		spanErr = err
		h.logFailure(ctx, "unusable wallet response", err)
		httputil.WriteError(w, err)
		return
	}
	span.SetAttributes(
		tracer.String(tracer.AttrResponseMode, string(models.ResponseModeOf(resp))),
		tracer.String(tracer.AttrRequestID, tracer.Fingerprint(models.StateOf(resp))),
	)

	result, err := h.service.PostWalletResponse(ctx, resp)
	spanErr = err
	if err == nil {
		span.SetAttributes(tracer.String(tracer.AttrResult, result.String()))
	}
	writeResult(h, w, r.WithContext(ctx), result, err, "presentation", func(res *models.PostWalletResponseResult) {
		httputil.WriteJSON(w, http.StatusOK, res)
	})
}

func (h *Handler) writeKeySet(w http.ResponseWriter, r *http.Request, set gojose.JSONWebKeySet) {
	body, err := jose.MarshalKeySet(set)
	if err != nil {
		h.logFailure(r.Context(), "failed to encode key set", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode key set"))
		return
	}
	httputil.WriteBody(w, http.StatusOK, contentTypeJWKSet, body)
}

// writeResult renders a query outcome: Found through write, anything else as
// an error whose status comes from dispatch.
func writeResult[T any](h *Handler, w http.ResponseWriter, r *http.Request, result query.Result[T], err error, subject string, write func(T)) {
	if err != nil {
		h.logFailure(r.Context(), "failed to serve "+subject, err)
		httputil.WriteError(w, err)
		return
	}

	outcome := dispatch.ForQuery(result)
	if outcome == dispatch.Found {
		result.Match(write, func() {}, func() {})
		return
	}
	msg := subject + " not found"
	if outcome == dispatch.InvalidState {
		msg = subject + " is not in a state to serve this request"
	}
	httputil.WriteError(w, dispatch.Error(outcome, msg))
}

// logFailure logs client-caused failures at warn and the rest at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"error", err,
	}
	if dispatch.ForError(err) == dispatch.Fault {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}
