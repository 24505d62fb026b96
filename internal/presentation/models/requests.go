package models

import (
	"net/url"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/models/presexch"

	dErrors "verifier/pkg/domain-errors"
	pstrings "verifier/pkg/platform/strings"
	"verifier/pkg/platform/validation"
	pkgvalidation "verifier/pkg/validation"
)

// InitTransactionRequest is what the verifier UI posts to start a presentation.
type InitTransactionRequest struct {
	Type                              string                           `json:"type" validate:"required"`
	IDTokenType                       string                           `json:"id_token_type,omitempty"`
	PresentationDefinition            *presexch.PresentationDefinition `json:"presentation_definition,omitempty"`
	Nonce                             string                           `json:"nonce" validate:"required,notblank,max=500"`
	ResponseMode                      string                           `json:"response_mode,omitempty" validate:"omitempty,oneof=direct_post direct_post.jwt"`
	JARMode                           string                           `json:"jar_mode,omitempty" validate:"omitempty,oneof=by_value by_reference"`
	PresentationDefinitionMode        string                           `json:"presentation_definition_mode,omitempty" validate:"omitempty,oneof=by_value by_reference"`
	WalletResponseRedirectURITemplate string                           `json:"wallet_response_redirect_uri_template,omitempty" validate:"omitempty,max=2048"`

	idTokenTypes []IDTokenType
}

// Normalize trims inputs and splits the space separated id_token_type list.
func (r *InitTransactionRequest) Normalize() {
	r.Type = strings.TrimSpace(r.Type)
	r.Nonce = strings.TrimSpace(r.Nonce)
	r.ResponseMode = strings.TrimSpace(r.ResponseMode)
	r.JARMode = strings.TrimSpace(r.JARMode)
	r.PresentationDefinitionMode = strings.TrimSpace(r.PresentationDefinitionMode)
	r.WalletResponseRedirectURITemplate = strings.TrimSpace(r.WalletResponseRedirectURITemplate)

	r.idTokenTypes = nil
	for _, t := range pstrings.DedupeAndTrim(strings.Split(r.IDTokenType, " ")) {
		r.idTokenTypes = append(r.idTokenTypes, IDTokenType(t))
	}
}

// Validate checks the request shape. The presentation type decides which of
// id_token_type and presentation_definition are required.
func (r *InitTransactionRequest) Validate() error {
	if err := pkgvalidation.Validate(r); err != nil {
		return err
	}
	if err := validation.CheckSliceCount("id_token_type", len(r.idTokenTypes), validation.MaxIDTokenTypes); err != nil {
		return err
	}
	for _, t := range r.idTokenTypes {
		if !t.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "id_token_type must be one of [subject_signed_id_token attester_signed_id_token]")
		}
	}

	kind, ok := ParsePresentationKind(r.Type)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "type must be one of [id_token vp_token 'vp_token id_token']")
	}
	if kind != KindVPToken && len(r.idTokenTypes) == 0 {
		return dErrors.New(dErrors.CodeValidation, "id_token_type is required")
	}
	if kind != KindIDToken {
		if r.PresentationDefinition == nil {
			return dErrors.New(dErrors.CodeValidation, "presentation_definition is required")
		}
		if err := r.PresentationDefinition.ValidateSchema(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "presentation_definition is invalid")
		}
	}

	if r.WalletResponseRedirectURITemplate != "" {
		if !strings.Contains(r.WalletResponseRedirectURITemplate, ResponseCodePlaceholder) {
			return dErrors.New(dErrors.CodeValidation, "wallet_response_redirect_uri_template must contain "+ResponseCodePlaceholder)
		}
		u, err := url.Parse(r.WalletResponseRedirectURITemplate)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return dErrors.New(dErrors.CodeValidation, "wallet_response_redirect_uri_template must be an absolute http(s) url")
		}
	}
	return nil
}

// PresentationType builds the requested presentation type. Call after Validate.
func (r *InitTransactionRequest) PresentationType() PresentationType {
	kind, _ := ParsePresentationKind(r.Type)
	switch kind {
	case KindIDToken:
		return IDTokenRequest{IDTokenTypes: r.idTokenTypes}
	case KindVPToken:
		return VPTokenRequest{PresentationDefinition: r.PresentationDefinition}
	default:
		return IDAndVPTokenRequest{IDTokenTypes: r.idTokenTypes, PresentationDefinition: r.PresentationDefinition}
	}
}

// WalletResponseMethod is Redirect when a template was given, Poll otherwise.
func (r *InitTransactionRequest) WalletResponseMethod() WalletResponseMethod {
	if r.WalletResponseRedirectURITemplate != "" {
		return Redirect{URITemplate: r.WalletResponseRedirectURITemplate}
	}
	return Poll{}
}

// InitTransactionResponse tells the UI how to hand the request to the wallet:
// either the signed request object itself or a URI to fetch it from.
type InitTransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	ClientID      string `json:"client_id"`
	Request       string `json:"request,omitempty"`
	RequestURI    string `json:"request_uri,omitempty"`
}

// WalletResponseTO is the wallet's answer as returned to the verifier UI.
type WalletResponseTO struct {
	IDToken                string                           `json:"id_token,omitempty"`
	VPToken                string                           `json:"vp_token,omitempty"`
	PresentationSubmission *presexch.PresentationSubmission `json:"presentation_submission,omitempty"`
	Error                  string                           `json:"error,omitempty"`
	ErrorDescription       string                           `json:"error_description,omitempty"`
}

// NewWalletResponseTO projects a retained wallet response.
func NewWalletResponseTO(r *WalletResponse) *WalletResponseTO {
	return &WalletResponseTO{
		IDToken:                r.IDToken,
		VPToken:                r.VPToken,
		PresentationSubmission: r.PresentationSubmission,
		Error:                  r.Error,
		ErrorDescription:       r.ErrorDescription,
	}
}

// PostWalletResponseResult is returned to the wallet after a direct_post.
// RedirectURI is empty for the poll method.
type PostWalletResponseResult struct {
	RedirectURI string `json:"redirect_uri,omitempty"`
}
