// Package walletresponse turns the form fields a wallet posts to the
// direct_post endpoint into a typed authorisation response.
package walletresponse

import (
	"encoding/json"
	"net/url"

	"github.com/hyperledger/aries-framework-go/component/models/presexch"

	"verifier/internal/presentation/models"
	"verifier/internal/sentinel"
	dErrors "verifier/pkg/domain-errors"
)

// Form field names as posted by the wallet.
const (
	FieldState                  = "state"
	FieldResponse               = "response"
	FieldIDToken                = "id_token"
	FieldVPToken                = "vp_token"
	FieldPresentationSubmission = "presentation_submission"
	FieldError                  = "error"
	FieldErrorDescription       = "error_description"
)

// Resolve picks the response shape the wallet actually used.
//
// A JARM envelope together with a state always yields DirectPostJWT, whatever
// plain fields came along with it. An envelope without a state is malformed.
// Anything else is a plain DirectPost, where every field is optional.
func Resolve(form url.Values) (models.AuthorisationResponse, error) {
	state := form.Get(FieldState)
	envelope := form.Get(FieldResponse)

	switch {
	case envelope != "" && state != "":
		return models.DirectPostJWT{State: state, Response: envelope}, nil
	case envelope != "":
		return nil, dErrors.Wrap(sentinel.ErrMalformed, dErrors.CodeInvalidRequest, "response envelope requires state")
	}

	return models.DirectPost{Response: ResolveData(form)}, nil
}

// ResolveData extracts the plain response fields. It is also applied to the
// claims of a decrypted JARM envelope.
func ResolveData(form url.Values) models.AuthorisationResponseData {
	return models.AuthorisationResponseData{
		State:                  form.Get(FieldState),
		IDToken:                form.Get(FieldIDToken),
		VPToken:                form.Get(FieldVPToken),
		PresentationSubmission: decodeSubmission(form.Get(FieldPresentationSubmission)),
		Error:                  form.Get(FieldError),
		ErrorDescription:       form.Get(FieldErrorDescription),
	}
}

// decodeSubmission returns nil when the field is absent or undecodable; whether
// a submission was required is for the verification engine to judge.
func decodeSubmission(raw string) *presexch.PresentationSubmission {
	if raw == "" {
		return nil
	}
	var submission presexch.PresentationSubmission
	if err := json.Unmarshal([]byte(raw), &submission); err != nil {
		return nil
	}
	return &submission
}
