package walletresponse

import (
	"encoding/json"
	"net/url"

	"verifier/internal/presentation/models"
)

// ResolveClaims extracts the plain response fields from the claims of a
// decrypted JARM envelope. String claims are taken as is; structured claims
// (a vp_token array, the presentation_submission object) keep their JSON text,
// which is how a wallet encodes them in a form post.
func ResolveClaims(claims map[string]json.RawMessage) models.AuthorisationResponseData {
	form := url.Values{}
	for _, field := range []string{
		FieldState,
		FieldIDToken,
		FieldVPToken,
		FieldPresentationSubmission,
		FieldError,
		FieldErrorDescription,
	} {
		raw, ok := claims[field]
		if !ok || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			form.Set(field, s)
			continue
		}
		form.Set(field, string(raw))
	}
	return ResolveData(form)
}
