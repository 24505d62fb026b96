package models

import (
	"strings"

	"github.com/hyperledger/aries-framework-go/component/models/presexch"

	id "verifier/pkg/domain"
)

// ResponseCodePlaceholder is replaced by the issued response code in redirect
// URI templates.
const ResponseCodePlaceholder = "{RESPONSE_CODE}"

// WalletResponseMethod tells how the verifier UI learns about the wallet's
// answer: by polling, or by the wallet redirecting the user back.
type WalletResponseMethod interface {
	walletResponseMethod()
}

// Poll means the UI polls GetWalletResponse until the response shows up.
type Poll struct{}

// Redirect means the wallet redirects the user to URITemplate with the response
// code substituted.
type Redirect struct {
	URITemplate string
}

func (Poll) walletResponseMethod()     {}
func (Redirect) walletResponseMethod() {}

// RedirectURI renders the template for the given response code.
func (r Redirect) RedirectURI(code id.ResponseCode) string {
	return strings.ReplaceAll(r.URITemplate, ResponseCodePlaceholder, code.String())
}

// WalletResponse is the answer retained on a submitted presentation. Either
// Error is set, or at least one of IDToken and VPToken is.
type WalletResponse struct {
	IDToken                string
	VPToken                string
	PresentationSubmission *presexch.PresentationSubmission
	Error                  string
	ErrorDescription       string
}

// IsError reports whether the wallet answered with an OAuth error.
func (r *WalletResponse) IsError() bool {
	return r.Error != ""
}

// AuthorisationResponse is what the wallet posted, resolved into one of two
// mutually exclusive shapes: DirectPost or DirectPostJWT.
type AuthorisationResponse interface {
	state() string
	authorisationResponse()
}

// AuthorisationResponseData carries the plain form fields of a direct_post.
type AuthorisationResponseData struct {
	State                  string
	IDToken                string
	VPToken                string
	PresentationSubmission *presexch.PresentationSubmission
	Error                  string
	ErrorDescription       string
}

// DirectPost is a plain form post.
type DirectPost struct {
	Response AuthorisationResponseData
}

// DirectPostJWT is a JARM envelope plus the state that locates the presentation.
type DirectPostJWT struct {
	State    string
	Response string
}

func (r DirectPost) state() string    { return r.Response.State }
func (r DirectPostJWT) state() string { return r.State }

func (DirectPost) authorisationResponse()    {}
func (DirectPostJWT) authorisationResponse() {}

// StateOf returns the state parameter of an authorisation response. It may be
// empty for a DirectPost.
func StateOf(r AuthorisationResponse) string {
	return r.state()
}

// ResponseModeOf returns the response mode the wallet answered with.
func ResponseModeOf(r AuthorisationResponse) ResponseMode {
	if _, ok := r.(DirectPostJWT); ok {
		return ResponseModeDirectPostJWT
	}
	return ResponseModeDirectPost
}

// ToWalletResponse projects the plain response fields onto what is retained.
func (d AuthorisationResponseData) ToWalletResponse() *WalletResponse {
	return &WalletResponse{
		IDToken:                d.IDToken,
		VPToken:                d.VPToken,
		PresentationSubmission: d.PresentationSubmission,
		Error:                  d.Error,
		ErrorDescription:       d.ErrorDescription,
	}
}
