package models

// ResponseMode is the OID4VP response mode the wallet is asked to use.
type ResponseMode string

const (
	ResponseModeDirectPost    ResponseMode = "direct_post"
	ResponseModeDirectPostJWT ResponseMode = "direct_post.jwt"
)

// IsValid checks if the response mode is one of the supported enum values.
func (m ResponseMode) IsValid() bool {
	return m == ResponseModeDirectPost || m == ResponseModeDirectPostJWT
}

// RequiresJARM reports whether responses in this mode arrive as a JARM envelope
// and therefore need an ephemeral key.
func (m ResponseMode) RequiresJARM() bool {
	return m == ResponseModeDirectPostJWT
}

// EmbedMode tells whether an artifact (request object, presentation definition)
// is embedded in the request or fetched by the wallet from a URI.
type EmbedMode string

const (
	EmbedByValue     EmbedMode = "by_value"
	EmbedByReference EmbedMode = "by_reference"
)

// IsValid checks if the embed mode is one of the supported enum values.
func (m EmbedMode) IsValid() bool {
	return m == EmbedByValue || m == EmbedByReference
}

// IDTokenType is the subject binding an id_token request accepts.
type IDTokenType string

const (
	IDTokenSubjectSigned  IDTokenType = "subject_signed_id_token"
	IDTokenAttesterSigned IDTokenType = "attester_signed_id_token"
)

// IsValid checks if the id token type is one of the supported enum values.
func (t IDTokenType) IsValid() bool {
	return t == IDTokenSubjectSigned || t == IDTokenAttesterSigned
}

// State is the lifecycle state of a presentation.
type State string

const (
	StateRequested State = "requested"
	StateSubmitted State = "submitted"
	StateAccepted  State = "accepted"
	// StateTimedOut is never persisted. A presentation whose retention window
	// elapsed is simply absent from the store; the value exists so callers and
	// events can name the outcome.
	StateTimedOut State = "timed_out"
)

// IsValid checks if the state is one a persisted presentation can carry.
func (s State) IsValid() bool {
	return s == StateRequested || s == StateSubmitted || s == StateAccepted
}

// Nonce is the single-use value the wallet must echo back inside its response.
type Nonce string

// EphemeralECDHPrivateJWK is the JSON text of the private JWK used to decrypt
// JARM responses for one presentation.
type EphemeralECDHPrivateJWK string

// String hides key material from logs and fmt verbs.
func (EphemeralECDHPrivateJWK) String() string { return "[REDACTED]" }
