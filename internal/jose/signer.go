package jose

import (
	"crypto/ecdsa"
	"encoding/base64"
	"fmt"

	gojose "github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hyperledger/aries-framework-go/component/models/presexch"
)

// RequestObjectType is the JOSE typ header of a signed authorization request.
const RequestObjectType = "oauth-authz-req+jwt"

// ClientMetadata is the verifier metadata embedded in a request object.
type ClientMetadata struct {
	JWKS                              *gojose.JSONWebKeySet `json:"jwks,omitempty"`
	JWKSURI                           string                `json:"jwks_uri,omitempty"`
	AuthorizationEncryptedResponseAlg string                `json:"authorization_encrypted_response_alg,omitempty"`
	AuthorizationEncryptedResponseEnc string                `json:"authorization_encrypted_response_enc,omitempty"`
	IDTokenSignedResponseAlg          string                `json:"id_token_signed_response_alg,omitempty"`
	SubjectSyntaxTypesSupported       []string              `json:"subject_syntax_types_supported,omitempty"`
}

// RequestObjectClaims is the payload of an OID4VP authorization request.
type RequestObjectClaims struct {
	ResponseType              string                           `json:"response_type"`
	ClientID                  string                           `json:"client_id"`
	ClientIDScheme            string                           `json:"client_id_scheme,omitempty"`
	ResponseMode              string                           `json:"response_mode"`
	ResponseURI               string                           `json:"response_uri"`
	Nonce                     string                           `json:"nonce"`
	State                     string                           `json:"state"`
	IDTokenType               string                           `json:"id_token_type,omitempty"`
	PresentationDefinition    *presexch.PresentationDefinition `json:"presentation_definition,omitempty"`
	PresentationDefinitionURI string                           `json:"presentation_definition_uri,omitempty"`
	ClientMetadata            *ClientMetadata                  `json:"client_metadata,omitempty"`
	jwt.RegisteredClaims
}

// RequestObjectSigner signs request objects with the verifier's ES256 key.
type RequestObjectSigner struct {
	key   *ecdsa.PrivateKey
	keyID string
	jwk   *gojose.JSONWebKey
	x5c   []string
}

// NewRequestObjectSigner wraps a private EC P-256 JWK.
func NewRequestObjectSigner(jwk *gojose.JSONWebKey) (*RequestObjectSigner, error) {
	priv, ok := jwk.Key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("request object signer: expected an EC private key, got %T", jwk.Key)
	}
	signer := &RequestObjectSigner{key: priv, keyID: jwk.KeyID, jwk: jwk}
	for _, cert := range jwk.Certificates {
		signer.x5c = append(signer.x5c, base64.StdEncoding.EncodeToString(cert.Raw))
	}
	return signer, nil
}

// HasCertificateChain reports whether request objects carry an x5c header,
// which the x509 client id schemes require.
func (s *RequestObjectSigner) HasCertificateChain() bool {
	return len(s.x5c) > 0
}

// Sign returns the compact serialization of the signed request object.
func (s *RequestObjectSigner) Sign(claims *RequestObjectClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["typ"] = RequestObjectType
	if s.keyID != "" {
		token.Header["kid"] = s.keyID
	}
	if len(s.x5c) > 0 {
		token.Header["x5c"] = s.x5c
	}
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign request object: %w", err)
	}
	return signed, nil
}

// PublicKeySet returns the public half of the signing key.
func (s *RequestObjectSigner) PublicKeySet() gojose.JSONWebKeySet {
	return PublicKeySet(s.jwk)
}
