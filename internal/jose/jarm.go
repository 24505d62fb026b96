package jose

import (
	"encoding/json"
	"errors"
	"fmt"

	gojose "github.com/go-jose/go-jose/v3"

	"verifier/internal/presentation/models"
	"verifier/internal/sentinel"
)

// DecryptJARM opens a direct_post.jwt envelope with the presentation's
// ephemeral key and returns the response claims.
//
// An undecodable envelope or payload wraps sentinel.ErrMalformed. A key that
// cannot be parsed is a plain error: it was written by this service.
func DecryptJARM(envelope string, key models.EphemeralECDHPrivateJWK) (map[string]json.RawMessage, error) {
	jwk, err := ParsePrivateKey(string(key))
	if err != nil {
		return nil, fmt.Errorf("jarm key: %w", err)
	}

	jwe, err := gojose.ParseEncrypted(envelope)
	if err != nil {
		return nil, errors.Join(sentinel.ErrMalformed, fmt.Errorf("parse jarm envelope: %w", err))
	}
	plaintext, err := jwe.Decrypt(jwk.Key)
	if err != nil {
		return nil, errors.Join(sentinel.ErrMalformed, fmt.Errorf("decrypt jarm envelope: %w", err))
	}

	var claims map[string]json.RawMessage
	if err := json.Unmarshal(plaintext, &claims); err != nil {
		return nil, errors.Join(sentinel.ErrMalformed, fmt.Errorf("jarm payload is not a json object: %w", err))
	}
	return claims, nil
}
