// Package jose holds the verifier's JOSE plumbing: parsing and generating EC
// keys, signing request objects, projecting public key sets, and decrypting
// JARM responses.
package jose

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"

	gojose "github.com/go-jose/go-jose/v3"
	"github.com/google/uuid"

	"verifier/internal/presentation/models"
)

const (
	// UseSignature and UseEncryption are the JWK "use" values.
	UseSignature  = "sig"
	UseEncryption = "enc"

	// JARMAlgorithm and JARMEncryption are advertised to wallets for
	// direct_post.jwt responses.
	JARMAlgorithm  = gojose.ECDH_ES
	JARMEncryption = gojose.A128CBC_HS256
)

// ParsePrivateKey parses a private EC P-256 JWK.
func ParsePrivateKey(data string) (*gojose.JSONWebKey, error) {
	var jwk gojose.JSONWebKey
	if err := jwk.UnmarshalJSON([]byte(data)); err != nil {
		return nil, fmt.Errorf("parse jwk: %w", err)
	}
	priv, ok := jwk.Key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("parse jwk: expected an EC private key, got %T", jwk.Key)
	}
	if priv.Curve != elliptic.P256() {
		return nil, fmt.Errorf("parse jwk: unsupported curve %s", priv.Curve.Params().Name)
	}
	return &jwk, nil
}

// GenerateSigningKey creates a P-256 key for request object signing.
func GenerateSigningKey() (*gojose.JSONWebKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return &gojose.JSONWebKey{
		Key:       priv,
		KeyID:     uuid.NewString(),
		Algorithm: string(gojose.ES256),
		Use:       UseSignature,
	}, nil
}

// GenerateEphemeralKey creates the per-presentation ECDH key a wallet encrypts
// its JARM response to. The result is the JSON text of the private JWK.
func GenerateEphemeralKey() (models.EphemeralECDHPrivateJWK, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate ephemeral key: %w", err)
	}
	jwk := gojose.JSONWebKey{
		Key:       priv,
		KeyID:     uuid.NewString(),
		Algorithm: string(JARMAlgorithm),
		Use:       UseEncryption,
	}
	data, err := jwk.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal ephemeral key: %w", err)
	}
	return models.EphemeralECDHPrivateJWK(data), nil
}

// PublicKeySet returns a key set holding only the public half of jwk.
func PublicKeySet(jwk *gojose.JSONWebKey) gojose.JSONWebKeySet {
	return gojose.JSONWebKeySet{Keys: []gojose.JSONWebKey{jwk.Public()}}
}

// EphemeralPublicKeySet parses an ephemeral private key and projects its
// public half.
func EphemeralPublicKeySet(key models.EphemeralECDHPrivateJWK) (gojose.JSONWebKeySet, error) {
	jwk, err := ParsePrivateKey(string(key))
	if err != nil {
		return gojose.JSONWebKeySet{}, err
	}
	return PublicKeySet(jwk), nil
}

// MarshalKeySet encodes a key set as served under a jwk-set+json content type.
func MarshalKeySet(set gojose.JSONWebKeySet) ([]byte, error) {
	data, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshal jwks: %w", err)
	}
	return data, nil
}
