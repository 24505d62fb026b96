// Package domain provides type-safe identifiers so a transaction id can never be
// passed where a request id is expected.
package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	dErrors "verifier/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a RequestID where a TransactionID is expected.
type (
	// TransactionID is the verifier-internal handle of a presentation. It is
	// only ever shared with the verifier UI, never with the wallet.
	TransactionID string
	// RequestID is the wallet-facing handle. It doubles as the OAuth `state`.
	RequestID string
	// ResponseCode is a one-time token handed to the wallet on redirect so the
	// UI can prove it is the party the wallet returned to.
	ResponseCode string
)

// randomTokenBytes yields 256 bits of entropy for wallet-facing tokens.
const randomTokenBytes = 32

// NewTransactionID generates a fresh random transaction id.
func NewTransactionID() TransactionID {
	return TransactionID(uuid.NewString())
}

// NewRequestID generates an unguessable request id. It must not be derivable
// from the transaction id.
func NewRequestID() (RequestID, error) {
	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate request id: %w", err)
	}
	return RequestID(token), nil
}

// NewResponseCode generates an unguessable response code.
func NewResponseCode() (ResponseCode, error) {
	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate response code: %w", err)
	}
	return ResponseCode(token), nil
}

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseTransactionID(s string) (TransactionID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "transaction ID cannot be empty")
	}
	return TransactionID(s), nil
}

func ParseRequestID(s string) (RequestID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "request ID cannot be empty")
	}
	return RequestID(s), nil
}

func ParseResponseCode(s string) (ResponseCode, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "response code cannot be empty")
	}
	return ResponseCode(s), nil
}

func (id TransactionID) String() string { return string(id) }
func (id RequestID) String() string     { return string(id) }
func (c ResponseCode) String() string   { return string(c) }

func (id TransactionID) IsNil() bool { return id == "" }
func (id RequestID) IsNil() bool     { return id == "" }
func (c ResponseCode) IsNil() bool   { return c == "" }

func randomToken() (string, error) {
	b := make([]byte, randomTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
