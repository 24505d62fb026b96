// Package validation holds input size limits shared by the HTTP boundary and
// request validation.
package validation

import (
	"fmt"

	dErrors "verifier/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize bounds JSON request bodies from the verifier UI.
	MaxBodySize = 64 * 1024

	// MaxWalletResponseSize bounds direct_post form bodies. Verifiable
	// presentations with several credentials are far larger than UI requests.
	MaxWalletResponseSize = 1024 * 1024
)

// Slice element count limits
const (
	// MaxIDTokenTypes is the number of distinct id token types that exist.
	MaxIDTokenTypes = 2
)

// String element length limits
const (
	// MaxStateLength is the maximum length of the OAuth state a wallet echoes back.
	MaxStateLength = 500

	// MaxPathIDLength bounds transaction and request ids taken from URL paths.
	MaxPathIDLength = 256

	// MaxResponseCodeLength bounds the response_code query parameter.
	MaxResponseCodeLength = 256
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
