package handler

import (
	id "verifier/pkg/domain"
	"verifier/pkg/platform/validation"
)

func parseTransactionID(raw string) (id.TransactionID, error) {
	if err := validation.CheckStringLength(paramTransactionID, raw, validation.MaxPathIDLength); err != nil {
		return "", err
	}
	return id.ParseTransactionID(raw)
}

func parseRequestID(raw string) (id.RequestID, error) {
	if err := validation.CheckStringLength(paramRequestID, raw, validation.MaxPathIDLength); err != nil {
		return "", err
	}
	return id.ParseRequestID(raw)
}

// parseResponseCode returns nil when no code was presented.
func parseResponseCode(raw string) (*id.ResponseCode, error) {
	if raw == "" {
		return nil, nil
	}
	if err := validation.CheckStringLength(queryResponseCode, raw, validation.MaxResponseCodeLength); err != nil {
		return nil, err
	}
	code, err := id.ParseResponseCode(raw)
	if err != nil {
		return nil, err
	}
	return &code, nil
}
