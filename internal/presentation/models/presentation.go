package models

import (
	"crypto/subtle"
	"fmt"
	"time"

	id "verifier/pkg/domain"
	dErrors "verifier/pkg/domain-errors"
)

// This file contains the presentation aggregate: one verifier-initiated
// request for presentation and its outcome. It is a pure domain entity with no
// transport or storage concerns.

// Presentation is the transaction record shared by every use case.
//
// ID is internal and never reaches the wallet. RequestID is the wallet-facing
// handle and the OAuth state. Nonce and EphemeralECDHPrivateJWK are fixed at
// creation; the key is dropped once the presentation is accepted.
type Presentation struct {
	ID                         id.TransactionID
	RequestID                  id.RequestID
	InitiatedAt                time.Time
	Type                       PresentationType
	Nonce                      Nonce
	EphemeralECDHPrivateJWK    *EphemeralECDHPrivateJWK
	ResponseMode               ResponseMode
	PresentationDefinitionMode EmbedMode
	WalletResponseMethod       WalletResponseMethod
	State                      State

	// Set on submission
	SubmittedAt    *time.Time
	WalletResponse *WalletResponse
	ResponseCode   *id.ResponseCode

	// Set on acceptance
	AcceptedAt *time.Time
}

// NewRequested builds a presentation in its initial state.
func NewRequested(
	txID id.TransactionID,
	requestID id.RequestID,
	initiatedAt time.Time,
	presentationType PresentationType,
	nonce Nonce,
	ephemeralKey *EphemeralECDHPrivateJWK,
	responseMode ResponseMode,
	pdMode EmbedMode,
	method WalletResponseMethod,
) (*Presentation, error) {
	if txID.IsNil() || requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "transaction and request ids are required")
	}
	if nonce == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "nonce is required")
	}
	if presentationType == nil || method == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "presentation type and wallet response method are required")
	}
	if responseMode.RequiresJARM() && ephemeralKey == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "direct_post.jwt requires an ephemeral key")
	}
	return &Presentation{
		ID:                         txID,
		RequestID:                  requestID,
		InitiatedAt:                initiatedAt.UTC(),
		Type:                       presentationType,
		Nonce:                      nonce,
		EphemeralECDHPrivateJWK:    ephemeralKey,
		ResponseMode:               responseMode,
		PresentationDefinitionMode: pdMode,
		WalletResponseMethod:       method,
		State:                      StateRequested,
	}, nil
}

func (p *Presentation) IsRequested() bool { return p.State == StateRequested }
func (p *Presentation) IsSubmitted() bool { return p.State == StateSubmitted }
func (p *Presentation) IsAccepted() bool  { return p.State == StateAccepted }

// IsPending reports whether the wallet may still fetch the artifacts of the
// request (request object, presentation definition, JARM keys).
func (p *Presentation) IsPending() bool {
	return p.IsRequested() || p.IsSubmitted()
}

// HasAnswer reports whether a wallet response is available to the UI.
func (p *Presentation) HasAnswer() bool {
	return p.IsSubmitted() || p.IsAccepted()
}

// Submit moves a requested presentation to submitted and retains the wallet's answer.
// code is only set for the redirect wallet response method.
func (p *Presentation) Submit(at time.Time, response *WalletResponse, code *id.ResponseCode) error {
	if !p.IsRequested() {
		return dErrors.New(dErrors.CodeInvalidState, fmt.Sprintf("presentation is %s, expected %s", p.State, StateRequested))
	}
	if response == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet response is required")
	}
	at = at.UTC()
	p.State = StateSubmitted
	p.SubmittedAt = &at
	p.WalletResponse = response
	p.ResponseCode = code
	return nil
}

// Accept moves a submitted presentation to accepted after the verification
// engine confirmed the response. The ephemeral key is no longer needed.
func (p *Presentation) Accept(at time.Time) error {
	if !p.IsSubmitted() {
		return dErrors.New(dErrors.CodeInvalidState, fmt.Sprintf("presentation is %s, expected %s", p.State, StateSubmitted))
	}
	at = at.UTC()
	p.State = StateAccepted
	p.AcceptedAt = &at
	p.EphemeralECDHPrivateJWK = nil
	return nil
}

// MatchesResponseCode checks the code the UI presents against the one issued
// on submission. Without an issued code (poll method) no code must be presented.
func (p *Presentation) MatchesResponseCode(code *id.ResponseCode) bool {
	switch {
	case p.ResponseCode == nil && code == nil:
		return true
	case p.ResponseCode == nil || code == nil:
		return false
	default:
		return subtle.ConstantTimeCompare([]byte(*p.ResponseCode), []byte(*code)) == 1
	}
}
