package models

import (
	"github.com/hyperledger/aries-framework-go/component/models/presexch"
)

// PresentationKind is the wire name of a presentation type.
type PresentationKind string

const (
	KindIDToken      PresentationKind = "id_token"
	KindVPToken      PresentationKind = "vp_token"
	KindIDAndVPToken PresentationKind = "vp_token id_token"
)

// PresentationType describes what the verifier asks the wallet for. It is a
// closed set: IDTokenRequest, VPTokenRequest and IDAndVPTokenRequest.
type PresentationType interface {
	Kind() PresentationKind
	presentationType()
}

// IDTokenRequest asks for an id_token with one of the accepted subject bindings.
type IDTokenRequest struct {
	IDTokenTypes []IDTokenType
}

// VPTokenRequest asks for a verifiable presentation matching a definition.
type VPTokenRequest struct {
	PresentationDefinition *presexch.PresentationDefinition
}

// IDAndVPTokenRequest asks for both an id_token and a verifiable presentation.
type IDAndVPTokenRequest struct {
	IDTokenTypes           []IDTokenType
	PresentationDefinition *presexch.PresentationDefinition
}

func (IDTokenRequest) Kind() PresentationKind      { return KindIDToken }
func (VPTokenRequest) Kind() PresentationKind      { return KindVPToken }
func (IDAndVPTokenRequest) Kind() PresentationKind { return KindIDAndVPToken }

func (IDTokenRequest) presentationType()      {}
func (VPTokenRequest) presentationType()      {}
func (IDAndVPTokenRequest) presentationType() {}

// PresentationDefinitionOf returns the definition carried by t, if any.
func PresentationDefinitionOf(t PresentationType) (*presexch.PresentationDefinition, bool) {
	switch v := t.(type) {
	case VPTokenRequest:
		return v.PresentationDefinition, v.PresentationDefinition != nil
	case IDAndVPTokenRequest:
		return v.PresentationDefinition, v.PresentationDefinition != nil
	default:
		return nil, false
	}
}

// IDTokenTypesOf returns the id token types requested by t, if any.
func IDTokenTypesOf(t PresentationType) []IDTokenType {
	switch v := t.(type) {
	case IDTokenRequest:
		return v.IDTokenTypes
	case IDAndVPTokenRequest:
		return v.IDTokenTypes
	default:
		return nil
	}
}

// ParsePresentationKind maps the wire name to a kind.
func ParsePresentationKind(s string) (PresentationKind, bool) {
	switch k := PresentationKind(s); k {
	case KindIDToken, KindVPToken, KindIDAndVPToken:
		return k, true
	default:
		return "", false
	}
}
