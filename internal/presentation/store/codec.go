package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyperledger/aries-framework-go/component/models/presexch"

	"verifier/internal/presentation/models"
	id "verifier/pkg/domain"
	"verifier/pkg/validation"
)

// recordVersion is bumped whenever the persisted shape changes incompatibly.
// Records carrying another version decode as malformed and read as absent.
const recordVersion = 1

const (
	methodPoll     = "poll"
	methodRedirect = "redirect"
)

// presentationJSON is the persisted representation of a Presentation.
// Field names are stable wire identifiers; unknown fields are ignored on read.
type presentationJSON struct {
	Version                    int                       `json:"version" validate:"required"`
	TransactionID              string                    `json:"transaction_id" validate:"required"`
	RequestID                  string                    `json:"request_id" validate:"required"`
	Type                       *presentationTypeJSON     `json:"type" validate:"required"`
	Nonce                      string                    `json:"nonce" validate:"required"`
	EphemeralECDHPrivateJWK    *string                   `json:"ephemeral_ecdh_private_jwk,omitempty"`
	ResponseMode               string                    `json:"response_mode" validate:"required"`
	PresentationDefinitionMode string                    `json:"presentation_definition_mode" validate:"required"`
	WalletResponseMethod       *walletResponseMethodJSON `json:"wallet_response_method" validate:"required"`
	InitiatedAt                *time.Time                `json:"initiated_at" validate:"required"`
	State                      string                    `json:"state" validate:"required"`
	SubmittedAt                *time.Time                `json:"submitted_at,omitempty"`
	WalletResponse             *walletResponseJSON       `json:"wallet_response,omitempty"`
	ResponseCode               *string                   `json:"response_code,omitempty"`
	AcceptedAt                 *time.Time                `json:"accepted_at,omitempty"`
}

type presentationTypeJSON struct {
	Type                   string                           `json:"type" validate:"required"`
	IDTokenTypes           []string                         `json:"id_token_type,omitempty"`
	PresentationDefinition *presexch.PresentationDefinition `json:"presentation_definition,omitempty"`
}

type walletResponseMethodJSON struct {
	Type                string `json:"type" validate:"required,oneof=poll redirect"`
	RedirectURITemplate string `json:"redirect_uri_template,omitempty"`
}

type walletResponseJSON struct {
	IDToken                string                           `json:"id_token,omitempty"`
	VPToken                string                           `json:"vp_token,omitempty"`
	PresentationSubmission *presexch.PresentationSubmission `json:"presentation_submission,omitempty"`
	Error                  string                           `json:"error,omitempty"`
	ErrorDescription       string                           `json:"error_description,omitempty"`
}

func encodePresentation(p *models.Presentation) (string, error) {
	initiatedAt := p.InitiatedAt.UTC()
	j := presentationJSON{
		Version:                    recordVersion,
		TransactionID:              p.ID.String(),
		RequestID:                  p.RequestID.String(),
		Type:                       presentationTypeToJSON(p.Type),
		Nonce:                      string(p.Nonce),
		ResponseMode:               string(p.ResponseMode),
		PresentationDefinitionMode: string(p.PresentationDefinitionMode),
		WalletResponseMethod:       walletResponseMethodToJSON(p.WalletResponseMethod),
		InitiatedAt:                &initiatedAt,
		State:                      string(p.State),
		SubmittedAt:                utcPtr(p.SubmittedAt),
		AcceptedAt:                 utcPtr(p.AcceptedAt),
	}
	if p.EphemeralECDHPrivateJWK != nil {
		key := string(*p.EphemeralECDHPrivateJWK)
		j.EphemeralECDHPrivateJWK = &key
	}
	if p.WalletResponse != nil {
		j.WalletResponse = &walletResponseJSON{
			IDToken:                p.WalletResponse.IDToken,
			VPToken:                p.WalletResponse.VPToken,
			PresentationSubmission: p.WalletResponse.PresentationSubmission,
			Error:                  p.WalletResponse.Error,
			ErrorDescription:       p.WalletResponse.ErrorDescription,
		}
	}
	if p.ResponseCode != nil {
		code := p.ResponseCode.String()
		j.ResponseCode = &code
	}
	if j.Type == nil || j.WalletResponseMethod == nil {
		return "", fmt.Errorf("encode presentation %s: unsupported type or wallet response method", p.ID)
	}

	data, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("encode presentation %s: %w", p.ID, err)
	}
	return string(data), nil
}

// decodePresentation parses and validates a persisted record. Any error means
// the record is unreadable.
func decodePresentation(data string) (*models.Presentation, error) {
	var j presentationJSON
	if err := json.Unmarshal([]byte(data), &j); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := validation.Validate(&j); err != nil {
		return nil, err
	}
	if j.Version != recordVersion {
		return nil, fmt.Errorf("unsupported record version %d", j.Version)
	}

	presentationType, err := presentationTypeFromJSON(j.Type)
	if err != nil {
		return nil, err
	}
	responseMode := models.ResponseMode(j.ResponseMode)
	if !responseMode.IsValid() {
		return nil, fmt.Errorf("invalid response_mode %q", j.ResponseMode)
	}
	pdMode := models.EmbedMode(j.PresentationDefinitionMode)
	if !pdMode.IsValid() {
		return nil, fmt.Errorf("invalid presentation_definition_mode %q", j.PresentationDefinitionMode)
	}
	state := models.State(j.State)
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid state %q", j.State)
	}

	p := &models.Presentation{
		ID:                         id.TransactionID(j.TransactionID),
		RequestID:                  id.RequestID(j.RequestID),
		InitiatedAt:                j.InitiatedAt.UTC(),
		Type:                       presentationType,
		Nonce:                      models.Nonce(j.Nonce),
		ResponseMode:               responseMode,
		PresentationDefinitionMode: pdMode,
		WalletResponseMethod:       walletResponseMethodFromJSON(j.WalletResponseMethod),
		State:                      state,
		SubmittedAt:                utcPtr(j.SubmittedAt),
		AcceptedAt:                 utcPtr(j.AcceptedAt),
	}
	if j.EphemeralECDHPrivateJWK != nil {
		key := models.EphemeralECDHPrivateJWK(*j.EphemeralECDHPrivateJWK)
		p.EphemeralECDHPrivateJWK = &key
	}
	if j.WalletResponse != nil {
		p.WalletResponse = &models.WalletResponse{
			IDToken:                j.WalletResponse.IDToken,
			VPToken:                j.WalletResponse.VPToken,
			PresentationSubmission: j.WalletResponse.PresentationSubmission,
			Error:                  j.WalletResponse.Error,
			ErrorDescription:       j.WalletResponse.ErrorDescription,
		}
	}
	if j.ResponseCode != nil {
		code := id.ResponseCode(*j.ResponseCode)
		p.ResponseCode = &code
	}

	if p.HasAnswer() && (p.SubmittedAt == nil || p.WalletResponse == nil) {
		return nil, fmt.Errorf("%s record without wallet response", state)
	}
	if p.IsAccepted() && p.AcceptedAt == nil {
		return nil, fmt.Errorf("accepted record without accepted_at")
	}
	if p.IsRequested() && p.ResponseMode.RequiresJARM() && p.EphemeralECDHPrivateJWK == nil {
		return nil, fmt.Errorf("%s record without ephemeral key", responseMode)
	}
	return p, nil
}

func presentationTypeToJSON(t models.PresentationType) *presentationTypeJSON {
	switch v := t.(type) {
	case models.IDTokenRequest:
		return &presentationTypeJSON{Type: string(v.Kind()), IDTokenTypes: idTokenTypesToStrings(v.IDTokenTypes)}
	case models.VPTokenRequest:
		return &presentationTypeJSON{Type: string(v.Kind()), PresentationDefinition: v.PresentationDefinition}
	case models.IDAndVPTokenRequest:
		return &presentationTypeJSON{
			Type:                   string(v.Kind()),
			IDTokenTypes:           idTokenTypesToStrings(v.IDTokenTypes),
			PresentationDefinition: v.PresentationDefinition,
		}
	default:
		return nil
	}
}

func presentationTypeFromJSON(j *presentationTypeJSON) (models.PresentationType, error) {
	kind, ok := models.ParsePresentationKind(j.Type)
	if !ok {
		return nil, fmt.Errorf("invalid presentation type %q", j.Type)
	}
	idTokenTypes, err := idTokenTypesFromStrings(j.IDTokenTypes)
	if err != nil {
		return nil, err
	}
	switch kind {
	case models.KindIDToken:
		if len(idTokenTypes) == 0 {
			return nil, fmt.Errorf("%s type without id_token_type", kind)
		}
		return models.IDTokenRequest{IDTokenTypes: idTokenTypes}, nil
	case models.KindVPToken:
		if j.PresentationDefinition == nil {
			return nil, fmt.Errorf("%s type without presentation_definition", kind)
		}
		return models.VPTokenRequest{PresentationDefinition: j.PresentationDefinition}, nil
	default:
		if len(idTokenTypes) == 0 || j.PresentationDefinition == nil {
			return nil, fmt.Errorf("%s type requires id_token_type and presentation_definition", kind)
		}
		return models.IDAndVPTokenRequest{IDTokenTypes: idTokenTypes, PresentationDefinition: j.PresentationDefinition}, nil
	}
}

func walletResponseMethodToJSON(m models.WalletResponseMethod) *walletResponseMethodJSON {
	switch v := m.(type) {
	case models.Poll:
		return &walletResponseMethodJSON{Type: methodPoll}
	case models.Redirect:
		return &walletResponseMethodJSON{Type: methodRedirect, RedirectURITemplate: v.URITemplate}
	default:
		return nil
	}
}

// walletResponseMethodFromJSON relies on the oneof validation having run.
func walletResponseMethodFromJSON(j *walletResponseMethodJSON) models.WalletResponseMethod {
	if j.Type == methodRedirect {
		return models.Redirect{URITemplate: j.RedirectURITemplate}
	}
	return models.Poll{}
}

func idTokenTypesToStrings(types []models.IDTokenType) []string {
	if len(types) == 0 {
		return nil
	}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func idTokenTypesFromStrings(values []string) ([]models.IDTokenType, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]models.IDTokenType, len(values))
	for i, v := range values {
		t := models.IDTokenType(v)
		if !t.IsValid() {
			return nil, fmt.Errorf("invalid id_token_type %q", v)
		}
		out[i] = t
	}
	return out, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
