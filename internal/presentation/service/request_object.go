package service

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"verifier/internal/jose"
	"verifier/internal/presentation/models"
	dErrors "verifier/pkg/domain-errors"
)

const (
	selfIssuedAudience       = "https://self-issued.me/v2"
	jwkThumbprintSyntaxType  = "urn:ietf:params:oauth:jwk-thumbprint"
	idTokenSignedResponseAlg = "RS256"
)

// requestObjectClaims builds the authorization request for a presentation. The
// presentation definition travels by value or by reference as chosen at
// initiation; JARM keys are always fetched by reference.
func (s *Service) requestObjectClaims(p *models.Presentation) *jose.RequestObjectClaims {
	requestID := p.RequestID.String()
	now := s.now()

	claims := &jose.RequestObjectClaims{
		ResponseType:   string(p.Type.Kind()),
		ClientID:       s.cfg.ClientID,
		ClientIDScheme: s.cfg.ClientIDScheme,
		ResponseMode:   string(p.ResponseMode),
		ResponseURI:    s.cfg.PublicURL + DirectPostPath,
		Nonce:          string(p.Nonce),
		State:          requestID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.ClientID,
			Audience:  jwt.ClaimStrings{selfIssuedAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RequestObjectMaxAge)),
		},
	}

	if types := models.IDTokenTypesOf(p.Type); len(types) > 0 {
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, string(t))
		}
		claims.IDTokenType = strings.Join(names, " ")
	}

	if pd, ok := models.PresentationDefinitionOf(p.Type); ok {
		if p.PresentationDefinitionMode == models.EmbedByReference {
			claims.PresentationDefinitionURI = s.walletURL(PresentationDefinitionPath, requestID)
		} else {
			claims.PresentationDefinition = pd
		}
	}

	metadata := &jose.ClientMetadata{
		IDTokenSignedResponseAlg:    idTokenSignedResponseAlg,
		SubjectSyntaxTypesSupported: []string{jwkThumbprintSyntaxType},
	}
	if p.ResponseMode.RequiresJARM() {
		metadata.JWKSURI = s.walletURL(JarmJWKSPath, requestID)
		metadata.AuthorizationEncryptedResponseAlg = string(jose.JARMAlgorithm)
		metadata.AuthorizationEncryptedResponseEnc = string(jose.JARMEncryption)
	}
	claims.ClientMetadata = metadata

	return claims
}

func (s *Service) signRequestObject(p *models.Presentation) (string, error) {
	jar, err := s.signer.Sign(s.requestObjectClaims(p))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign request object")
	}
	return jar, nil
}
