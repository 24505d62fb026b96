package service

import "strings"

// Wallet-facing route templates. The handler registers them as chi patterns
// and the service expands them into the URIs placed in request objects.
const (
	RequestObjectPath          = "/wallet/request.jwt/{requestId}"
	PresentationDefinitionPath = "/wallet/pd/{requestId}"
	JarmJWKSPath               = "/wallet/jarm/{requestId}/jwks.json"
	DirectPostPath             = "/wallet/direct_post"
	PublicJWKSPath             = "/wallet/public-keys.json"

	requestIDParam = "{requestId}"
)

func (s *Service) walletURL(template, requestID string) string {
	return s.cfg.PublicURL + strings.Replace(template, requestIDParam, requestID, 1)
}
