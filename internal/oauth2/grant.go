// Package oauth2 holds the OAuth2/OIDC metadata helpers shared by the
// registries: grant/response type correspondence and redirect URI policy
// checks.
package oauth2

import "github.com/vigil-iam/vigil/domain"

// Grant types understood by the registry.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantImplicit          = "implicit"
	GrantClientCredentials = "client_credentials"
	GrantPassword          = "password"
	GrantRefreshToken      = "refresh_token"
)

// Response types derivable from grant types.
const (
	ResponseTypeCode    = "code"
	ResponseTypeToken   = "token"
	ResponseTypeIDToken = "id_token"
)

// CompleteGrantTypeCorrespondence rewrites the client's response types so
// they match its authorized grant types: authorization_code yields "code",
// implicit yields "token" and "id_token", every other grant contributes
// nothing. The derivation is deterministic, so applying it twice is a no-op.
func CompleteGrantTypeCorrespondence(c *domain.Client) *domain.Client {
	responseTypes := make([]string, 0, 3)
	for _, grant := range c.AuthorizedGrantTypes {
		switch grant {
		case GrantAuthorizationCode:
			responseTypes = append(responseTypes, ResponseTypeCode)
		case GrantImplicit:
			responseTypes = append(responseTypes, ResponseTypeToken, ResponseTypeIDToken)
		}
	}
	c.ResponseTypes = responseTypes
	return c
}
