package dto

import "github.com/vigil-iam/vigil/domain"

// NewClient is the payload for registering a client in a domain. Missing
// credentials are generated by the registry.
type NewClient struct {
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	ClientName   string `json:"client_name,omitempty"`
}

// UpdateClient is the legacy full-update payload. Every mutable field is
// overlaid onto the stored client, so absent fields erase stored values.
// Prefer PatchClient.
type UpdateClient struct {
	ClientName                       string            `json:"client_name"`
	Scopes                           []string          `json:"scopes"`
	AutoApproveScopes                []string          `json:"auto_approve_scopes"`
	AccessTokenValiditySeconds       int               `json:"access_token_validity_seconds"`
	RefreshTokenValiditySeconds      int               `json:"refresh_token_validity_seconds"`
	IDTokenValiditySeconds           int               `json:"id_token_validity_seconds"`
	AuthorizedGrantTypes             []string          `json:"authorized_grant_types"`
	RedirectURIs                     []string          `json:"redirect_uris"`
	Enabled                          bool              `json:"enabled"`
	Identities                       []string          `json:"identities"`
	OAuth2Identities                 []string          `json:"oauth2_identities"`
	IDTokenCustomClaims              map[string]string `json:"id_token_custom_claims"`
	Certificate                      string            `json:"certificate"`
	EnhanceScopesWithUserPermissions bool              `json:"enhance_scopes_with_user_permissions"`
}

// PatchClient is the partial-update payload. Only non-nil fields are applied
// to the stored client.
type PatchClient struct {
	ClientName                       *string            `json:"client_name,omitempty"`
	ClientSecret                     *string            `json:"client_secret,omitempty"`
	RedirectURIs                     *[]string          `json:"redirect_uris,omitempty"`
	Scopes                           *[]string          `json:"scopes,omitempty"`
	AutoApproveScopes                *[]string          `json:"auto_approve_scopes,omitempty"`
	AuthorizedGrantTypes             *[]string          `json:"authorized_grant_types,omitempty"`
	ResponseTypes                    *[]string          `json:"response_types,omitempty"`
	AccessTokenValiditySeconds       *int               `json:"access_token_validity_seconds,omitempty"`
	RefreshTokenValiditySeconds      *int               `json:"refresh_token_validity_seconds,omitempty"`
	IDTokenValiditySeconds           *int               `json:"id_token_validity_seconds,omitempty"`
	Identities                       *[]string          `json:"identities,omitempty"`
	OAuth2Identities                 *[]string          `json:"oauth2_identities,omitempty"`
	Certificate                      *string            `json:"certificate,omitempty"`
	IDTokenCustomClaims              *map[string]string `json:"id_token_custom_claims,omitempty"`
	EnhanceScopesWithUserPermissions *bool              `json:"enhance_scopes_with_user_permissions,omitempty"`
	Enabled                          *bool              `json:"enabled,omitempty"`
}

// Patch applies the non-nil fields of the payload onto a copy of c and
// returns the copy. The stored client passed in is never mutated.
func (p *PatchClient) Patch(c *domain.Client) *domain.Client {
	patched := c.Copy()
	if p.ClientName != nil {
		patched.ClientName = *p.ClientName
	}
	if p.ClientSecret != nil {
		patched.ClientSecret = *p.ClientSecret
	}
	if p.RedirectURIs != nil {
		patched.RedirectURIs = *p.RedirectURIs
	}
	if p.Scopes != nil {
		patched.Scopes = *p.Scopes
	}
	if p.AutoApproveScopes != nil {
		patched.AutoApproveScopes = *p.AutoApproveScopes
	}
	if p.AuthorizedGrantTypes != nil {
		patched.AuthorizedGrantTypes = *p.AuthorizedGrantTypes
	}
	if p.ResponseTypes != nil {
		patched.ResponseTypes = *p.ResponseTypes
	}
	if p.AccessTokenValiditySeconds != nil {
		patched.AccessTokenValiditySeconds = *p.AccessTokenValiditySeconds
	}
	if p.RefreshTokenValiditySeconds != nil {
		patched.RefreshTokenValiditySeconds = *p.RefreshTokenValiditySeconds
	}
	if p.IDTokenValiditySeconds != nil {
		patched.IDTokenValiditySeconds = *p.IDTokenValiditySeconds
	}
	if p.Identities != nil {
		patched.Identities = *p.Identities
	}
	if p.OAuth2Identities != nil {
		patched.OAuth2Identities = *p.OAuth2Identities
	}
	if p.Certificate != nil {
		patched.Certificate = *p.Certificate
	}
	if p.IDTokenCustomClaims != nil {
		patched.IDTokenCustomClaims = *p.IDTokenCustomClaims
	}
	if p.EnhanceScopesWithUserPermissions != nil {
		patched.EnhanceScopesWithUserPermissions = *p.EnhanceScopesWithUserPermissions
	}
	if p.Enabled != nil {
		patched.Enabled = *p.Enabled
	}
	return patched
}

// TopClient pairs a client with the number of access tokens issued for it.
type TopClient struct {
	Client       *domain.Client `json:"client"`
	AccessTokens int64          `json:"access_tokens"`
}

// TotalClient wraps a client count.
type TotalClient struct {
	TotalClients int64 `json:"total_clients"`
}
