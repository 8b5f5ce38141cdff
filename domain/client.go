package domain

import "time"

// Client is an OAuth2/OIDC relying party registered in a domain.
//
//nolint:tagliatelle
type Client struct {
	ID           string `bson:"_id" json:"id"`
	Domain       string `bson:"domain" json:"domain"`
	ClientID     string `bson:"client_id" json:"client_id"`
	ClientSecret string `bson:"client_secret,omitempty" json:"client_secret,omitempty"`
	ClientName   string `bson:"client_name" json:"client_name"`

	RedirectURIs         []string `bson:"redirect_uris,omitempty" json:"redirect_uris,omitempty"`
	Scopes               []string `bson:"scopes,omitempty" json:"scopes,omitempty"`
	AutoApproveScopes    []string `bson:"auto_approve_scopes,omitempty" json:"auto_approve_scopes,omitempty"`
	AuthorizedGrantTypes []string `bson:"authorized_grant_types,omitempty" json:"authorized_grant_types,omitempty"`
	ResponseTypes        []string `bson:"response_types,omitempty" json:"response_types,omitempty"`

	AccessTokenValiditySeconds  int `bson:"access_token_validity_seconds" json:"access_token_validity_seconds"`
	RefreshTokenValiditySeconds int `bson:"refresh_token_validity_seconds" json:"refresh_token_validity_seconds"`
	IDTokenValiditySeconds      int `bson:"id_token_validity_seconds" json:"id_token_validity_seconds"`

	// Identity provider bindings used to authenticate end users of this client.
	Identities       []string `bson:"identities,omitempty" json:"identities,omitempty"`
	OAuth2Identities []string `bson:"oauth2_identities,omitempty" json:"oauth2_identities,omitempty"`

	Certificate                      string            `bson:"certificate,omitempty" json:"certificate,omitempty"`
	IDTokenCustomClaims              map[string]string `bson:"id_token_custom_claims,omitempty" json:"id_token_custom_claims,omitempty"`
	EnhanceScopesWithUserPermissions bool              `bson:"enhance_scopes_with_user_permissions" json:"enhance_scopes_with_user_permissions"`

	Enabled   bool      `bson:"enabled" json:"enabled"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasScope reports whether key is part of the client's scope set.
func (c *Client) HasScope(key string) bool {
	for _, s := range c.Scopes {
		if s == key {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the client so callers can mutate a loaded
// client without aliasing the snapshot other in-flight operations hold.
func (c *Client) Copy() *Client {
	cp := *c
	cp.RedirectURIs = append([]string(nil), c.RedirectURIs...)
	cp.Scopes = append([]string(nil), c.Scopes...)
	cp.AutoApproveScopes = append([]string(nil), c.AutoApproveScopes...)
	cp.AuthorizedGrantTypes = append([]string(nil), c.AuthorizedGrantTypes...)
	cp.ResponseTypes = append([]string(nil), c.ResponseTypes...)
	cp.Identities = append([]string(nil), c.Identities...)
	cp.OAuth2Identities = append([]string(nil), c.OAuth2Identities...)
	if c.IDTokenCustomClaims != nil {
		cp.IDTokenCustomClaims = make(map[string]string, len(c.IDTokenCustomClaims))
		for k, v := range c.IDTokenCustomClaims {
			cp.IDTokenCustomClaims[k] = v
		}
	}
	return &cp
}
