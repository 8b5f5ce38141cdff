package domain

import "time"

// Domain is a tenant boundary. Every client and scope belongs to exactly one
// domain. Domain lifecycle is owned by the platform bootstrap; this core only
// reads domains to enforce their registration policy.
//
//nolint:tagliatelle
type Domain struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Enabled     bool   `bson:"enabled" json:"enabled"`

	// Redirect URI registration policy applied to every client in the domain.
	RedirectURILocalhostAllowed     bool `bson:"redirect_uri_localhost_allowed" json:"redirect_uri_localhost_allowed"`
	RedirectURIUnsecuredHTTPAllowed bool `bson:"redirect_uri_unsecured_http_allowed" json:"redirect_uri_unsecured_http_allowed"`
	RedirectURIWildcardAllowed      bool `bson:"redirect_uri_wildcard_allowed" json:"redirect_uri_wildcard_allowed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
