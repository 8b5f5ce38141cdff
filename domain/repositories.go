package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when the requested entity does not
// exist. Services translate it into their typed not-found failures.
var ErrNotFound = errors.New("entity not found")

// DomainRepository provides access to tenant definitions.
type DomainRepository interface {
	FindByID(ctx context.Context, id string) (*Domain, error)
	FindAll(ctx context.Context) ([]*Domain, error)
	Create(ctx context.Context, d *Domain) (*Domain, error)
	Update(ctx context.Context, d *Domain) (*Domain, error)
	Delete(ctx context.Context, id string) error
}

// ClientRepository provides access to client registrations.
type ClientRepository interface {
	FindByID(ctx context.Context, id string) (*Client, error)
	FindByClientIDAndDomain(ctx context.Context, clientID, domainID string) (*Client, error)
	FindByDomain(ctx context.Context, domainID string) ([]*Client, error)
	FindPageByDomain(ctx context.Context, domainID string, page, size int) (*Page[*Client], error)
	FindByIdentityProvider(ctx context.Context, identityProviderID string) ([]*Client, error)
	FindByCertificate(ctx context.Context, certificate string) ([]*Client, error)
	FindByDomainAndExtensionGrant(ctx context.Context, domainID, extensionGrant string) ([]*Client, error)
	FindAll(ctx context.Context) ([]*Client, error)
	FindPage(ctx context.Context, page, size int) (*Page[*Client], error)
	Create(ctx context.Context, c *Client) (*Client, error)
	Update(ctx context.Context, c *Client) (*Client, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByDomain(ctx context.Context, domainID string) (int64, error)
}

// ScopeRepository provides access to scope definitions.
type ScopeRepository interface {
	FindByID(ctx context.Context, id string) (*Scope, error)
	FindByDomain(ctx context.Context, domainID string) ([]*Scope, error)
	FindByDomainAndKey(ctx context.Context, domainID, key string) (*Scope, error)
	Create(ctx context.Context, s *Scope) (*Scope, error)
	Update(ctx context.Context, s *Scope) (*Scope, error)
	Delete(ctx context.Context, id string) error
}

// RoleRepository provides access to roles.
type RoleRepository interface {
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByDomain(ctx context.Context, domainID string) ([]*Role, error)
	Create(ctx context.Context, r *Role) (*Role, error)
	Update(ctx context.Context, r *Role) (*Role, error)
	Delete(ctx context.Context, id string) error
}

// ScopeApprovalRepository provides access to recorded end-user consents.
type ScopeApprovalRepository interface {
	FindByDomainAndScope(ctx context.Context, domainID, scope string) ([]*ScopeApproval, error)
	DeleteByDomainAndScope(ctx context.Context, domainID, scope string) error
}

// AccessTokenRepository exposes the token counts used by the aggregation
// queries. Token issuance itself is owned by the gateway.
type AccessTokenRepository interface {
	CountByClientID(ctx context.Context, clientID string) (int64, error)
}

// IdentityProviderRepository resolves identity provider references.
type IdentityProviderRepository interface {
	FindByID(ctx context.Context, id string) (*IdentityProvider, error)
}
