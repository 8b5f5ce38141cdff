package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vigil-iam/vigil/domain"
)

// Repositories bundles every Mongo-backed repository over one database
// handle, for wiring at startup.
type Repositories struct {
	Domains      domain.DomainRepository
	Clients      domain.ClientRepository
	Scopes       domain.ScopeRepository
	Roles        domain.RoleRepository
	Approvals    domain.ScopeApprovalRepository
	AccessTokens domain.AccessTokenRepository
	IdPs         domain.IdentityProviderRepository
}

// NewRepositories constructs all repositories and ensures their indexes.
func NewRepositories(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	clients, err := NewClientRepository(ctx, db)
	if err != nil {
		return nil, err
	}
	scopes, err := NewScopeRepository(ctx, db)
	if err != nil {
		return nil, err
	}
	roles, err := NewRoleRepository(ctx, db)
	if err != nil {
		return nil, err
	}
	approvals, err := NewScopeApprovalRepository(ctx, db)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Domains:      NewDomainRepository(db),
		Clients:      clients,
		Scopes:       scopes,
		Roles:        roles,
		Approvals:    approvals,
		AccessTokens: NewAccessTokenRepository(db),
		IdPs:         NewIdPRepository(db),
	}, nil
}
