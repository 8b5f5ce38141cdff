package services

import (
	"context"

	"github.com/vigil-iam/vigil/domain"
	"github.com/vigil-iam/vigil/dto"
)

// DomainNotifier propagates change events to the gateway fleet. Publish is
// the fire-and-forget invalidation signal; Reload additionally returns a
// fresh snapshot of the affected domain.
type DomainNotifier interface {
	Publish(ctx context.Context, event *domain.Event) error
	Reload(ctx context.Context, domainID string, event *domain.Event) (*domain.Domain, error)
}

// ScopeValidator checks that every requested scope key exists in a domain.
// A nil or empty request is vacuously valid.
type ScopeValidator interface {
	ValidateScope(ctx context.Context, domainID string, scopes []string) error
}

// ClientManager is the slice of the client registry the scope registry needs
// for its cascading delete.
type ClientManager interface {
	FindByDomain(ctx context.Context, domainID string) ([]*domain.Client, error)
	Patch(ctx context.Context, domainID, id string, patch *dto.PatchClient) (*domain.Client, error)
}
