package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vigil-iam/vigil/domain"
	"github.com/vigil-iam/vigil/dto"
)

// ScopeService owns the scope registry of every domain: scope CRUD, the
// per-domain key uniqueness rule, scope validation for client registration
// and the cascading cleanup run when a scope is deleted.
type ScopeService struct {
	scopes    domain.ScopeRepository
	approvals domain.ScopeApprovalRepository
	roles     domain.RoleRepository
	notifier  DomainNotifier
	clients   ClientManager
}

// NewScopeService creates a scope registry. The client manager is bound
// after construction because the client registry in turn validates scopes
// through this service.
func NewScopeService(
	scopes domain.ScopeRepository,
	approvals domain.ScopeApprovalRepository,
	roles domain.RoleRepository,
	notifier DomainNotifier,
) *ScopeService {
	return &ScopeService{
		scopes:    scopes,
		approvals: approvals,
		roles:     roles,
		notifier:  notifier,
	}
}

// BindClientManager wires the client registry used by the cascading delete.
func (s *ScopeService) BindClientManager(clients ClientManager) {
	s.clients = clients
}

// FindByID returns a scope by its technical id.
func (s *ScopeService) FindByID(ctx context.Context, id string) (*domain.Scope, error) {
	log.Debug().Str("scope", id).Msg("find scope by id")
	scope, err := s.scopes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindScope, ID: id}
		}
		return nil, technical(fmt.Sprintf("an error occurs while trying to find a scope using its id: %s", id), err)
	}
	return scope, nil
}

// FindByDomain returns every scope of a domain.
func (s *ScopeService) FindByDomain(ctx context.Context, domainID string) ([]*domain.Scope, error) {
	log.Debug().Str("domain", domainID).Msg("find scopes by domain")
	scopes, err := s.scopes.FindByDomain(ctx, domainID)
	if err != nil {
		return nil, technical(fmt.Sprintf("an error occurs while trying to find scopes by domain: %s", domainID), err)
	}
	return scopes, nil
}

// Create registers a new scope in a domain. The key is lower-cased before
// the per-domain uniqueness check.
func (s *ScopeService) Create(ctx context.Context, domainID string, newScope *dto.NewScope) (*domain.Scope, error) {
	log.Debug().Str("domain", domainID).Str("key", newScope.Key).Msg("create a new scope")

	scope := &domain.Scope{
		Key:         strings.ToLower(newScope.Key),
		Name:        newScope.Name,
		Description: newScope.Description,
	}
	return s.create(ctx, domainID, scope, "an error occurs while trying to create a scope")
}

// CreateSystem registers a protected system scope carrying claim mappings.
func (s *ScopeService) CreateSystem(ctx context.Context, domainID string, newScope *dto.NewSystemScope) (*domain.Scope, error) {
	log.Debug().Str("domain", domainID).Str("key", newScope.Key).Msg("create a new system scope")

	scope := &domain.Scope{
		Key:         strings.ToLower(newScope.Key),
		Name:        newScope.Name,
		Description: newScope.Description,
		System:      true,
		Claims:      newScope.Claims,
	}
	return s.create(ctx, domainID, scope, "an error occurs while trying to create a system scope")
}

func (s *ScopeService) create(ctx context.Context, domainID string, scope *domain.Scope, op string) (*domain.Scope, error) {
	existing, err := s.scopes.FindByDomainAndKey(ctx, domainID, scope.Key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, technical(op, err)
	}
	if existing != nil {
		return nil, &AlreadyExistsError{Kind: KindScope, Key: scope.Key, Domain: domainID}
	}

	now := time.Now()
	scope.ID = uuid.NewString()
	scope.Domain = domainID
	scope.CreatedAt = now
	scope.UpdatedAt = now

	created, err := s.scopes.Create(ctx, scope)
	if err != nil {
		return nil, technical(op, err)
	}
	s.publish(ctx, domain.NewEvent(domain.EventTypeScope, created.ID, domainID, domain.EventActionCreate))
	return created, nil
}

// Update overwrites the display fields of a scope.
func (s *ScopeService) Update(ctx context.Context, domainID, id string, updateScope *dto.UpdateScope) (*domain.Scope, error) {
	log.Debug().Str("domain", domainID).Str("scope", id).Msg("update a scope")

	return s.update(ctx, domainID, id, "an error occurs while trying to update a scope", func(scope *domain.Scope) {
		scope.Name = updateScope.Name
		scope.Description = updateScope.Description
	})
}

// UpdateSystem overwrites the display fields and claim mapping of a system
// scope.
func (s *ScopeService) UpdateSystem(ctx context.Context, domainID, id string, updateScope *dto.UpdateSystemScope) (*domain.Scope, error) {
	log.Debug().Str("domain", domainID).Str("scope", id).Msg("update a system scope")

	return s.update(ctx, domainID, id, "an error occurs while trying to update a system scope", func(scope *domain.Scope) {
		scope.Name = updateScope.Name
		scope.Description = updateScope.Description
		scope.System = true
		scope.Claims = updateScope.Claims
	})
}

func (s *ScopeService) update(ctx context.Context, domainID, id, op string, apply func(*domain.Scope)) (*domain.Scope, error) {
	scope, err := s.scopes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindScope, ID: id}
		}
		return nil, technical(op, err)
	}

	updated := *scope
	apply(&updated)
	updated.UpdatedAt = time.Now()

	persisted, err := s.scopes.Update(ctx, &updated)
	if err != nil {
		return nil, technical(op, err)
	}
	s.publish(ctx, domain.NewEvent(domain.EventTypeScope, persisted.ID, domainID, domain.EventActionUpdate))
	return persisted, nil
}

// ValidateScope checks that every requested scope key exists in the domain.
// A nil or empty request is vacuously valid; the first unknown key fails the
// whole request.
func (s *ScopeService) ValidateScope(ctx context.Context, domainID string, scopes []string) error {
	if len(scopes) == 0 {
		return nil
	}

	domainScopes, err := s.FindByDomain(ctx, domainID)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(domainScopes))
	for _, scope := range domainScopes {
		known[scope.Key] = struct{}{}
	}
	for _, requested := range scopes {
		if _, ok := known[requested]; !ok {
			return &InvalidClientMetadataError{Reason: fmt.Sprintf("scope %s is not valid", requested)}
		}
	}
	return nil
}

// Delete removes a scope and every reference to it, in a fixed order: role
// permissions first, then client scope sets (through the patch path, so each
// affected client is re-validated and re-announced), then recorded consent
// approvals, then the scope itself. Steps already committed are not undone
// when a later step fails; every step is idempotent, so re-running the
// delete converges.
func (s *ScopeService) Delete(ctx context.Context, scopeID string, force bool) error {
	log.Debug().Str("scope", scopeID).Bool("force", force).Msg("delete scope")
	op := fmt.Sprintf("an error occurs while trying to delete scope: %s", scopeID)

	scope, err := s.scopes.FindByID(ctx, scopeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &NotFoundError{Kind: KindScope, ID: scopeID}
		}
		return technical(op, err)
	}
	if scope.System && !force {
		return &SystemScopeError{ScopeID: scopeID}
	}

	if err := s.removeFromRoles(ctx, scope); err != nil {
		return technical(op, err)
	}
	if err := s.removeFromClients(ctx, scope); err != nil {
		return technical(op, err)
	}
	if err := s.approvals.DeleteByDomainAndScope(ctx, scope.Domain, scope.Key); err != nil {
		return technical(op, err)
	}
	if err := s.scopes.Delete(ctx, scopeID); err != nil {
		return technical(op, err)
	}

	s.publish(ctx, domain.NewEvent(domain.EventTypeScope, scopeID, scope.Domain, domain.EventActionDelete))
	return nil
}

func (s *ScopeService) removeFromRoles(ctx context.Context, scope *domain.Scope) error {
	roles, err := s.roles.FindByDomain(ctx, scope.Domain)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if !role.HasPermission(scope.Key) {
			continue
		}
		updated := *role
		updated.Permissions = removeKey(role.Permissions, scope.Key)
		updated.UpdatedAt = time.Now()
		if _, err := s.roles.Update(ctx, &updated); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScopeService) removeFromClients(ctx context.Context, scope *domain.Scope) error {
	clients, err := s.clients.FindByDomain(ctx, scope.Domain)
	if err != nil {
		return err
	}
	for _, c := range clients {
		if !c.HasScope(scope.Key) {
			continue
		}
		remaining := removeKey(c.Scopes, scope.Key)
		patch := &dto.PatchClient{Scopes: &remaining}
		if _, err := s.clients.Patch(ctx, scope.Domain, c.ID, patch); err != nil {
			return err
		}
	}
	return nil
}

// publish announces a scope change. The mutation is already committed, so a
// notification failure is logged and never surfaced to the caller.
func (s *ScopeService) publish(ctx context.Context, event *domain.Event) {
	if err := s.notifier.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("domain", event.Payload.Domain).
			Str("scope", event.Payload.ID).
			Msg("scope change notification failed")
	}
}

func removeKey(keys []string, key string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
