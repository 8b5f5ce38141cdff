package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vigil-iam/vigil/domain"
	"github.com/vigil-iam/vigil/dto"
)

// --- Mock repositories and collaborators ---
//
// Create/Update mocks configured with Return(nil, nil) echo the entity they
// were given, mimicking a store that persists and returns the same record.

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindByClientIDAndDomain(ctx context.Context, clientID, domainID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindByDomain(ctx context.Context, domainID string) ([]*domain.Client, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindPageByDomain(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Client], error) {
	args := m.Called(ctx, domainID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Client]), args.Error(1)
}

func (m *MockClientRepository) FindByIdentityProvider(ctx context.Context, identityProviderID string) ([]*domain.Client, error) {
	args := m.Called(ctx, identityProviderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindByCertificate(ctx context.Context, certificate string) ([]*domain.Client, error) {
	args := m.Called(ctx, certificate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindByDomainAndExtensionGrant(ctx context.Context, domainID, extensionGrant string) ([]*domain.Client, error) {
	args := m.Called(ctx, domainID, extensionGrant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindPage(ctx context.Context, page, size int) (*domain.Page[*domain.Client], error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Client]), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			return c, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			return c, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) CountByDomain(ctx context.Context, domainID string) (int64, error) {
	args := m.Called(ctx, domainID)
	return args.Get(0).(int64), args.Error(1)
}

type MockScopeRepository struct {
	mock.Mock
}

func (m *MockScopeRepository) FindByID(ctx context.Context, id string) (*domain.Scope, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scope), args.Error(1)
}

func (m *MockScopeRepository) FindByDomain(ctx context.Context, domainID string) ([]*domain.Scope, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scope), args.Error(1)
}

func (m *MockScopeRepository) FindByDomainAndKey(ctx context.Context, domainID, key string) (*domain.Scope, error) {
	args := m.Called(ctx, domainID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scope), args.Error(1)
}

func (m *MockScopeRepository) Create(ctx context.Context, s *domain.Scope) (*domain.Scope, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			return s, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scope), args.Error(1)
}

func (m *MockScopeRepository) Update(ctx context.Context, s *domain.Scope) (*domain.Scope, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			return s, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scope), args.Error(1)
}

func (m *MockScopeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByDomain(ctx context.Context, domainID string) ([]*domain.Role, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Role), args.Error(1)
}

func (m *MockRoleRepository) Create(ctx context.Context, r *domain.Role) (*domain.Role, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleRepository) Update(ctx context.Context, r *domain.Role) (*domain.Role, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			return r, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockScopeApprovalRepository struct {
	mock.Mock
}

func (m *MockScopeApprovalRepository) FindByDomainAndScope(ctx context.Context, domainID, scope string) ([]*domain.ScopeApproval, error) {
	args := m.Called(ctx, domainID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScopeApproval), args.Error(1)
}

func (m *MockScopeApprovalRepository) DeleteByDomainAndScope(ctx context.Context, domainID, scope string) error {
	args := m.Called(ctx, domainID, scope)
	return args.Error(0)
}

type MockDomainRepository struct {
	mock.Mock
}

func (m *MockDomainRepository) FindByID(ctx context.Context, id string) (*domain.Domain, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Domain), args.Error(1)
}

func (m *MockDomainRepository) FindAll(ctx context.Context) ([]*domain.Domain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Domain), args.Error(1)
}

func (m *MockDomainRepository) Create(ctx context.Context, d *domain.Domain) (*domain.Domain, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Domain), args.Error(1)
}

func (m *MockDomainRepository) Update(ctx context.Context, d *domain.Domain) (*domain.Domain, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Domain), args.Error(1)
}

func (m *MockDomainRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockIdPRepository struct {
	mock.Mock
}

func (m *MockIdPRepository) FindByID(ctx context.Context, id string) (*domain.IdentityProvider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityProvider), args.Error(1)
}

type MockAccessTokenRepository struct {
	mock.Mock
}

func (m *MockAccessTokenRepository) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

type MockDomainNotifier struct {
	mock.Mock
}

func (m *MockDomainNotifier) Publish(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDomainNotifier) Reload(ctx context.Context, domainID string, event *domain.Event) (*domain.Domain, error) {
	args := m.Called(ctx, domainID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Domain), args.Error(1)
}

type MockScopeValidator struct {
	mock.Mock
}

func (m *MockScopeValidator) ValidateScope(ctx context.Context, domainID string, scopes []string) error {
	args := m.Called(ctx, domainID, scopes)
	return args.Error(0)
}

type MockClientManager struct {
	mock.Mock
}

func (m *MockClientManager) FindByDomain(ctx context.Context, domainID string) ([]*domain.Client, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientManager) Patch(ctx context.Context, domainID, id string, patch *dto.PatchClient) (*domain.Client, error) {
	args := m.Called(ctx, domainID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
