package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vigil-iam/vigil/domain"
	"github.com/vigil-iam/vigil/dto"
	"github.com/vigil-iam/vigil/services"
)

type mockClientService struct {
	mock.Mock
}

func (m *mockClientService) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientService) FindByDomain(ctx context.Context, domainID string) ([]*domain.Client, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *mockClientService) FindPageByDomain(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Client], error) {
	args := m.Called(ctx, domainID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Client]), args.Error(1)
}

func (m *mockClientService) Create(ctx context.Context, domainID string, newClient *dto.NewClient) (*domain.Client, error) {
	args := m.Called(ctx, domainID, newClient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientService) Update(ctx context.Context, domainID, id string, updateClient *dto.UpdateClient) (*domain.Client, error) {
	args := m.Called(ctx, domainID, id, updateClient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientService) Patch(ctx context.Context, domainID, id string, patchClient *dto.PatchClient) (*domain.Client, error) {
	args := m.Called(ctx, domainID, id, patchClient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockClientService) FindTopClientsByDomain(ctx context.Context, domainID string) ([]*dto.TopClient, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dto.TopClient), args.Error(1)
}

func (m *mockClientService) FindTotalClientsByDomain(ctx context.Context, domainID string) (*dto.TotalClient, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TotalClient), args.Error(1)
}

type mockScopeService struct {
	mock.Mock
}

func (m *mockScopeService) FindByDomain(ctx context.Context, domainID string) ([]*domain.Scope, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scope), args.Error(1)
}

func (m *mockScopeService) Create(ctx context.Context, domainID string, newScope *dto.NewScope) (*domain.Scope, error) {
	args := m.Called(ctx, domainID, newScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scope), args.Error(1)
}

func (m *mockScopeService) Update(ctx context.Context, domainID, id string, updateScope *dto.UpdateScope) (*domain.Scope, error) {
	args := m.Called(ctx, domainID, id, updateScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scope), args.Error(1)
}

func (m *mockScopeService) Delete(ctx context.Context, id string, force bool) error {
	args := m.Called(ctx, id, force)
	return args.Error(0)
}

func newAPIForTest() (*echo.Echo, *mockClientService, *mockScopeService) {
	clients := new(mockClientService)
	scopes := new(mockScopeService)

	e := echo.New()
	NewManagementAPI(clients, scopes).RegisterRoutes(e)
	return e, clients, scopes
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPI_CreateClient_Created(t *testing.T) {
	e, clients, _ := newAPIForTest()

	created := &domain.Client{ID: "c1", Domain: "d1", ClientID: "my-app"}
	clients.On("Create", mock.Anything, "d1", &dto.NewClient{ClientID: "my-app"}).Return(created, nil)

	rec := doRequest(e, http.MethodPost, "/domains/d1/clients", `{"client_id":"my-app"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "c1", got.ID)
}

func TestAPI_CreateClient_Conflict(t *testing.T) {
	e, clients, _ := newAPIForTest()

	clients.On("Create", mock.Anything, "d1", mock.Anything).
		Return(nil, &services.AlreadyExistsError{Kind: "client", Key: "my-app", Domain: "d1"})

	rec := doRequest(e, http.MethodPost, "/domains/d1/clients", `{"client_id":"my-app"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_GetClient_NotFound(t *testing.T) {
	e, clients, _ := newAPIForTest()

	clients.On("FindByID", mock.Anything, "missing").
		Return(nil, &services.NotFoundError{Kind: "client", ID: "missing"})

	rec := doRequest(e, http.MethodGet, "/domains/d1/clients/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_PatchClient_InvalidMetadata(t *testing.T) {
	e, clients, _ := newAPIForTest()

	clients.On("Patch", mock.Anything, "d1", "c1", mock.Anything).
		Return(nil, &services.InvalidClientMetadataError{Reason: "scope admin is not valid"})

	rec := doRequest(e, http.MethodPatch, "/domains/d1/clients/c1", `{"scopes":["admin"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin")
}

func TestAPI_UpdateClient_InvalidRedirectURI(t *testing.T) {
	e, clients, _ := newAPIForTest()

	clients.On("Update", mock.Anything, "d1", "c1", mock.Anything).
		Return(nil, &services.InvalidRedirectURIError{Reason: "localhost is forbidden"})

	rec := doRequest(e, http.MethodPut, "/domains/d1/clients/c1", `{"redirect_uris":["http://localhost/cb"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_DeleteClient_NoContent(t *testing.T) {
	e, clients, _ := newAPIForTest()

	clients.On("Delete", mock.Anything, "c1").Return(nil)

	rec := doRequest(e, http.MethodDelete, "/domains/d1/clients/c1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPI_ListClients_Paged(t *testing.T) {
	e, clients, _ := newAPIForTest()

	page := &domain.Page[*domain.Client]{
		Data:        []*domain.Client{{ID: "c1"}},
		CurrentPage: 1,
		PageSize:    5,
		TotalCount:  11,
	}
	clients.On("FindPageByDomain", mock.Anything, "d1", 1, 5).Return(page, nil)

	rec := doRequest(e, http.MethodGet, "/domains/d1/clients?page=1&size=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":11`)
}

func TestAPI_TopClients(t *testing.T) {
	e, clients, _ := newAPIForTest()

	top := []*dto.TopClient{{Client: &domain.Client{ID: "c1"}, AccessTokens: 3}}
	clients.On("FindTopClientsByDomain", mock.Anything, "d1").Return(top, nil)

	rec := doRequest(e, http.MethodGet, "/domains/d1/clients/top", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_tokens":3`)
}

func TestAPI_TotalClients(t *testing.T) {
	e, clients, _ := newAPIForTest()

	clients.On("FindTotalClientsByDomain", mock.Anything, "d1").
		Return(&dto.TotalClient{TotalClients: 7}, nil)

	rec := doRequest(e, http.MethodGet, "/domains/d1/clients/total", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_clients":7`)
}

func TestAPI_DeleteScope_SystemScopeForbidden(t *testing.T) {
	e, _, scopes := newAPIForTest()

	scopes.On("Delete", mock.Anything, "s1", false).
		Return(&services.SystemScopeError{ScopeID: "s1"})

	rec := doRequest(e, http.MethodDelete, "/domains/d1/scopes/s1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_DeleteScope_ForceFlag(t *testing.T) {
	e, _, scopes := newAPIForTest()

	scopes.On("Delete", mock.Anything, "s1", true).Return(nil)

	rec := doRequest(e, http.MethodDelete, "/domains/d1/scopes/s1?force=true", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	scopes.AssertCalled(t, "Delete", mock.Anything, "s1", true)
}

func TestAPI_CreateScope_Created(t *testing.T) {
	e, _, scopes := newAPIForTest()

	created := &domain.Scope{ID: "s1", Domain: "d1", Key: "read"}
	scopes.On("Create", mock.Anything, "d1", &dto.NewScope{Key: "read", Name: "Read"}).Return(created, nil)

	rec := doRequest(e, http.MethodPost, "/domains/d1/scopes", `{"key":"read","name":"Read"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAPI_TechnicalErrorIsOpaque(t *testing.T) {
	e, clients, _ := newAPIForTest()

	clients.On("FindByDomain", mock.Anything, "d1").
		Return(nil, &services.TechnicalError{Op: "op", Err: errors.New("mongo down")})

	rec := doRequest(e, http.MethodGet, "/domains/d1/clients", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mongo down")
}
