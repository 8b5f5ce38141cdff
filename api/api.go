// Package api exposes the management HTTP surface of the registries:
// domain-scoped client and scope administration. The OAuth2/OIDC protocol
// endpoints live in the gateway, not here.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vigil-iam/vigil/domain"
	"github.com/vigil-iam/vigil/dto"
	"github.com/vigil-iam/vigil/services"
)

// ClientService is the slice of the client registry served over HTTP.
type ClientService interface {
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByDomain(ctx context.Context, domainID string) ([]*domain.Client, error)
	FindPageByDomain(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Client], error)
	Create(ctx context.Context, domainID string, newClient *dto.NewClient) (*domain.Client, error)
	Update(ctx context.Context, domainID, id string, updateClient *dto.UpdateClient) (*domain.Client, error)
	Patch(ctx context.Context, domainID, id string, patchClient *dto.PatchClient) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	FindTopClientsByDomain(ctx context.Context, domainID string) ([]*dto.TopClient, error)
	FindTotalClientsByDomain(ctx context.Context, domainID string) (*dto.TotalClient, error)
}

// ScopeService is the slice of the scope registry served over HTTP.
type ScopeService interface {
	FindByDomain(ctx context.Context, domainID string) ([]*domain.Scope, error)
	Create(ctx context.Context, domainID string, newScope *dto.NewScope) (*domain.Scope, error)
	Update(ctx context.Context, domainID, id string, updateScope *dto.UpdateScope) (*domain.Scope, error)
	Delete(ctx context.Context, id string, force bool) error
}

// ManagementAPI holds the HTTP handlers for the registries.
type ManagementAPI struct {
	clients ClientService
	scopes  ScopeService
}

// NewManagementAPI creates the management API.
func NewManagementAPI(clients ClientService, scopes ScopeService) *ManagementAPI {
	return &ManagementAPI{
		clients: clients,
		scopes:  scopes,
	}
}

// RegisterRoutes registers the management routes.
func (a *ManagementAPI) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/domains/:domain")

	g.GET("/clients", a.ListClients)
	g.POST("/clients", a.CreateClient)
	g.GET("/clients/top", a.TopClients)
	g.GET("/clients/total", a.TotalClients)
	g.GET("/clients/:client", a.GetClient)
	g.PUT("/clients/:client", a.UpdateClient)
	g.PATCH("/clients/:client", a.PatchClient)
	g.DELETE("/clients/:client", a.DeleteClient)

	g.GET("/scopes", a.ListScopes)
	g.POST("/scopes", a.CreateScope)
	g.PUT("/scopes/:scope", a.UpdateScope)
	g.DELETE("/scopes/:scope", a.DeleteScope)
}

// ListClients returns the clients of a domain, paged when the page query
// parameter is present.
func (a *ManagementAPI) ListClients(c echo.Context) error {
	ctx := c.Request().Context()
	domainID := c.Param("domain")

	if pageParam := c.QueryParam("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid page parameter"))
		}
		size, err := strconv.Atoi(c.QueryParam("size"))
		if err != nil || size <= 0 {
			size = 20
		}
		result, err := a.clients.FindPageByDomain(ctx, domainID, page, size)
		if err != nil {
			return a.serviceError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}

	clients, err := a.clients.FindByDomain(ctx, domainID)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, clients)
}

func (a *ManagementAPI) GetClient(c echo.Context) error {
	client, err := a.clients.FindByID(c.Request().Context(), c.Param("client"))
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (a *ManagementAPI) CreateClient(c echo.Context) error {
	var payload dto.NewClient
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	client, err := a.clients.Create(c.Request().Context(), c.Param("domain"), &payload)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, client)
}

func (a *ManagementAPI) UpdateClient(c echo.Context) error {
	var payload dto.UpdateClient
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	client, err := a.clients.Update(c.Request().Context(), c.Param("domain"), c.Param("client"), &payload)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (a *ManagementAPI) PatchClient(c echo.Context) error {
	var payload dto.PatchClient
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	client, err := a.clients.Patch(c.Request().Context(), c.Param("domain"), c.Param("client"), &payload)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (a *ManagementAPI) DeleteClient(c echo.Context) error {
	if err := a.clients.Delete(c.Request().Context(), c.Param("client")); err != nil {
		return a.serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *ManagementAPI) TopClients(c echo.Context) error {
	top, err := a.clients.FindTopClientsByDomain(c.Request().Context(), c.Param("domain"))
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, top)
}

func (a *ManagementAPI) TotalClients(c echo.Context) error {
	total, err := a.clients.FindTotalClientsByDomain(c.Request().Context(), c.Param("domain"))
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, total)
}

func (a *ManagementAPI) ListScopes(c echo.Context) error {
	scopes, err := a.scopes.FindByDomain(c.Request().Context(), c.Param("domain"))
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, scopes)
}

func (a *ManagementAPI) CreateScope(c echo.Context) error {
	var payload dto.NewScope
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	scope, err := a.scopes.Create(c.Request().Context(), c.Param("domain"), &payload)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, scope)
}

func (a *ManagementAPI) UpdateScope(c echo.Context) error {
	var payload dto.UpdateScope
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	scope, err := a.scopes.Update(c.Request().Context(), c.Param("domain"), c.Param("scope"), &payload)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, scope)
}

func (a *ManagementAPI) DeleteScope(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	if err := a.scopes.Delete(c.Request().Context(), c.Param("scope"), force); err != nil {
		return a.serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// serviceError maps the registries' typed failures onto HTTP statuses.
func (a *ManagementAPI) serviceError(c echo.Context, err error) error {
	var (
		notFound      *services.NotFoundError
		alreadyExists *services.AlreadyExistsError
		invalidMeta   *services.InvalidClientMetadataError
		invalidURI    *services.InvalidRedirectURIError
		systemScope   *services.SystemScopeError
	)

	switch {
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, errorBody(err.Error()))
	case errors.As(err, &alreadyExists):
		return c.JSON(http.StatusConflict, errorBody(err.Error()))
	case errors.As(err, &invalidMeta), errors.As(err, &invalidURI):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.As(err, &systemScope):
		return c.JSON(http.StatusForbidden, errorBody(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, errorBody("internal error"))
	}
}

func errorBody(message string) echo.Map {
	return echo.Map{"error": message}
}
