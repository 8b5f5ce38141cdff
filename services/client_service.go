package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vigil-iam/vigil/domain"
	"github.com/vigil-iam/vigil/dto"
	"github.com/vigil-iam/vigil/internal/oauth2"
)

// Fallback values applied when ClientDefaults fields are left zero.
const (
	DefaultClientName                  = "Unknown Client"
	DefaultAccessTokenValiditySeconds  = 7200
	DefaultRefreshTokenValiditySeconds = 14400
	DefaultIDTokenValiditySeconds      = 14400
)

// Concurrent token-count lookups issued by the top-clients aggregation.
const topClientsConcurrency = 8

// ClientDefaults are the values stamped onto every newly registered client.
// They are injected at construction rather than scattered as literals.
type ClientDefaults struct {
	ClientName                  string
	AccessTokenValiditySeconds  int
	RefreshTokenValiditySeconds int
	IDTokenValiditySeconds      int
}

func (d ClientDefaults) withFallbacks() ClientDefaults {
	if d.ClientName == "" {
		d.ClientName = DefaultClientName
	}
	if d.AccessTokenValiditySeconds == 0 {
		d.AccessTokenValiditySeconds = DefaultAccessTokenValiditySeconds
	}
	if d.RefreshTokenValiditySeconds == 0 {
		d.RefreshTokenValiditySeconds = DefaultRefreshTokenValiditySeconds
	}
	if d.IDTokenValiditySeconds == 0 {
		d.IDTokenValiditySeconds = DefaultIDTokenValiditySeconds
	}
	return d
}

// ClientService owns the client registry: reads, registration with credential
// defaulting, the three write paths (legacy update, full update, patch),
// deletion, and the token-count aggregation queries. Every write runs through
// the metadata validator and announces itself to the gateway fleet on
// success.
type ClientService struct {
	clients  domain.ClientRepository
	domains  domain.DomainRepository
	idps     domain.IdentityProviderRepository
	tokens   domain.AccessTokenRepository
	scopes   ScopeValidator
	notifier DomainNotifier
	defaults ClientDefaults
}

// NewClientService creates a client registry.
func NewClientService(
	clients domain.ClientRepository,
	domains domain.DomainRepository,
	idps domain.IdentityProviderRepository,
	tokens domain.AccessTokenRepository,
	scopes ScopeValidator,
	notifier DomainNotifier,
	defaults ClientDefaults,
) *ClientService {
	return &ClientService{
		clients:  clients,
		domains:  domains,
		idps:     idps,
		tokens:   tokens,
		scopes:   scopes,
		notifier: notifier,
		defaults: defaults.withFallbacks(),
	}
}

// FindByID returns a client by its technical id. A nil grant-type set is
// normalized to an empty one on the returned value only, never persisted.
func (s *ClientService) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	log.Debug().Str("client", id).Msg("find client by id")
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindClient, ID: id}
		}
		return nil, technical(fmt.Sprintf("an error occurs while trying to find a client using its id: %s", id), err)
	}
	if c.AuthorizedGrantTypes == nil {
		c.AuthorizedGrantTypes = []string{}
	}
	return c, nil
}

// FindByDomainAndClientID returns the client registered under clientID in a
// domain.
func (s *ClientService) FindByDomainAndClientID(ctx context.Context, domainID, clientID string) (*domain.Client, error) {
	log.Debug().Str("domain", domainID).Str("client_id", clientID).Msg("find client by domain and client id")
	c, err := s.clients.FindByClientIDAndDomain(ctx, clientID, domainID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindClient, ID: clientID}
		}
		return nil, technical(fmt.Sprintf("an error occurs while trying to find client by domain: %s and client id: %s", domainID, clientID), err)
	}
	return c, nil
}

// FindByDomain returns every client of a domain.
func (s *ClientService) FindByDomain(ctx context.Context, domainID string) ([]*domain.Client, error) {
	log.Debug().Str("domain", domainID).Msg("find clients by domain")
	clients, err := s.clients.FindByDomain(ctx, domainID)
	if err != nil {
		return nil, technical(fmt.Sprintf("an error occurs while trying to find clients by domain: %s", domainID), err)
	}
	return clients, nil
}

// FindPageByDomain returns one page of a domain's clients.
func (s *ClientService) FindPageByDomain(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Client], error) {
	log.Debug().Str("domain", domainID).Int("page", page).Int("size", size).Msg("find clients by domain")
	result, err := s.clients.FindPageByDomain(ctx, domainID, page, size)
	if err != nil {
		return nil, technical(fmt.Sprintf("an error occurs while trying to find clients by domain: %s", domainID), err)
	}
	return result, nil
}

// FindByIdentityProvider returns every client bound to an identity provider.
func (s *ClientService) FindByIdentityProvider(ctx context.Context, identityProviderID string) ([]*domain.Client, error) {
	log.Debug().Str("identity_provider", identityProviderID).Msg("find clients by identity provider")
	clients, err := s.clients.FindByIdentityProvider(ctx, identityProviderID)
	if err != nil {
		return nil, technical("an error occurs while trying to find clients by identity provider", err)
	}
	return clients, nil
}

// FindByCertificate returns every client bound to a certificate.
func (s *ClientService) FindByCertificate(ctx context.Context, certificate string) ([]*domain.Client, error) {
	log.Debug().Str("certificate", certificate).Msg("find clients by certificate")
	clients, err := s.clients.FindByCertificate(ctx, certificate)
	if err != nil {
		return nil, technical("an error occurs while trying to find clients by certificate", err)
	}
	return clients, nil
}

// FindByDomainAndExtensionGrant returns every client of a domain authorized
// for an extension grant.
func (s *ClientService) FindByDomainAndExtensionGrant(ctx context.Context, domainID, extensionGrant string) ([]*domain.Client, error) {
	log.Debug().Str("domain", domainID).Str("extension_grant", extensionGrant).Msg("find clients by domain and extension grant")
	clients, err := s.clients.FindByDomainAndExtensionGrant(ctx, domainID, extensionGrant)
	if err != nil {
		return nil, technical("an error occurs while trying to find clients by extension grant", err)
	}
	return clients, nil
}

// FindAll returns every client.
func (s *ClientService) FindAll(ctx context.Context) ([]*domain.Client, error) {
	log.Debug().Msg("find clients")
	clients, err := s.clients.FindAll(ctx)
	if err != nil {
		return nil, technical("an error occurs while trying to find clients", err)
	}
	return clients, nil
}

// FindPage returns one page of all clients.
func (s *ClientService) FindPage(ctx context.Context, page, size int) (*domain.Page[*domain.Client], error) {
	log.Debug().Int("page", page).Int("size", size).Msg("find clients")
	result, err := s.clients.FindPage(ctx, page, size)
	if err != nil {
		return nil, technical("an error occurs while trying to find clients", err)
	}
	return result, nil
}

// Create registers a new client in a domain, failing when the requested
// client_id is already taken there.
func (s *ClientService) Create(ctx context.Context, domainID string, newClient *dto.NewClient) (*domain.Client, error) {
	log.Debug().Str("domain", domainID).Str("client_id", newClient.ClientID).Msg("create a new client")

	existing, err := s.clients.FindByClientIDAndDomain(ctx, newClient.ClientID, domainID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, technical("an error occurs while trying to create a client", err)
	}
	if existing != nil {
		return nil, &AlreadyExistsError{Kind: KindClient, Key: newClient.ClientID, Domain: domainID}
	}

	return s.CreateClient(ctx, &domain.Client{
		Domain:       domainID,
		ClientID:     newClient.ClientID,
		ClientSecret: newClient.ClientSecret,
		ClientName:   newClient.ClientName,
	})
}

// CreateClient is the core registration path, also used by dynamic client
// registration. A fresh id is always generated; client_id and client_secret
// only when absent. The client is validated, persisted, then announced.
func (s *ClientService) CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	log.Debug().Str("domain", c.Domain).Msg("create a client")
	op := "an error occurs while trying to create a client"

	if strings.TrimSpace(c.Domain) == "" {
		return nil, &InvalidClientMetadataError{Reason: "no domain set on client"}
	}

	c.ID = uuid.NewString()
	if c.ClientID == "" {
		c.ClientID = uuid.NewString()
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		c.ClientSecret = uuid.NewString()
	}
	if strings.TrimSpace(c.ClientName) == "" {
		c.ClientName = s.defaults.ClientName
	}

	c.AccessTokenValiditySeconds = s.defaults.AccessTokenValiditySeconds
	c.RefreshTokenValiditySeconds = s.defaults.RefreshTokenValiditySeconds
	c.IDTokenValiditySeconds = s.defaults.IDTokenValiditySeconds
	c.Enabled = true

	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	validated, err := s.validateClientMetadata(ctx, c.Domain, c)
	if err != nil {
		return nil, technical(op, err)
	}
	created, err := s.clients.Create(ctx, validated)
	if err != nil {
		return nil, technical(op, err)
	}

	s.reload(ctx, created.Domain, domain.NewEvent(domain.EventTypeClient, created.ID, created.Domain, domain.EventActionCreate))
	return created, nil
}

// Update is the legacy full-update path: every mutable field of the stored
// client is overlaid from the payload, so fields absent from it are erased.
//
// Deprecated: dynamic client registration added fields this payload does not
// carry; use Patch to avoid losing them.
func (s *ClientService) Update(ctx context.Context, domainID, id string, updateClient *dto.UpdateClient) (*domain.Client, error) {
	log.Debug().Str("domain", domainID).Str("client", id).Msg("update a client")
	op := "an error occurs while trying to update a client"

	existing, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindClient, ID: id}
		}
		return nil, technical(op, err)
	}

	// Existence check only: unresolved identity provider references are
	// skipped, the resolved values are discarded.
	for _, idpID := range updateClient.Identities {
		if _, err := s.idps.FindByID(ctx, idpID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, technical(op, err)
		}
	}

	updated := existing.Copy()
	updated.ClientName = updateClient.ClientName
	updated.Scopes = updateClient.Scopes
	updated.AutoApproveScopes = updateClient.AutoApproveScopes
	updated.AccessTokenValiditySeconds = updateClient.AccessTokenValiditySeconds
	updated.RefreshTokenValiditySeconds = updateClient.RefreshTokenValiditySeconds
	updated.IDTokenValiditySeconds = updateClient.IDTokenValiditySeconds
	updated.AuthorizedGrantTypes = updateClient.AuthorizedGrantTypes
	updated.RedirectURIs = updateClient.RedirectURIs
	updated.Enabled = updateClient.Enabled
	updated.Identities = updateClient.Identities
	updated.OAuth2Identities = updateClient.OAuth2Identities
	updated.IDTokenCustomClaims = updateClient.IDTokenCustomClaims
	updated.Certificate = updateClient.Certificate
	updated.EnhanceScopesWithUserPermissions = updateClient.EnhanceScopesWithUserPermissions

	oauth2.CompleteGrantTypeCorrespondence(updated)

	validated, err := s.validateClientMetadata(ctx, domainID, updated)
	if err != nil {
		return nil, technical(op, err)
	}
	persisted, err := s.updateAndReload(ctx, domainID, validated)
	if err != nil {
		return nil, technical(op, err)
	}
	return persisted, nil
}

// UpdateClient is the full-replacement path used by dynamic client
// registration: the supplied client is validated and persisted as-is.
func (s *ClientService) UpdateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	log.Debug().Str("domain", c.Domain).Str("client_id", c.ClientID).Msg("update client")
	op := "an error occurs while trying to update a client"

	if strings.TrimSpace(c.Domain) == "" {
		return nil, &InvalidClientMetadataError{Reason: "no domain set on client"}
	}

	if _, err := s.clients.FindByID(ctx, c.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindClient, ID: c.ID}
		}
		return nil, technical(op, err)
	}

	validated, err := s.validateClientMetadata(ctx, c.Domain, c)
	if err != nil {
		return nil, technical(op, err)
	}
	persisted, err := s.updateAndReload(ctx, c.Domain, validated)
	if err != nil {
		return nil, technical(op, err)
	}
	return persisted, nil
}

// Patch applies only the fields present in the payload onto the stored
// client, re-validates and persists it.
func (s *ClientService) Patch(ctx context.Context, domainID, id string, patchClient *dto.PatchClient) (*domain.Client, error) {
	log.Debug().Str("domain", domainID).Str("client", id).Msg("patch a client")
	op := "an error occurs while trying to update a client"

	existing, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindClient, ID: id}
		}
		return nil, technical(op, err)
	}

	validated, err := s.validateClientMetadata(ctx, domainID, patchClient.Patch(existing))
	if err != nil {
		return nil, technical(op, err)
	}
	persisted, err := s.updateAndReload(ctx, domainID, validated)
	if err != nil {
		return nil, technical(op, err)
	}
	return persisted, nil
}

// Delete removes a client. The change event is built from the loaded
// snapshot so it still carries the domain and id after the row is gone.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	log.Debug().Str("client", id).Msg("delete client")
	op := fmt.Sprintf("an error occurs while trying to delete client: %s", id)

	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &NotFoundError{Kind: KindClient, ID: id}
		}
		return technical(op, err)
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		return technical(op, err)
	}

	s.reload(ctx, c.Domain, domain.NewEvent(domain.EventTypeClient, c.ID, c.Domain, domain.EventActionDelete))
	return nil
}

// FindTopClients pairs every client with its issued access-token count and
// keeps those with at least one token.
func (s *ClientService) FindTopClients(ctx context.Context) ([]*dto.TopClient, error) {
	log.Debug().Msg("find top clients")
	op := "an error occurs while trying to find top clients"

	clients, err := s.clients.FindAll(ctx)
	if err != nil {
		return nil, technical(op, err)
	}
	return s.topClients(ctx, clients, op)
}

// FindTopClientsByDomain is FindTopClients restricted to one domain.
func (s *ClientService) FindTopClientsByDomain(ctx context.Context, domainID string) ([]*dto.TopClient, error) {
	log.Debug().Str("domain", domainID).Msg("find top clients by domain")
	op := "an error occurs while trying to find top clients by domain"

	clients, err := s.clients.FindByDomain(ctx, domainID)
	if err != nil {
		return nil, technical(op, err)
	}
	return s.topClients(ctx, clients, op)
}

// topClients fans out one token-count lookup per client. Results are
// unordered; clients without tokens are dropped.
func (s *ClientService) topClients(ctx context.Context, clients []*domain.Client, op string) ([]*dto.TopClient, error) {
	counted := make([]*dto.TopClient, len(clients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(topClientsConcurrency)
	for i, c := range clients {
		g.Go(func() error {
			count, err := s.tokens.CountByClientID(gctx, c.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				counted[i] = &dto.TopClient{Client: c, AccessTokens: count}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, technical(op, err)
	}

	top := make([]*dto.TopClient, 0, len(counted))
	for _, tc := range counted {
		if tc != nil {
			top = append(top, tc)
		}
	}
	return top, nil
}

// FindTotalClients returns the total number of registered clients.
func (s *ClientService) FindTotalClients(ctx context.Context) (*dto.TotalClient, error) {
	log.Debug().Msg("find total clients")
	count, err := s.clients.Count(ctx)
	if err != nil {
		return nil, technical("an error occurs while trying to find total clients", err)
	}
	return &dto.TotalClient{TotalClients: count}, nil
}

// FindTotalClientsByDomain returns the number of clients of one domain.
func (s *ClientService) FindTotalClientsByDomain(ctx context.Context, domainID string) (*dto.TotalClient, error) {
	log.Debug().Str("domain", domainID).Msg("find total clients by domain")
	count, err := s.clients.CountByDomain(ctx, domainID)
	if err != nil {
		return nil, technical(fmt.Sprintf("an error occurs while trying to find total clients by domain: %s", domainID), err)
	}
	return &dto.TotalClient{TotalClients: count}, nil
}

// updateAndReload stamps the update time, persists the client and announces
// the change.
func (s *ClientService) updateAndReload(ctx context.Context, domainID string, c *domain.Client) (*domain.Client, error) {
	c.UpdatedAt = time.Now()
	updated, err := s.clients.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.reload(ctx, domainID, domain.NewEvent(domain.EventTypeClient, updated.ID, c.Domain, domain.EventActionUpdate))
	return updated, nil
}

// reload asks the notifier for a domain refresh. The mutation is already
// committed at this point, so a notification failure is logged and never
// surfaced to the caller.
func (s *ClientService) reload(ctx context.Context, domainID string, event *domain.Event) {
	if _, err := s.notifier.Reload(ctx, domainID, event); err != nil {
		log.Warn().Err(err).
			Str("domain", domainID).
			Str("client", event.Payload.ID).
			Msg("client change notification failed")
	}
}
