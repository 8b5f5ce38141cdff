package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vigil-iam/vigil/domain"
	"github.com/vigil-iam/vigil/internal/oauth2"
)

// validateClientMetadata enforces the domain's registration policy on a
// candidate client before any persistence: the domain must exist, every
// redirect URI must respect the domain's localhost / http-scheme / wildcard
// rules (checked in that order, first violation wins), every requested scope
// must exist in the domain, and the response types are completed from the
// grant types. Returns the possibly mutated client.
func (s *ClientService) validateClientMetadata(ctx context.Context, domainID string, c *domain.Client) (*domain.Client, error) {
	d, err := s.domains.FindByID(ctx, domainID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindDomain, ID: domainID}
		}
		return nil, err
	}

	for _, raw := range c.RedirectURIs {
		uri, err := oauth2.ParseRedirectURI(raw)
		if err != nil {
			return nil, &InvalidRedirectURIError{Reason: fmt.Sprintf("malformed redirect_uri %s", raw)}
		}
		if !d.RedirectURILocalhostAllowed && oauth2.IsLoopback(uri.Hostname()) {
			return nil, &InvalidRedirectURIError{Reason: "localhost is forbidden"}
		}
		if !d.RedirectURIUnsecuredHTTPAllowed && strings.EqualFold(uri.Scheme, "http") {
			return nil, &InvalidRedirectURIError{Reason: "unsecured http scheme is forbidden"}
		}
		if !d.RedirectURIWildcardAllowed && strings.Contains(uri.Path, "*") {
			return nil, &InvalidRedirectURIError{Reason: "wildcards are forbidden"}
		}
	}

	if err := s.scopes.ValidateScope(ctx, domainID, c.Scopes); err != nil {
		return nil, err
	}

	return oauth2.CompleteGrantTypeCorrespondence(c), nil
}
