package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Entity kinds referenced by error messages.
const (
	KindClient = "client"
	KindScope  = "scope"
	KindDomain = "domain"
	KindRole   = "role"
)

// ManagementError marks the typed failures of the registries. Every public
// operation returns either a success value or exactly one of these; anything
// untyped is wrapped as a TechnicalError by the translator.
type ManagementError interface {
	error
	managementError()
}

// NotFoundError reports a missing client, scope, role or domain.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (*NotFoundError) managementError() {}

// AlreadyExistsError reports a per-domain uniqueness violation on a
// client_id or scope key.
type AlreadyExistsError struct {
	Kind   string
	Key    string
	Domain string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s already exists in domain %s", e.Kind, e.Key, e.Domain)
}

func (*AlreadyExistsError) managementError() {}

// InvalidClientMetadataError reports OAuth2/OIDC metadata rejected by
// registration policy.
type InvalidClientMetadataError struct {
	Reason string
}

func (e *InvalidClientMetadataError) Error() string {
	return "invalid client metadata: " + e.Reason
}

func (*InvalidClientMetadataError) managementError() {}

// InvalidRedirectURIError reports a redirect URI violating the domain's
// registration policy, named after the violated rule.
type InvalidRedirectURIError struct {
	Reason string
}

func (e *InvalidRedirectURIError) Error() string {
	return "invalid redirect_uri: " + e.Reason
}

func (*InvalidRedirectURIError) managementError() {}

// SystemScopeError reports a deletion attempt on a system scope without the
// force flag.
type SystemScopeError struct {
	ScopeID string
}

func (e *SystemScopeError) Error() string {
	return fmt.Sprintf("scope %s is a system scope and cannot be deleted without force", e.ScopeID)
}

func (*SystemScopeError) managementError() {}

// TechnicalError wraps an unexpected storage or transport failure together
// with a description of the attempted operation.
type TechnicalError struct {
	Op  string
	Err error
}

func (e *TechnicalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func (*TechnicalError) managementError() {}

// technical is the single failure translator: already-typed management
// errors pass through unchanged, everything else is logged and wrapped as a
// TechnicalError carrying op as the description of the attempted operation.
func technical(op string, err error) error {
	var me ManagementError
	if errors.As(err, &me) {
		return err
	}
	log.Error().Err(err).Msg(op)
	return &TechnicalError{Op: op, Err: err}
}
