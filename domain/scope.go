package domain

import "time"

// Scope is a named permission unit grantable to clients and users of a
// domain. Keys are stored lower-cased and are unique per domain.
//
//nolint:tagliatelle
type Scope struct {
	ID          string `bson:"_id" json:"id"`
	Domain      string `bson:"domain" json:"domain"`
	Key         string `bson:"key" json:"key"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	// System scopes carry claim mappings and are protected against
	// deletion unless explicitly forced.
	System bool     `bson:"system" json:"system"`
	Claims []string `bson:"claims,omitempty" json:"claims,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ScopeApproval records an end user's consent decision for one scope of one
// client. Approvals are cleaned up when their scope is deleted.
//
//nolint:tagliatelle
type ScopeApproval struct {
	ID        string    `bson:"_id" json:"id"`
	Domain    string    `bson:"domain" json:"domain"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ClientID  string    `bson:"client_id" json:"client_id"`
	Scope     string    `bson:"scope" json:"scope"`
	Status    string    `bson:"status" json:"status"`
	ExpiresAt time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
