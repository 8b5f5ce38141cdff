package domain

import "time"

// IdentityProvider is an external user provisioning backend a client may be
// bound to. Provisioning logic lives behind the provider plugins; this core
// only checks that referenced providers exist.
//
//nolint:tagliatelle
type IdentityProvider struct {
	ID        string            `bson:"_id" json:"id"`
	Domain    string            `bson:"domain" json:"domain"`
	Name      string            `bson:"name" json:"name"`
	Type      string            `bson:"type" json:"type"`
	Config    map[string]string `bson:"config,omitempty" json:"config,omitempty"`
	Enabled   bool              `bson:"enabled" json:"enabled"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updated_at"`
}
