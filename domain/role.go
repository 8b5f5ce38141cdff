package domain

import "time"

// Role groups permission keys assigned to users of a domain. Permission keys
// reference scope keys; deleting a scope removes its key from every role.
//
//nolint:tagliatelle
type Role struct {
	ID          string    `bson:"_id" json:"id"`
	Domain      string    `bson:"domain" json:"domain"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Permissions []string  `bson:"permissions,omitempty" json:"permissions,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPermission reports whether key is part of the role's permission set.
func (r *Role) HasPermission(key string) bool {
	for _, p := range r.Permissions {
		if p == key {
			return true
		}
	}
	return false
}
