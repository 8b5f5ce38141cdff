package dto

// NewScope is the payload for creating a scope in a domain.
type NewScope struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewSystemScope is the payload for provisioning a protected system scope.
type NewSystemScope struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Claims      []string `json:"claims,omitempty"`
}

// UpdateScope is the payload for updating a scope's display fields.
type UpdateScope struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateSystemScope additionally refreshes the claim mapping of a system
// scope.
type UpdateSystemScope struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Claims      []string `json:"claims,omitempty"`
}

// UpdateRole is the payload used when a scope deletion rewrites the
// permission set of an affected role.
type UpdateRole struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}
