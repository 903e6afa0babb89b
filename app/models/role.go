package models

// Role is a flat capability; authorization is role-presence against a
// per-operation allow list, not fine-grained permissions.
type Role struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
