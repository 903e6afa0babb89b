package models

import "time"

// Student is the 1:1 student profile of a user. At most one per user,
// enforced by the unique user_id constraint.
type Student struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	User *User `json:"user,omitempty"`
}
