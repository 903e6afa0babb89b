package models

import "time"

type Parent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Phone     *string   `json:"phone,omitempty"`
	AltPhone  *string   `json:"alt_phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
}
