package models

import "time"

type Teacher struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Specialization  *string   `json:"specialization,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	Phone           *string   `json:"phone,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
}
