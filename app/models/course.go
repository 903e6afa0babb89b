package models

import "time"

type Course struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	DurationWeeks *int      `json:"duration_weeks,omitempty"`
	Level         *string   `json:"level,omitempty"`
	Price         *int      `json:"price,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
