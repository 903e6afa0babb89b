package models

import "time"

// Schedule is a recurring lesson slot of a group. DayOfWeek is 0-6 starting
// Monday; start_time < end_time always.
type Schedule struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Room      *string   `json:"room,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
