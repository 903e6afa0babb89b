package models

import "time"

type Group struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	CourseID    int64      `json:"course_id"`
	TeacherID   *int64     `json:"teacher_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	MaxStudents int        `json:"max_students"`
	Description *string    `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GroupStudent is the student↔group edge. The composite key keeps it unique;
// re-adding a member just flips the edge attributes.
type GroupStudent struct {
	StudentID int64     `json:"student_id"`
	GroupID   int64     `json:"group_id"`
	JoinedAt  time.Time `json:"joined_at"`
	IsActive  bool      `json:"is_active"`
}
