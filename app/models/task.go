package models

import "time"

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	CourseID    int64      `json:"course_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StudentTask is a student's copy of a course task.
// pending --submit--> in_progress --grade--> completed; the overdue sweep
// moves unfinished copies past their due date to overdue.
type StudentTask struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"student_id"`
	TaskID      int64      `json:"task_id"`
	Status      string     `json:"status"`
	Solution    *string    `json:"solution,omitempty"`
	Grade       *int       `json:"grade,omitempty"`
	Feedback    *string    `json:"feedback,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	GradedAt    *time.Time `json:"graded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
