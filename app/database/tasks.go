package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const taskColumns = `id, title, description, course_id, due_date, created_at, updated_at`

var taskSortColumns = map[string]bool{"title": true, "course_id": true, "due_date": true, "created_at": true}

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CourseID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func GetTaskByID(db *sql.DB, id int64) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	return scanTask(db.QueryRow(query, id))
}

func TaskExists(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func ListTasks(db *sql.DB, offset, limit int, sortBy string, sortDesc bool) ([]*models.Task, error) {
	offset, limit = clampPage(offset, limit)
	query := fmt.Sprintf(`SELECT %s FROM tasks %s LIMIT $1 OFFSET $2`,
		taskColumns, orderBy(sortBy, sortDesc, taskSortColumns))

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func GetTasksByCourse(db *sql.DB, courseID int64, offset, limit int) ([]*models.Task, error) {
	offset, limit = clampPage(offset, limit)
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE course_id = $1 ORDER BY id LIMIT $2 OFFSET $3`, taskColumns)

	rows, err := db.Query(query, courseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// GetUpcomingTasks returns tasks due within [now, now+days], soonest first.
func GetUpcomingTasks(db *sql.DB, days, offset, limit int) ([]*models.Task, error) {
	offset, limit = clampPage(offset, limit)
	now := time.Now()
	future := now.AddDate(0, 0, days)
	query := fmt.Sprintf(`SELECT %s FROM tasks
		WHERE due_date >= $1 AND due_date <= $2
		ORDER BY due_date
		LIMIT $3 OFFSET $4`, taskColumns)

	rows, err := db.Query(query, now, future, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]*models.Task, error) {
	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func CreateTask(db *sql.DB, t *models.Task) error {
	query := `INSERT INTO tasks (title, description, course_id, due_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, t.Title, t.Description, t.CourseID, t.DueDate).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	CourseID    *int64     `json:"course_id"`
	DueDate     *time.Time `json:"due_date"`
}

func UpdateTask(db *sql.DB, id int64, upd *TaskUpdate) (*models.Task, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.Title != nil {
		addSet("title", *upd.Title)
	}
	if upd.Description != nil {
		addSet("description", *upd.Description)
	}
	if upd.CourseID != nil {
		addSet("course_id", *upd.CourseID)
	}
	if upd.DueDate != nil {
		addSet("due_date", *upd.DueDate)
	}

	if len(sets) == 0 {
		return GetTaskByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, taskColumns)
	args = append(args, id)

	t, err := scanTask(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

func DeleteTask(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM student_tasks WHERE task_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
