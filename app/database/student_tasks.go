package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const studentTaskColumns = `id, student_id, task_id, status, solution, grade, feedback, submitted_at, graded_at, created_at, updated_at`

func scanStudentTask(row interface{ Scan(...interface{}) error }) (*models.StudentTask, error) {
	st := &models.StudentTask{}
	err := row.Scan(&st.ID, &st.StudentID, &st.TaskID, &st.Status, &st.Solution, &st.Grade,
		&st.Feedback, &st.SubmittedAt, &st.GradedAt, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func GetStudentTaskByID(db *sql.DB, id int64) (*models.StudentTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_tasks WHERE id = $1`, studentTaskColumns)
	return scanStudentTask(db.QueryRow(query, id))
}

func GetStudentTasksByStudent(db *sql.DB, studentID int64, status string, offset, limit int) ([]*models.StudentTask, error) {
	return listStudentTasks(db, "student_id", studentID, status, offset, limit)
}

func GetStudentTasksByTask(db *sql.DB, taskID int64, status string, offset, limit int) ([]*models.StudentTask, error) {
	return listStudentTasks(db, "task_id", taskID, status, offset, limit)
}

func listStudentTasks(db *sql.DB, fkColumn string, fkValue int64, status string, offset, limit int) ([]*models.StudentTask, error) {
	offset, limit = clampPage(offset, limit)

	conditions := []string{fmt.Sprintf("%s = $1", fkColumn)}
	args := []interface{}{fkValue}
	argIndex := 2

	if status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, status)
		argIndex++
	}

	query := fmt.Sprintf(`SELECT %s FROM student_tasks WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		studentTaskColumns, strings.Join(conditions, " AND "), argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.StudentTask
	for rows.Next() {
		st, err := scanStudentTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, st)
	}
	return tasks, rows.Err()
}

func CreateStudentTask(db *sql.DB, st *models.StudentTask) error {
	if st.Status == "" {
		st.Status = models.TaskStatusPending
	}
	query := `INSERT INTO student_tasks (student_id, task_id, status, solution, grade, feedback)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, st.StudentID, st.TaskID, st.Status, st.Solution, st.Grade, st.Feedback).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

type StudentTaskUpdate struct {
	Status   *string `json:"status"`
	Solution *string `json:"solution"`
	Grade    *int    `json:"grade"`
	Feedback *string `json:"feedback"`
}

func UpdateStudentTask(db *sql.DB, id int64, upd *StudentTaskUpdate) (*models.StudentTask, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.Status != nil {
		addSet("status", *upd.Status)
	}
	if upd.Solution != nil {
		addSet("solution", *upd.Solution)
	}
	if upd.Grade != nil {
		addSet("grade", *upd.Grade)
	}
	if upd.Feedback != nil {
		addSet("feedback", *upd.Feedback)
	}

	if len(sets) == 0 {
		return GetStudentTaskByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE student_tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, studentTaskColumns)
	args = append(args, id)

	st, err := scanStudentTask(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return st, err
}

func DeleteStudentTask(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM student_tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SubmitSolution stores the solution and moves the copy to in_progress.
// Re-submission overwrites the previous solution and timestamp.
func SubmitSolution(db *sql.DB, id int64, solution string) (*models.StudentTask, error) {
	query := fmt.Sprintf(`UPDATE student_tasks
		SET solution = $2, status = $3, submitted_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, studentTaskColumns)

	st, err := scanStudentTask(db.QueryRow(query, id, solution, models.TaskStatusInProgress))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return st, err
}

// GradeStudentTask records grade and feedback and completes the copy.
// Re-grading is allowed and overwrites; submitted_at is left alone.
func GradeStudentTask(db *sql.DB, id int64, grade int, feedback *string) (*models.StudentTask, error) {
	query := fmt.Sprintf(`UPDATE student_tasks
		SET grade = $2, feedback = $3, status = $4, graded_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, studentTaskColumns)

	st, err := scanStudentTask(db.QueryRow(query, id, grade, feedback, models.TaskStatusCompleted))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return st, err
}

// MarkOverdue flips unfinished copies of past-due tasks to overdue and
// returns how many rows changed. Driven by the background sweep.
func MarkOverdue(db *sql.DB) (int64, error) {
	res, err := db.Exec(`
		UPDATE student_tasks st
		SET status = $1, updated_at = NOW()
		FROM tasks t
		WHERE t.id = st.task_id
		  AND t.due_date IS NOT NULL
		  AND t.due_date < NOW()
		  AND st.status IN ($2, $3)`,
		models.TaskStatusOverdue, models.TaskStatusPending, models.TaskStatusInProgress)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
