package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const groupColumns = `id, name, course_id, teacher_id, start_date, end_date, max_students, description, is_active, created_at, updated_at`

var groupSortColumns = map[string]bool{"name": true, "course_id": true, "start_date": true, "created_at": true}

func scanGroup(row interface{ Scan(...interface{}) error }) (*models.Group, error) {
	g := &models.Group{}
	err := row.Scan(&g.ID, &g.Name, &g.CourseID, &g.TeacherID, &g.StartDate, &g.EndDate,
		&g.MaxStudents, &g.Description, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func GetGroupByID(db *sql.DB, id int64) (*models.Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM groups WHERE id = $1`, groupColumns)
	return scanGroup(db.QueryRow(query, id))
}

func GroupExists(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// GroupFilters narrows a group listing; zero values mean "no filter".
type GroupFilters struct {
	CourseID   int64
	TeacherID  int64
	ActiveOnly bool
}

func ListGroups(db *sql.DB, filters GroupFilters, offset, limit int, sortBy string, sortDesc bool) ([]*models.Group, error) {
	offset, limit = clampPage(offset, limit)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.CourseID != 0 {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", argIndex))
		args = append(args, filters.CourseID)
		argIndex++
	}
	if filters.TeacherID != 0 {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", argIndex))
		args = append(args, filters.TeacherID)
		argIndex++
	}
	if filters.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM groups %s %s LIMIT $%d OFFSET $%d`,
		groupColumns, where, orderBy(sortBy, sortDesc, groupSortColumns), argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func CreateGroup(db *sql.DB, g *models.Group) error {
	query := `INSERT INTO groups (name, course_id, teacher_id, start_date, end_date, max_students, description, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, g.Name, g.CourseID, g.TeacherID, g.StartDate, g.EndDate,
		g.MaxStudents, g.Description, g.IsActive).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

type GroupUpdate struct {
	Name        *string    `json:"name"`
	CourseID    *int64     `json:"course_id"`
	TeacherID   *int64     `json:"teacher_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MaxStudents *int       `json:"max_students"`
	Description *string    `json:"description"`
	IsActive    *bool      `json:"is_active"`
}

func UpdateGroup(db *sql.DB, id int64, upd *GroupUpdate) (*models.Group, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.Name != nil {
		addSet("name", *upd.Name)
	}
	if upd.CourseID != nil {
		addSet("course_id", *upd.CourseID)
	}
	if upd.TeacherID != nil {
		// teacher_id 0 detaches the instructor
		if *upd.TeacherID == 0 {
			sets = append(sets, "teacher_id = NULL")
		} else {
			addSet("teacher_id", *upd.TeacherID)
		}
	}
	if upd.StartDate != nil {
		addSet("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		addSet("end_date", *upd.EndDate)
	}
	if upd.MaxStudents != nil {
		addSet("max_students", *upd.MaxStudents)
	}
	if upd.Description != nil {
		addSet("description", *upd.Description)
	}
	if upd.IsActive != nil {
		addSet("is_active", *upd.IsActive)
	}

	if len(sets) == 0 {
		return GetGroupByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE groups SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, groupColumns)
	args = append(args, id)

	g, err := scanGroup(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return g, err
}

func DeleteGroup(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM student_group WHERE group_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// CountActiveGroupStudents backs the group detail response.
func CountActiveGroupStudents(db *sql.DB, groupID int64) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM student_group WHERE group_id = $1 AND is_active = true`,
		groupID).Scan(&count)
	return count, err
}

// GroupStudentLinked reports whether a membership edge exists, active or not.
func GroupStudentLinked(db *sql.DB, groupID, studentID int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM student_group WHERE group_id = $1 AND student_id = $2)`,
		groupID, studentID).Scan(&exists)
	return exists, err
}

// UpsertGroupStudent adds a student to a group. If the edge already exists its
// is_active flag is updated in place, so calling twice with different values
// leaves exactly one edge reflecting the most recent call.
func UpsertGroupStudent(db *sql.DB, groupID, studentID int64, isActive bool) (*models.GroupStudent, error) {
	edge := &models.GroupStudent{}
	query := `INSERT INTO student_group (student_id, group_id, is_active)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (student_id, group_id) DO UPDATE SET is_active = EXCLUDED.is_active
			  RETURNING student_id, group_id, joined_at, is_active`
	err := db.QueryRow(query, studentID, groupID, isActive).
		Scan(&edge.StudentID, &edge.GroupID, &edge.JoinedAt, &edge.IsActive)
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// SetGroupStudentActive flips membership status on an existing edge only.
func SetGroupStudentActive(db *sql.DB, groupID, studentID int64, isActive bool) (*models.GroupStudent, error) {
	edge := &models.GroupStudent{}
	query := `UPDATE student_group SET is_active = $3
			  WHERE group_id = $1 AND student_id = $2
			  RETURNING student_id, group_id, joined_at, is_active`
	err := db.QueryRow(query, groupID, studentID, isActive).
		Scan(&edge.StudentID, &edge.GroupID, &edge.JoinedAt, &edge.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// RemoveGroupStudent returns false when no such edge exists.
func RemoveGroupStudent(db *sql.DB, groupID, studentID int64) (bool, error) {
	res, err := db.Exec(`DELETE FROM student_group WHERE group_id = $1 AND student_id = $2`,
		groupID, studentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func GetGroupStudents(db *sql.DB, groupID int64, activeOnly bool, offset, limit int) ([]*models.Student, error) {
	offset, limit = clampPage(offset, limit)
	where := "WHERE sg.group_id = $1"
	if activeOnly {
		where += " AND sg.is_active = true"
	}
	query := fmt.Sprintf(`
		SELECT %s FROM students s
		JOIN student_group sg ON sg.student_id = s.id
		%s
		ORDER BY s.id
		LIMIT $2 OFFSET $3`, prefixColumns("s", studentColumns), where)

	rows, err := db.Query(query, groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStudents(rows)
}
