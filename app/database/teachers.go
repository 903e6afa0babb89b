package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const teacherColumns = `id, user_id, specialization, bio, experience_years, phone, created_at, updated_at`

var teacherSortColumns = map[string]bool{"user_id": true, "experience_years": true, "created_at": true}

func scanTeacher(row interface{ Scan(...interface{}) error }) (*models.Teacher, error) {
	t := &models.Teacher{}
	err := row.Scan(&t.ID, &t.UserID, &t.Specialization, &t.Bio, &t.ExperienceYears, &t.Phone, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func GetTeacherByID(db *sql.DB, id int64) (*models.Teacher, error) {
	query := fmt.Sprintf(`SELECT %s FROM teachers WHERE id = $1`, teacherColumns)
	return scanTeacher(db.QueryRow(query, id))
}

func GetTeacherByUserID(db *sql.DB, userID int64) (*models.Teacher, error) {
	query := fmt.Sprintf(`SELECT %s FROM teachers WHERE user_id = $1`, teacherColumns)
	return scanTeacher(db.QueryRow(query, userID))
}

func TeacherExists(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func ListTeachers(db *sql.DB, offset, limit int, sortBy string, sortDesc bool) ([]*models.Teacher, error) {
	offset, limit = clampPage(offset, limit)
	query := fmt.Sprintf(`SELECT %s FROM teachers %s LIMIT $1 OFFSET $2`,
		teacherColumns, orderBy(sortBy, sortDesc, teacherSortColumns))

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

func CreateTeacher(db *sql.DB, t *models.Teacher) error {
	query := `INSERT INTO teachers (user_id, specialization, bio, experience_years, phone)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, t.UserID, t.Specialization, t.Bio, t.ExperienceYears, t.Phone).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

type TeacherUpdate struct {
	Specialization  *string `json:"specialization"`
	Bio             *string `json:"bio"`
	ExperienceYears *int    `json:"experience_years"`
	Phone           *string `json:"phone"`
}

func UpdateTeacher(db *sql.DB, id int64, upd *TeacherUpdate) (*models.Teacher, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.Specialization != nil {
		addSet("specialization", *upd.Specialization)
	}
	if upd.Bio != nil {
		addSet("bio", *upd.Bio)
	}
	if upd.ExperienceYears != nil {
		addSet("experience_years", *upd.ExperienceYears)
	}
	if upd.Phone != nil {
		addSet("phone", *upd.Phone)
	}

	if len(sets) == 0 {
		return GetTeacherByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE teachers SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, teacherColumns)
	args = append(args, id)

	t, err := scanTeacher(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

func DeleteTeacher(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
