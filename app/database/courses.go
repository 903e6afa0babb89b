package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const courseColumns = `id, title, description, duration_weeks, level, price, is_active, created_at, updated_at`

var courseSortColumns = map[string]bool{"title": true, "level": true, "price": true, "created_at": true}

func scanCourse(row interface{ Scan(...interface{}) error }) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.DurationWeeks, &c.Level, &c.Price,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func GetCourseByID(db *sql.DB, id int64) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	return scanCourse(db.QueryRow(query, id))
}

func CourseExists(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func ListCourses(db *sql.DB, offset, limit int, sortBy string, sortDesc bool, activeOnly bool) ([]*models.Course, error) {
	offset, limit = clampPage(offset, limit)
	where := ""
	if activeOnly {
		where = "WHERE is_active = true"
	}
	query := fmt.Sprintf(`SELECT %s FROM courses %s %s LIMIT $1 OFFSET $2`,
		courseColumns, where, orderBy(sortBy, sortDesc, courseSortColumns))

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func CreateCourse(db *sql.DB, c *models.Course) error {
	query := `INSERT INTO courses (title, description, duration_weeks, level, price, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, c.Title, c.Description, c.DurationWeeks, c.Level, c.Price, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

type CourseUpdate struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	DurationWeeks *int    `json:"duration_weeks"`
	Level         *string `json:"level"`
	Price         *int    `json:"price"`
	IsActive      *bool   `json:"is_active"`
}

func UpdateCourse(db *sql.DB, id int64, upd *CourseUpdate) (*models.Course, error) {
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
	if upd.DurationWeeks != nil {
		addSet("duration_weeks", *upd.DurationWeeks)
	}
	if upd.Level != nil {
		addSet("level", *upd.Level)
	}
	if upd.Price != nil {
		addSet("price", *upd.Price)
	}
	if upd.IsActive != nil {
		addSet("is_active", *upd.IsActive)
	}

	if len(sets) == 0 {
		return GetCourseByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE courses SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, courseColumns)
	args = append(args, id)

	c, err := scanCourse(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func DeleteCourse(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
