package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const studentColumns = `id, user_id, birth_date, phone, address, notes, created_at, updated_at`

var studentSortColumns = map[string]bool{"user_id": true, "birth_date": true, "created_at": true}

func scanStudent(row interface{ Scan(...interface{}) error }) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.UserID, &s.BirthDate, &s.Phone, &s.Address, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func GetStudentByID(db *sql.DB, id int64) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	return scanStudent(db.QueryRow(query, id))
}

func GetStudentByUserID(db *sql.DB, userID int64) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE user_id = $1`, studentColumns)
	return scanStudent(db.QueryRow(query, userID))
}

func StudentExists(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func ListStudents(db *sql.DB, offset, limit int, sortBy string, sortDesc bool) ([]*models.Student, error) {
	offset, limit = clampPage(offset, limit)
	query := fmt.Sprintf(`SELECT %s FROM students %s LIMIT $1 OFFSET $2`,
		studentColumns, orderBy(sortBy, sortDesc, studentSortColumns))

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStudents(rows)
}

func collectStudents(rows *sql.Rows) ([]*models.Student, error) {
	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func CreateStudent(db *sql.DB, s *models.Student) error {
	query := `INSERT INTO students (user_id, birth_date, phone, address, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, s.UserID, s.BirthDate, s.Phone, s.Address, s.Notes).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

type StudentUpdate struct {
	BirthDate *time.Time `json:"birth_date"`
	Phone     *string    `json:"phone"`
	Address   *string    `json:"address"`
	Notes     *string    `json:"notes"`
}

func UpdateStudent(db *sql.DB, id int64, upd *StudentUpdate) (*models.Student, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.BirthDate != nil {
		addSet("birth_date", *upd.BirthDate)
	}
	if upd.Phone != nil {
		addSet("phone", *upd.Phone)
	}
	if upd.Address != nil {
		addSet("address", *upd.Address)
	}
	if upd.Notes != nil {
		addSet("notes", *upd.Notes)
	}

	if len(sets) == 0 {
		return GetStudentByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, studentColumns)
	args = append(args, id)

	s, err := scanStudent(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

func DeleteStudent(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddStudentParent links a student and a parent. Linking twice is a no-op;
// the composite key backs this up under concurrent calls.
func AddStudentParent(db *sql.DB, studentID, parentID int64) (bool, error) {
	studentOK, err := StudentExists(db, studentID)
	if err != nil {
		return false, err
	}
	parentOK, err := ParentExists(db, parentID)
	if err != nil {
		return false, err
	}
	if !studentOK || !parentOK {
		return false, nil
	}

	_, err = db.Exec(`INSERT INTO student_parent (student_id, parent_id) VALUES ($1, $2)
					  ON CONFLICT (student_id, parent_id) DO NOTHING`, studentID, parentID)
	if err != nil {
		if IsUniqueViolation(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveStudentParent returns false when no such edge exists.
func RemoveStudentParent(db *sql.DB, studentID, parentID int64) (bool, error) {
	res, err := db.Exec(`DELETE FROM student_parent WHERE student_id = $1 AND parent_id = $2`,
		studentID, parentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func StudentParentLinked(db *sql.DB, studentID, parentID int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM student_parent WHERE student_id = $1 AND parent_id = $2)`,
		studentID, parentID).Scan(&exists)
	return exists, err
}

func GetStudentParents(db *sql.DB, studentID int64) ([]*models.Parent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM parents p
		JOIN student_parent sp ON sp.parent_id = p.id
		WHERE sp.student_id = $1
		ORDER BY p.id`, prefixColumns("p", parentColumns))

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectParents(rows)
}
