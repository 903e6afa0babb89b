package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const parentColumns = `id, user_id, phone, alt_phone, address, notes, created_at, updated_at`

var parentSortColumns = map[string]bool{"user_id": true, "created_at": true}

func scanParent(row interface{ Scan(...interface{}) error }) (*models.Parent, error) {
	p := &models.Parent{}
	err := row.Scan(&p.ID, &p.UserID, &p.Phone, &p.AltPhone, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func GetParentByID(db *sql.DB, id int64) (*models.Parent, error) {
	query := fmt.Sprintf(`SELECT %s FROM parents WHERE id = $1`, parentColumns)
	return scanParent(db.QueryRow(query, id))
}

func GetParentByUserID(db *sql.DB, userID int64) (*models.Parent, error) {
	query := fmt.Sprintf(`SELECT %s FROM parents WHERE user_id = $1`, parentColumns)
	return scanParent(db.QueryRow(query, userID))
}

func ParentExists(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM parents WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func ListParents(db *sql.DB, offset, limit int, sortBy string, sortDesc bool) ([]*models.Parent, error) {
	offset, limit = clampPage(offset, limit)
	query := fmt.Sprintf(`SELECT %s FROM parents %s LIMIT $1 OFFSET $2`,
		parentColumns, orderBy(sortBy, sortDesc, parentSortColumns))

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectParents(rows)
}

func collectParents(rows *sql.Rows) ([]*models.Parent, error) {
	var parents []*models.Parent
	for rows.Next() {
		p, err := scanParent(rows)
		if err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}
	return parents, rows.Err()
}

func CreateParent(db *sql.DB, p *models.Parent) error {
	query := `INSERT INTO parents (user_id, phone, alt_phone, address, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, p.UserID, p.Phone, p.AltPhone, p.Address, p.Notes).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

type ParentUpdate struct {
	Phone    *string `json:"phone"`
	AltPhone *string `json:"alt_phone"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
}

func UpdateParent(db *sql.DB, id int64, upd *ParentUpdate) (*models.Parent, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.Phone != nil {
		addSet("phone", *upd.Phone)
	}
	if upd.AltPhone != nil {
		addSet("alt_phone", *upd.AltPhone)
	}
	if upd.Address != nil {
		addSet("address", *upd.Address)
	}
	if upd.Notes != nil {
		addSet("notes", *upd.Notes)
	}

	if len(sets) == 0 {
		return GetParentByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE parents SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, parentColumns)
	args = append(args, id)

	p, err := scanParent(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func DeleteParent(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM student_parent WHERE parent_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM parents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func GetParentStudents(db *sql.DB, parentID int64) ([]*models.Student, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM students s
		JOIN student_parent sp ON sp.student_id = s.id
		WHERE sp.parent_id = $1
		ORDER BY s.id`, prefixColumns("s", studentColumns))

	rows, err := db.Query(query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStudents(rows)
}
