package database

import (
	"database/sql"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

// getOrCreateRole resolves a role id by name, creating the role when missing.
// The upsert makes concurrent first references race-safe: both callers land
// on the same row via the unique name constraint.
func getOrCreateRole(tx *sql.Tx, name string) (int64, error) {
	var id int64
	query := `INSERT INTO roles (name, description)
			  VALUES ($1, 'Role ' || $1)
			  ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			  RETURNING id`
	if err := tx.QueryRow(query, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// EnsureRoles creates any of the given roles that do not exist yet.
// Safe to run repeatedly.
func EnsureRoles(db *sql.DB, names []string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := getOrCreateRole(tx, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func ListRoles(db *sql.DB) ([]*models.Role, error) {
	rows, err := db.Query(`SELECT id, name, description FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description); err != nil {
			return nil, err
		}
		roles = append(roles, &r)
	}
	return roles, rows.Err()
}
