package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const userColumns = `id, email, username, password, first_name, last_name, is_active, created_at, updated_at`

var userSortColumns = map[string]bool{
	"email": true, "username": true, "first_name": true, "last_name": true, "created_at": true,
}

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *sql.DB, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(db.QueryRow(query, id))
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(db.QueryRow(query, email))
}

func GetUserByUsername(db *sql.DB, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	return scanUser(db.QueryRow(query, username))
}

func UserExists(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func ListUsers(db *sql.DB, offset, limit int, sortBy string, sortDesc bool) ([]*models.User, error) {
	offset, limit = clampPage(offset, limit)
	query := fmt.Sprintf(`SELECT %s FROM users %s LIMIT $1 OFFSET $2`,
		userColumns, orderBy(sortBy, sortDesc, userSortColumns))

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// GetUsersByRole returns users holding the given role name.
func GetUsersByRole(db *sql.DB, role string, offset, limit int) ([]*models.User, error) {
	offset, limit = clampPage(offset, limit)
	query := fmt.Sprintf(`
		SELECT %s FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id
		WHERE r.name = $1
		ORDER BY u.id
		LIMIT $2 OFFSET $3`, prefixColumns("u", userColumns))

	rows, err := db.Query(query, role, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func GetUserRoles(db *sql.DB, userID int64) ([]*models.Role, error) {
	query := `
		SELECT r.id, r.name, r.description
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.id`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}

// CreateUserWithRoles inserts the user and attaches its roles in one
// transaction. user.Password must already be a bcrypt digest. Missing roles
// are auto-created by name.
func CreateUserWithRoles(db *sql.DB, user *models.User, roleNames []string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO users (email, username, password, first_name, last_name, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, user.Email, user.Username, user.Password,
		user.FirstName, user.LastName, user.IsActive).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := attachRoles(tx, user, roleNames); err != nil {
		return err
	}
	return tx.Commit()
}

func attachRoles(tx *sql.Tx, user *models.User, roleNames []string) error {
	user.Roles = user.Roles[:0]
	for _, name := range roleNames {
		roleID, err := getOrCreateRole(tx, name)
		if err != nil {
			return err
		}
		// The composite key makes re-attaching a role a no-op.
		_, err = tx.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
						  ON CONFLICT (user_id, role_id) DO NOTHING`, user.ID, roleID)
		if err != nil {
			return err
		}
		user.Roles = append(user.Roles, &models.Role{ID: roleID, Name: name})
	}
	return nil
}

// UserUpdate carries a partial update; nil fields are left untouched.
// Password must already be hashed by the caller. A non-nil Roles replaces the
// whole role set.
type UserUpdate struct {
	Email     *string
	Username  *string
	Password  *string
	FirstName *string
	LastName  *string
	IsActive  *bool
	Roles     []string
}

func UpdateUser(db *sql.DB, id int64, upd *UserUpdate) (*models.User, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.Email != nil {
		addSet("email", *upd.Email)
	}
	if upd.Username != nil {
		addSet("username", *upd.Username)
	}
	if upd.Password != nil {
		addSet("password", *upd.Password)
	}
	if upd.FirstName != nil {
		addSet("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		addSet("last_name", *upd.LastName)
	}
	if upd.IsActive != nil {
		addSet("is_active", *upd.IsActive)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = NOW()")
		query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), argIndex)
		args = append(args, id)
		res, err := tx.Exec(query, args...)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, ErrNotFound
		}
	} else {
		// A roles-only update never touches the users table, so prove the
		// row exists before rewriting edges against it.
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
	}

	if upd.Roles != nil {
		if _, err := tx.Exec(`DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
			return nil, err
		}
		if err := attachRoles(tx, &models.User{ID: id}, upd.Roles); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	user, err := GetUserByID(db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.Roles, err = GetUserRoles(db, id)
	return user, err
}

// DeleteUser hard-deletes the user row along with its role edges. Profile
// rows are left in place; removing a profile is its own operation.
func DeleteUser(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
