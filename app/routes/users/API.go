package users

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func GetRolesAPI(c *fiber.Ctx) error {
	roles, err := database.ListRoles(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
	}
	return c.JSON(roles)
}

func GetUsersAPI(c *fiber.Ctx) error {
	db := config.GetDB()
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)

	var users []*models.User
	var err error
	if role := c.Query("role"); role != "" {
		if !models.IsValidRole(role) {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown role: " + role})
		}
		users, err = database.GetUsersByRole(db, role, offset, limit)
	} else {
		users, err = database.ListUsers(db, offset, limit, c.Query("sort_by"), c.QueryBool("sort_desc"))
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	for _, u := range users {
		u.Roles, err = database.GetUserRoles(db, u.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to resolve roles"})
		}
	}
	return c.JSON(users)
}

func CreateUserAPI(c *fiber.Ctx) error {
	type CreateUserRequest struct {
		Email     string   `json:"email"`
		Username  string   `json:"username"`
		Password  string   `json:"password"`
		FirstName string   `json:"first_name"`
		LastName  string   `json:"last_name"`
		IsActive  *bool    `json:"is_active"`
		Roles     []string `json:"roles"`
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email, username and password are required"})
	}
	for _, role := range req.Roles {
		if !models.IsValidRole(role) {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown role: " + role})
		}
	}

	db := config.GetDB()
	if _, err := database.GetUserByEmail(db, req.Email); err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "A user with this email already exists"})
	}
	if _, err := database.GetUserByUsername(db, req.Username); err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "A user with this username already exists"})
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := database.CreateUserWithRoles(db, user, req.Roles); err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(400).JSON(fiber.Map{"error": "A user with this email or username already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create user"})
	}
	return c.Status(201).JSON(user)
}

// GetUserAPI lets staff read anyone and everyone read themselves. The
// permission check runs before the lookup, so outsiders probing foreign ids
// get 403 whether or not the id exists.
func GetUserAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}

	current := auth.CurrentUser(c)
	if !auth.IsAdminOrManager(current) && current.ID != int64(id) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	db := config.GetDB()
	user, err := database.GetUserByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch user"})
	}
	user.Roles, err = database.GetUserRoles(db, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to resolve roles"})
	}
	return c.JSON(user)
}

func UpdateUserAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}

	current := auth.CurrentUser(c)
	if !auth.IsAdminOrManager(current) && current.ID != int64(id) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	type UpdateUserRequest struct {
		Email     *string  `json:"email"`
		Username  *string  `json:"username"`
		Password  *string  `json:"password"`
		FirstName *string  `json:"first_name"`
		LastName  *string  `json:"last_name"`
		IsActive  *bool    `json:"is_active"`
		Roles     []string `json:"roles"`
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Only admins and managers may touch role assignments or activation.
	if !auth.IsAdminOrManager(current) && (req.Roles != nil || req.IsActive != nil) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	for _, role := range req.Roles {
		if !models.IsValidRole(role) {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown role: " + role})
		}
	}

	upd := &database.UserUpdate{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
		Roles:     req.Roles,
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
		}
		upd.Password = &hashed
	}

	db := config.GetDB()
	user, err := database.UpdateUser(db, int64(id), upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		if database.IsUniqueViolation(err) {
			return c.Status(400).JSON(fiber.Map{"error": "A user with this email or username already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}
	return c.JSON(user)
}

func DeleteUserAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}

	current := auth.CurrentUser(c)
	if current.ID == int64(id) {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot delete your own account"})
	}

	db := config.GetDB()
	if err := database.DeleteUser(db, int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	return c.SendStatus(204)
}
