package auth

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
)

func SetupAuthRoutes(app *fiber.App) {
	group := app.Group("/api/v1/auth")

	group.Post("/register", RegisterAPI)
	group.Post("/login", LoginAPI)

	group.Use(AuthMiddleware)
	group.Get("/me", MeAPI)
}

// AuthMiddleware resolves the bearer token into a principal. The user is
// reloaded from the database so a deleted or deactivated account is rejected
// even with a still-valid token.
func AuthMiddleware(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Could not validate credentials"})
	}

	db := config.GetDB()
	user, err := database.GetUserByUsername(db, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(401).JSON(fiber.Map{"error": "Could not validate credentials"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if !user.IsActive {
		return c.Status(403).JSON(fiber.Map{"error": "Inactive user"})
	}

	user.Roles, err = database.GetUserRoles(db, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to resolve roles"})
	}

	c.Locals("user", user)
	return c.Next()
}

// CurrentUser returns the principal set by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func RegisterAPI(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Email     string   `json:"email"`
		Username  string   `json:"username"`
		Password  string   `json:"password"`
		FirstName string   `json:"first_name"`
		LastName  string   `json:"last_name"`
		IsActive  *bool    `json:"is_active"`
		Roles     []string `json:"roles"`
	}

	var req RegisterRequest
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

	hashed, err := HashPassword(req.Password)
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
		// Concurrent registration with the same email/username loses the
		// race on the unique constraint; report it like the pre-check.
		if database.IsUniqueViolation(err) {
			return c.Status(400).JSON(fiber.Map{"error": "A user with this email or username already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create user"})
	}

	return c.Status(201).JSON(user)
}

// LoginAPI accepts form-encoded credentials (OAuth2 password flow shape) and
// returns a bearer token.
func LoginAPI(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	db := config.GetDB()
	user, err := database.GetUserByUsername(db, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(401).JSON(fiber.Map{"error": "Incorrect username or password"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if !CheckPasswordHash(password, user.Password) {
		return c.Status(401).JSON(fiber.Map{"error": "Incorrect username or password"})
	}

	roles, err := database.GetUserRoles(db, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to resolve roles"})
	}
	user.Roles = roles

	token, err := GenerateJWT(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func MeAPI(c *fiber.Ctx) error {
	return c.JSON(CurrentUser(c))
}
