package teachers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

// The teacher listing is open to any authenticated user; detail reads and
// writes are restricted to admin/manager or the owning teacher.

func GetTeachersAPI(c *fiber.Ctx) error {
	teachers, err := database.ListTeachers(config.GetDB(),
		c.QueryInt("offset", 0), c.QueryInt("limit", 100),
		c.Query("sort_by"), c.QueryBool("sort_desc"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch teachers"})
	}
	return c.JSON(teachers)
}

func CreateTeacherAPI(c *fiber.Ctx) error {
	type CreateTeacherRequest struct {
		UserID          int64   `json:"user_id"`
		Specialization  *string `json:"specialization"`
		Bio             *string `json:"bio"`
		ExperienceYears int     `json:"experience_years"`
		Phone           *string `json:"phone"`
	}

	var req CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}
	if req.ExperienceYears < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "experience_years must not be negative"})
	}

	db := config.GetDB()
	exists, err := database.UserExists(db, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch user"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if _, err := database.GetTeacherByUserID(db, req.UserID); err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Teacher profile already exists for this user"})
	}

	teacher := &models.Teacher{
		UserID:          req.UserID,
		Specialization:  req.Specialization,
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
		Phone:           req.Phone,
	}
	if err := database.CreateTeacher(db, teacher); err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(400).JSON(fiber.Map{"error": "Teacher profile already exists for this user"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create teacher"})
	}
	return c.Status(201).JSON(teacher)
}

func GetTeacherAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	db := config.GetDB()
	teacher, err := database.GetTeacherByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch teacher"})
	}

	if !auth.CanModifyProfile(auth.CurrentUser(c), teacher.UserID) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	if user, err := database.GetUserByID(db, teacher.UserID); err == nil {
		teacher.User = user
	}
	return c.JSON(teacher)
}

func UpdateTeacherAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	db := config.GetDB()
	teacher, err := database.GetTeacherByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch teacher"})
	}

	if !auth.CanModifyProfile(auth.CurrentUser(c), teacher.UserID) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var upd database.TeacherUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if upd.ExperienceYears != nil && *upd.ExperienceYears < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "experience_years must not be negative"})
	}

	updated, err := database.UpdateTeacher(db, teacher.ID, &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update teacher"})
	}
	return c.JSON(updated)
}

func DeleteTeacherAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	if err := database.DeleteTeacher(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete teacher"})
	}
	return c.SendStatus(204)
}
