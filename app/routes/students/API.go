package students

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

// loadStudent resolves :id and applies the ownership gate. The lookup runs
// first, so a missing student is 404 even for callers who could not have
// seen it.
func loadStudent(c *fiber.Ctx) (*models.Student, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, c.Status(400).JSON(fiber.Map{"error": "Invalid student id"})
	}

	db := config.GetDB()
	student, err := database.GetStudentByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return nil, c.Status(500).JSON(fiber.Map{"error": "Failed to fetch student"})
	}

	ok, err := auth.CanAccessStudent(db, auth.CurrentUser(c), student)
	if err != nil {
		return nil, c.Status(500).JSON(fiber.Map{"error": "Failed to check permissions"})
	}
	if !ok {
		return nil, c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	return student, nil
}

func GetStudentsAPI(c *fiber.Ctx) error {
	db := config.GetDB()
	students, err := database.ListStudents(db,
		c.QueryInt("offset", 0), c.QueryInt("limit", 100),
		c.Query("sort_by"), c.QueryBool("sort_desc"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

func CreateStudentAPI(c *fiber.Ctx) error {
	type CreateStudentRequest struct {
		UserID    int64      `json:"user_id"`
		BirthDate *time.Time `json:"birth_date"`
		Phone     *string    `json:"phone"`
		Address   *string    `json:"address"`
		Notes     *string    `json:"notes"`
	}

	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}

	db := config.GetDB()
	exists, err := database.UserExists(db, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch user"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if _, err := database.GetStudentByUserID(db, req.UserID); err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Student profile already exists for this user"})
	}

	student := &models.Student{
		UserID:    req.UserID,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
	}
	if err := database.CreateStudent(db, student); err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(400).JSON(fiber.Map{"error": "Student profile already exists for this user"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create student"})
	}
	return c.Status(201).JSON(student)
}

func GetStudentAPI(c *fiber.Ctx) error {
	student, err := loadStudent(c)
	if student == nil {
		return err
	}

	db := config.GetDB()
	user, err := database.GetUserByID(db, student.UserID)
	if err == nil {
		student.User = user
	}
	return c.JSON(student)
}

func UpdateStudentAPI(c *fiber.Ctx) error {
	student, err := loadStudent(c)
	if student == nil {
		return err
	}

	// Writes are narrower than reads: admin/manager or the student themself.
	// Teachers and parents see the profile but cannot change it.
	if !auth.CanModifyProfile(auth.CurrentUser(c), student.UserID) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var upd database.StudentUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	updated, err := database.UpdateStudent(config.GetDB(), student.ID, &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update student"})
	}
	return c.JSON(updated)
}

func DeleteStudentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student id"})
	}

	if err := database.DeleteStudent(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete student"})
	}
	return c.SendStatus(204)
}

func GetStudentParentsAPI(c *fiber.Ctx) error {
	student, err := loadStudent(c)
	if student == nil {
		return err
	}

	parents, err := database.GetStudentParents(config.GetDB(), student.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch parents"})
	}
	return c.JSON(parents)
}

func AddStudentParentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student id"})
	}

	type LinkParentRequest struct {
		ParentID int64 `json:"parent_id"`
	}
	var req LinkParentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.ParentID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "parent_id is required"})
	}

	ok, err := database.AddStudentParent(config.GetDB(), int64(id), req.ParentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to link parent"})
	}
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Student or parent not found"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Parent linked to student"})
}

func RemoveStudentParentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student id"})
	}
	parentID, err := c.ParamsInt("parentId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid parent id"})
	}

	removed, err := database.RemoveStudentParent(config.GetDB(), int64(id), int64(parentID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unlink parent"})
	}
	if !removed {
		return c.Status(404).JSON(fiber.Map{"error": "Link not found"})
	}
	return c.SendStatus(204)
}

func GetStudentTasksAPI(c *fiber.Ctx) error {
	student, err := loadStudent(c)
	if student == nil {
		return err
	}

	status := c.Query("status")
	if status != "" && !models.IsValidTaskStatus(status) {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown status: " + status})
	}

	tasks, err := database.GetStudentTasksByStudent(config.GetDB(), student.ID, status,
		c.QueryInt("offset", 0), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}
