package parents

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

// loadParent resolves :id and gates access: staff see any parent, a parent
// sees only their own profile. Missing records report 404 first.
func loadParent(c *fiber.Ctx) (*models.Parent, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, c.Status(400).JSON(fiber.Map{"error": "Invalid parent id"})
	}

	db := config.GetDB()
	parent, err := database.GetParentByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.Status(404).JSON(fiber.Map{"error": "Parent not found"})
		}
		return nil, c.Status(500).JSON(fiber.Map{"error": "Failed to fetch parent"})
	}

	current := auth.CurrentUser(c)
	if !auth.IsStaff(current) && current.ID != parent.UserID {
		return nil, c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	return parent, nil
}

func GetParentsAPI(c *fiber.Ctx) error {
	parents, err := database.ListParents(config.GetDB(),
		c.QueryInt("offset", 0), c.QueryInt("limit", 100),
		c.Query("sort_by"), c.QueryBool("sort_desc"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch parents"})
	}
	return c.JSON(parents)
}

func CreateParentAPI(c *fiber.Ctx) error {
	type CreateParentRequest struct {
		UserID   int64   `json:"user_id"`
		Phone    *string `json:"phone"`
		AltPhone *string `json:"alt_phone"`
		Address  *string `json:"address"`
		Notes    *string `json:"notes"`
	}

	var req CreateParentRequest
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
	if _, err := database.GetParentByUserID(db, req.UserID); err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Parent profile already exists for this user"})
	}

	parent := &models.Parent{
		UserID:   req.UserID,
		Phone:    req.Phone,
		AltPhone: req.AltPhone,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := database.CreateParent(db, parent); err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(400).JSON(fiber.Map{"error": "Parent profile already exists for this user"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create parent"})
	}
	return c.Status(201).JSON(parent)
}

func GetParentAPI(c *fiber.Ctx) error {
	parent, err := loadParent(c)
	if parent == nil {
		return err
	}

	if user, err := database.GetUserByID(config.GetDB(), parent.UserID); err == nil {
		parent.User = user
	}
	return c.JSON(parent)
}

func UpdateParentAPI(c *fiber.Ctx) error {
	parent, err := loadParent(c)
	if parent == nil {
		return err
	}

	// Teachers can read parent profiles via the staff gate in loadParent
	// but may not write them.
	if !auth.CanModifyProfile(auth.CurrentUser(c), parent.UserID) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var upd database.ParentUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	updated, err := database.UpdateParent(config.GetDB(), parent.ID, &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Parent not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update parent"})
	}
	return c.JSON(updated)
}

func DeleteParentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid parent id"})
	}

	if err := database.DeleteParent(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Parent not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete parent"})
	}
	return c.SendStatus(204)
}

func GetParentStudentsAPI(c *fiber.Ctx) error {
	parent, err := loadParent(c)
	if parent == nil {
		return err
	}

	students, err := database.GetParentStudents(config.GetDB(), parent.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

func AddParentStudentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid parent id"})
	}

	type LinkStudentRequest struct {
		StudentID int64 `json:"student_id"`
	}
	var req LinkStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.StudentID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "student_id is required"})
	}

	ok, err := database.AddStudentParent(config.GetDB(), req.StudentID, int64(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to link student"})
	}
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Student or parent not found"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Student linked to parent"})
}

func RemoveParentStudentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid parent id"})
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student id"})
	}

	removed, err := database.RemoveStudentParent(config.GetDB(), int64(studentID), int64(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unlink student"})
	}
	if !removed {
		return c.Status(404).JSON(fiber.Map{"error": "Link not found"})
	}
	return c.SendStatus(204)
}
