package groups

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

func GetGroupsAPI(c *fiber.Ctx) error {
	filters := database.GroupFilters{
		CourseID:   int64(c.QueryInt("course_id", 0)),
		TeacherID:  int64(c.QueryInt("teacher_id", 0)),
		ActiveOnly: c.QueryBool("active_only"),
	}

	groups, err := database.ListGroups(config.GetDB(), filters,
		c.QueryInt("offset", 0), c.QueryInt("limit", 100),
		c.Query("sort_by"), c.QueryBool("sort_desc"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch groups"})
	}
	return c.JSON(groups)
}

func CreateGroupAPI(c *fiber.Ctx) error {
	type CreateGroupRequest struct {
		Name        string     `json:"name"`
		CourseID    int64      `json:"course_id"`
		TeacherID   *int64     `json:"teacher_id"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
		MaxStudents *int       `json:"max_students"`
		Description *string    `json:"description"`
		IsActive    *bool      `json:"is_active"`
	}

	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	if req.CourseID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "course_id is required"})
	}
	if req.MaxStudents != nil && *req.MaxStudents <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "max_students must be positive"})
	}
	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		return c.Status(400).JSON(fiber.Map{"error": "start_date must be before end_date"})
	}

	db := config.GetDB()
	exists, err := database.CourseExists(db, req.CourseID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch course"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
	}
	if req.TeacherID != nil {
		exists, err := database.TeacherExists(db, *req.TeacherID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch teacher"})
		}
		if !exists {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
	}

	group := &models.Group{
		Name:        req.Name,
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxStudents: 10,
		Description: req.Description,
		IsActive:    true,
	}
	if req.MaxStudents != nil {
		group.MaxStudents = *req.MaxStudents
	}
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}

	if err := database.CreateGroup(db, group); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create group"})
	}
	return c.Status(201).JSON(group)
}

func GetGroupAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	db := config.GetDB()
	group, err := database.GetGroupByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	count, err := database.CountActiveGroupStudents(db, group.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to count students"})
	}
	return c.JSON(fiber.Map{
		"group":         group,
		"student_count": count,
	})
}

func UpdateGroupAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	db := config.GetDB()
	group, err := database.GetGroupByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	var upd database.GroupUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if upd.Name != nil && *upd.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name must not be empty"})
	}
	if upd.MaxStudents != nil && *upd.MaxStudents <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "max_students must be positive"})
	}

	// Date sanity holds across partial updates: a new start checks against
	// the stored end and vice versa.
	start := group.StartDate
	if upd.StartDate != nil {
		start = upd.StartDate
	}
	end := group.EndDate
	if upd.EndDate != nil {
		end = upd.EndDate
	}
	if start != nil && end != nil && !start.Before(*end) {
		return c.Status(400).JSON(fiber.Map{"error": "start_date must be before end_date"})
	}

	if upd.CourseID != nil {
		exists, err := database.CourseExists(db, *upd.CourseID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch course"})
		}
		if !exists {
			return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
		}
	}
	if upd.TeacherID != nil && *upd.TeacherID != 0 {
		exists, err := database.TeacherExists(db, *upd.TeacherID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch teacher"})
		}
		if !exists {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
	}

	updated, err := database.UpdateGroup(db, group.ID, &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update group"})
	}
	return c.JSON(updated)
}

func DeleteGroupAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	if err := database.DeleteGroup(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete group"})
	}
	return c.SendStatus(204)
}

func GetGroupStudentsAPI(c *fiber.Ctx) error {
	if !auth.IsStaff(auth.CurrentUser(c)) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	db := config.GetDB()
	exists, err := database.GroupExists(db, int64(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
	}

	students, err := database.GetGroupStudents(db, int64(id), c.QueryBool("active_only"),
		c.QueryInt("offset", 0), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

func AddGroupStudentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	type AddStudentRequest struct {
		StudentID int64 `json:"student_id"`
		IsActive  *bool `json:"is_active"`
	}
	var req AddStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.StudentID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "student_id is required"})
	}
	studentID := req.StudentID
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	db := config.GetDB()
	group, err := database.GetGroupByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}
	exists, err := database.StudentExists(db, studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch student"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
	}

	linked, err := database.GroupStudentLinked(db, group.ID, studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch membership"})
	}

	// Capacity only applies to genuinely new active members. Re-adding a
	// student who already holds an edge just refreshes the flag, so the call
	// stays repeatable even when the group is full.
	if isActive && !linked {
		count, err := database.CountActiveGroupStudents(db, group.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to count students"})
		}
		if count >= group.MaxStudents {
			return c.Status(400).JSON(fiber.Map{"error": "Group is full"})
		}
	}

	edge, err := database.UpsertGroupStudent(db, group.ID, studentID, isActive)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to add student to group"})
	}
	return c.Status(201).JSON(edge)
}

func UpdateGroupStudentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student id"})
	}

	type UpdateMembershipRequest struct {
		IsActive *bool `json:"is_active"`
	}
	var req UpdateMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.IsActive == nil {
		return c.Status(400).JSON(fiber.Map{"error": "is_active is required"})
	}

	edge, err := database.SetGroupStudentActive(config.GetDB(), int64(id), int64(studentID), *req.IsActive)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Student is not in this group"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update membership"})
	}
	return c.JSON(edge)
}

func RemoveGroupStudentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student id"})
	}

	removed, err := database.RemoveGroupStudent(config.GetDB(), int64(id), int64(studentID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to remove student from group"})
	}
	if !removed {
		return c.Status(404).JSON(fiber.Map{"error": "Student is not in this group"})
	}
	return c.SendStatus(204)
}
