package courses

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
)

// The course catalog is readable by any authenticated user.

func GetCoursesAPI(c *fiber.Ctx) error {
	courses, err := database.ListCourses(config.GetDB(),
		c.QueryInt("offset", 0), c.QueryInt("limit", 100),
		c.Query("sort_by"), c.QueryBool("sort_desc"),
		c.QueryBool("active_only"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch courses"})
	}
	return c.JSON(courses)
}

func CreateCourseAPI(c *fiber.Ctx) error {
	type CreateCourseRequest struct {
		Title         string  `json:"title"`
		Description   *string `json:"description"`
		DurationWeeks *int    `json:"duration_weeks"`
		Level         *string `json:"level"`
		Price         *int    `json:"price"`
		IsActive      *bool   `json:"is_active"`
	}

	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}
	if req.DurationWeeks != nil && *req.DurationWeeks <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "duration_weeks must be positive"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "price must not be negative"})
	}

	course := &models.Course{
		Title:         req.Title,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		Level:         req.Level,
		Price:         req.Price,
		IsActive:      true,
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := database.CreateCourse(config.GetDB(), course); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create course"})
	}
	return c.Status(201).JSON(course)
}

func GetCourseAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid course id"})
	}

	course, err := database.GetCourseByID(config.GetDB(), int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch course"})
	}
	return c.JSON(course)
}

func UpdateCourseAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid course id"})
	}

	var upd database.CourseUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if upd.Title != nil && *upd.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title must not be empty"})
	}
	if upd.DurationWeeks != nil && *upd.DurationWeeks <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "duration_weeks must be positive"})
	}
	if upd.Price != nil && *upd.Price < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "price must not be negative"})
	}

	course, err := database.UpdateCourse(config.GetDB(), int64(id), &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update course"})
	}
	return c.JSON(course)
}

func DeleteCourseAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid course id"})
	}

	if err := database.DeleteCourse(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete course"})
	}
	return c.SendStatus(204)
}

func GetCourseGroupsAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid course id"})
	}

	db := config.GetDB()
	exists, err := database.CourseExists(db, int64(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch course"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
	}

	groups, err := database.ListGroups(db,
		database.GroupFilters{CourseID: int64(id), ActiveOnly: c.QueryBool("active_only")},
		c.QueryInt("offset", 0), c.QueryInt("limit", 100),
		c.Query("sort_by"), c.QueryBool("sort_desc"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch groups"})
	}
	return c.JSON(groups)
}

func GetCourseTasksAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid course id"})
	}

	db := config.GetDB()
	exists, err := database.CourseExists(db, int64(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch course"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
	}

	tasks, err := database.GetTasksByCourse(db, int64(id),
		c.QueryInt("offset", 0), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}
