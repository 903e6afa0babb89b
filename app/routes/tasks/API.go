package tasks

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

func GetTasksAPI(c *fiber.Ctx) error {
	db := config.GetDB()
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)

	if courseID := c.QueryInt("course_id", 0); courseID > 0 {
		tasks, err := database.GetTasksByCourse(db, int64(courseID), offset, limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
		}
		return c.JSON(tasks)
	}

	tasks, err := database.ListTasks(db, offset, limit, c.Query("sort_by"), c.QueryBool("sort_desc"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}

func GetUpcomingTasksAPI(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be positive"})
	}

	tasks, err := database.GetUpcomingTasks(config.GetDB(), days,
		c.QueryInt("offset", 0), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}

func CreateTaskAPI(c *fiber.Ctx) error {
	type CreateTaskRequest struct {
		Title       string     `json:"title"`
		Description *string    `json:"description"`
		CourseID    int64      `json:"course_id"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}
	if req.CourseID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "course_id is required"})
	}

	db := config.GetDB()
	exists, err := database.CourseExists(db, req.CourseID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch course"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		DueDate:     req.DueDate,
	}
	if err := database.CreateTask(db, task); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create task"})
	}
	return c.Status(201).JSON(task)
}

func GetTaskAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task id"})
	}

	task, err := database.GetTaskByID(config.GetDB(), int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch task"})
	}
	return c.JSON(task)
}

func UpdateTaskAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task id"})
	}

	var upd database.TaskUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if upd.Title != nil && *upd.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title must not be empty"})
	}

	db := config.GetDB()
	if upd.CourseID != nil {
		exists, err := database.CourseExists(db, *upd.CourseID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch course"})
		}
		if !exists {
			return c.Status(404).JSON(fiber.Map{"error": "Course not found"})
		}
	}

	task, err := database.UpdateTask(db, int64(id), &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update task"})
	}
	return c.JSON(task)
}

func DeleteTaskAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task id"})
	}

	if err := database.DeleteTask(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	return c.SendStatus(204)
}

func GetTaskStudentTasksAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task id"})
	}

	db := config.GetDB()
	exists, err := database.TaskExists(db, int64(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch task"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	status := c.Query("status")
	if status != "" && !models.IsValidTaskStatus(status) {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown status: " + status})
	}

	studentTasks, err := database.GetStudentTasksByTask(db, int64(id), status,
		c.QueryInt("offset", 0), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch student tasks"})
	}
	return c.JSON(studentTasks)
}

func CreateStudentTaskAPI(c *fiber.Ctx) error {
	type CreateStudentTaskRequest struct {
		StudentID int64   `json:"student_id"`
		TaskID    int64   `json:"task_id"`
		Status    *string `json:"status"`
	}

	var req CreateStudentTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.StudentID == 0 || req.TaskID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "student_id and task_id are required"})
	}
	if req.Status != nil && !models.IsValidTaskStatus(*req.Status) {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown status: " + *req.Status})
	}

	db := config.GetDB()
	exists, err := database.StudentExists(db, req.StudentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch student"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
	}
	exists, err = database.TaskExists(db, req.TaskID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch task"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	st := &models.StudentTask{
		StudentID: req.StudentID,
		TaskID:    req.TaskID,
	}
	if req.Status != nil {
		st.Status = *req.Status
	}
	if err := database.CreateStudentTask(db, st); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to assign task"})
	}
	return c.Status(201).JSON(st)
}

// loadStudentTask resolves :id and applies the ownership gate: staff or the
// student owning the copy.
func loadStudentTask(c *fiber.Ctx) (*models.StudentTask, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, c.Status(400).JSON(fiber.Map{"error": "Invalid student task id"})
	}

	db := config.GetDB()
	st, err := database.GetStudentTaskByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.Status(404).JSON(fiber.Map{"error": "Student task not found"})
		}
		return nil, c.Status(500).JSON(fiber.Map{"error": "Failed to fetch student task"})
	}

	ok, err := auth.CanAccessStudentTask(db, auth.CurrentUser(c), st)
	if err != nil {
		return nil, c.Status(500).JSON(fiber.Map{"error": "Failed to check permissions"})
	}
	if !ok {
		return nil, c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	return st, nil
}

func GetStudentTaskAPI(c *fiber.Ctx) error {
	st, err := loadStudentTask(c)
	if st == nil {
		return err
	}
	return c.JSON(st)
}

func UpdateStudentTaskAPI(c *fiber.Ctx) error {
	st, err := loadStudentTask(c)
	if st == nil {
		return err
	}

	var upd database.StudentTaskUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Grading fields belong to staff; students go through /submit.
	current := auth.CurrentUser(c)
	if !auth.IsStaff(current) && (upd.Grade != nil || upd.Feedback != nil) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	if upd.Status != nil && !models.IsValidTaskStatus(*upd.Status) {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown status: " + *upd.Status})
	}
	if upd.Grade != nil && (*upd.Grade < 0 || *upd.Grade > 100) {
		return c.Status(400).JSON(fiber.Map{"error": "grade must be between 0 and 100"})
	}

	updated, err := database.UpdateStudentTask(config.GetDB(), st.ID, &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Student task not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update student task"})
	}
	return c.JSON(updated)
}

func DeleteStudentTaskAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student task id"})
	}

	if err := database.DeleteStudentTask(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Student task not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete student task"})
	}
	return c.SendStatus(204)
}

func SubmitSolutionAPI(c *fiber.Ctx) error {
	st, err := loadStudentTask(c)
	if st == nil {
		return err
	}

	type SubmitRequest struct {
		Solution string `json:"solution"`
	}
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Solution == "" {
		return c.Status(400).JSON(fiber.Map{"error": "solution is required"})
	}

	updated, err := database.SubmitSolution(config.GetDB(), st.ID, req.Solution)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Student task not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to submit solution"})
	}
	return c.JSON(updated)
}

func GradeStudentTaskAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid student task id"})
	}

	type GradeRequest struct {
		Grade    *int    `json:"grade"`
		Feedback *string `json:"feedback"`
	}
	var req GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Grade == nil {
		return c.Status(400).JSON(fiber.Map{"error": "grade is required"})
	}
	if *req.Grade < 0 || *req.Grade > 100 {
		return c.Status(400).JSON(fiber.Map{"error": "grade must be between 0 and 100"})
	}

	updated, err := database.GradeStudentTask(config.GetDB(), int64(id), *req.Grade, req.Feedback)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Student task not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to grade student task"})
	}
	return c.JSON(updated)
}
