package tasks

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupTasksRoutes(app *fiber.App) {
	api := app.Group("/api/v1/tasks")
	api.Use(auth.AuthMiddleware)

	// Static prefixes are registered ahead of /:id so they are not captured
	// as task ids.
	api.Get("/upcoming", GetUpcomingTasksAPI)

	api.Post("/student-tasks", auth.RequireOperation(auth.OpStudentTasksCreate), CreateStudentTaskAPI)
	api.Get("/student-tasks/:id", GetStudentTaskAPI)
	api.Put("/student-tasks/:id", UpdateStudentTaskAPI)
	api.Delete("/student-tasks/:id", auth.RequireOperation(auth.OpStudentTasksDelete), DeleteStudentTaskAPI)
	api.Post("/student-tasks/:id/submit", SubmitSolutionAPI)
	api.Post("/student-tasks/:id/grade", auth.RequireOperation(auth.OpStudentTasksGrade), GradeStudentTaskAPI)

	api.Get("/", GetTasksAPI)
	api.Post("/", auth.RequireOperation(auth.OpTasksCreate), CreateTaskAPI)
	api.Get("/:id", GetTaskAPI)
	api.Put("/:id", auth.RequireOperation(auth.OpTasksUpdate), UpdateTaskAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpTasksDelete), DeleteTaskAPI)
	api.Get("/:id/student-tasks", auth.RequireOperation(auth.OpTaskStudentTasksList), GetTaskStudentTasksAPI)
}
