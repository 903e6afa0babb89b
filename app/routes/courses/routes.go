package courses

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupCoursesRoutes(app *fiber.App) {
	api := app.Group("/api/v1/courses")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetCoursesAPI)
	api.Post("/", auth.RequireOperation(auth.OpCoursesCreate), CreateCourseAPI)
	api.Get("/:id", GetCourseAPI)
	api.Put("/:id", auth.RequireOperation(auth.OpCoursesUpdate), UpdateCourseAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpCoursesDelete), DeleteCourseAPI)

	api.Get("/:id/groups", GetCourseGroupsAPI)
	api.Get("/:id/tasks", GetCourseTasksAPI)
}
