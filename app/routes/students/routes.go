package students

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupStudentsRoutes(app *fiber.App) {
	api := app.Group("/api/v1/students")
	api.Use(auth.AuthMiddleware)

	api.Get("/", auth.RequireOperation(auth.OpStudentsList), GetStudentsAPI)
	api.Post("/", auth.RequireOperation(auth.OpStudentsCreate), CreateStudentAPI)
	api.Get("/:id", GetStudentAPI)
	api.Put("/:id", UpdateStudentAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpStudentsDelete), DeleteStudentAPI)

	api.Get("/:id/parents", GetStudentParentsAPI)
	api.Post("/:id/parents", auth.RequireOperation(auth.OpStudentParentAdd), AddStudentParentAPI)
	api.Delete("/:id/parents/:parentId", auth.RequireOperation(auth.OpStudentParentRemove), RemoveStudentParentAPI)

	api.Get("/:id/tasks", GetStudentTasksAPI)
}
