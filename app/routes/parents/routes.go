package parents

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupParentsRoutes(app *fiber.App) {
	api := app.Group("/api/v1/parents")
	api.Use(auth.AuthMiddleware)

	api.Get("/", auth.RequireOperation(auth.OpParentsList), GetParentsAPI)
	api.Post("/", auth.RequireOperation(auth.OpParentsCreate), CreateParentAPI)
	api.Get("/:id", GetParentAPI)
	api.Put("/:id", UpdateParentAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpParentsDelete), DeleteParentAPI)

	api.Get("/:id/students", GetParentStudentsAPI)
	api.Post("/:id/students", auth.RequireOperation(auth.OpParentStudentAdd), AddParentStudentAPI)
	api.Delete("/:id/students/:studentId", auth.RequireOperation(auth.OpParentStudentRemove), RemoveParentStudentAPI)
}
