package teachers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupTeachersRoutes(app *fiber.App) {
	api := app.Group("/api/v1/teachers")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetTeachersAPI)
	api.Post("/", auth.RequireOperation(auth.OpTeachersCreate), CreateTeacherAPI)
	api.Get("/:id", GetTeacherAPI)
	api.Put("/:id", UpdateTeacherAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpTeachersDelete), DeleteTeacherAPI)
}
