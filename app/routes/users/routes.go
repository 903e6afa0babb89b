package users

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupUsersRoutes(app *fiber.App) {
	api := app.Group("/api/v1/users")
	api.Use(auth.AuthMiddleware)

	api.Get("/roles", auth.RequireOperation(auth.OpUsersList), GetRolesAPI)
	api.Get("/", auth.RequireOperation(auth.OpUsersList), GetUsersAPI)
	api.Post("/", auth.RequireOperation(auth.OpUsersCreate), CreateUserAPI)
	api.Get("/:id", GetUserAPI)
	api.Put("/:id", UpdateUserAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpUsersDelete), DeleteUserAPI)
}
