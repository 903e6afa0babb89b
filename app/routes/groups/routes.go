package groups

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupGroupsRoutes(app *fiber.App) {
	api := app.Group("/api/v1/groups")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetGroupsAPI)
	api.Post("/", auth.RequireOperation(auth.OpGroupsCreate), CreateGroupAPI)
	api.Get("/:id", GetGroupAPI)
	api.Put("/:id", auth.RequireOperation(auth.OpGroupsUpdate), UpdateGroupAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpGroupsDelete), DeleteGroupAPI)

	api.Get("/:id/students", GetGroupStudentsAPI)
	api.Post("/:id/students", auth.RequireOperation(auth.OpGroupStudentAdd), AddGroupStudentAPI)
	api.Put("/:id/students/:studentId", auth.RequireOperation(auth.OpGroupStudentUpdate), UpdateGroupStudentAPI)
	api.Delete("/:id/students/:studentId", auth.RequireOperation(auth.OpGroupStudentRemove), RemoveGroupStudentAPI)
}
