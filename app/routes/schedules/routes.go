package schedules

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

func SetupSchedulesRoutes(app *fiber.App) {
	api := app.Group("/api/v1/schedules")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetSchedulesAPI)
	api.Post("/", auth.RequireOperation(auth.OpSchedulesCreate), CreateScheduleAPI)
	api.Get("/:id", GetScheduleAPI)
	api.Put("/:id", auth.RequireOperation(auth.OpSchedulesUpdate), UpdateScheduleAPI)
	api.Delete("/:id", auth.RequireOperation(auth.OpSchedulesDelete), DeleteScheduleAPI)
}
