package schedules

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
)

// Days run 0 (Monday) through 6 (Sunday).
func validDay(day int) bool {
	return day >= 0 && day <= 6
}

func GetSchedulesAPI(c *fiber.Ctx) error {
	filters := database.ScheduleFilters{
		GroupID:    int64(c.QueryInt("group_id", 0)),
		ActiveOnly: c.QueryBool("active_only"),
	}
	if day := c.QueryInt("day_of_week", -1); day >= 0 {
		if !validDay(day) {
			return c.Status(400).JSON(fiber.Map{"error": "day_of_week must be between 0 and 6"})
		}
		filters.DayOfWeek = &day
	}

	schedules, err := database.ListSchedules(config.GetDB(), filters,
		c.QueryInt("offset", 0), c.QueryInt("limit", 100),
		c.Query("sort_by"), c.QueryBool("sort_desc"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch schedules"})
	}
	return c.JSON(schedules)
}

func CreateScheduleAPI(c *fiber.Ctx) error {
	type CreateScheduleRequest struct {
		GroupID   int64      `json:"group_id"`
		DayOfWeek *int       `json:"day_of_week"`
		StartTime *time.Time `json:"start_time"`
		EndTime   *time.Time `json:"end_time"`
		Room      *string    `json:"room"`
		IsActive  *bool      `json:"is_active"`
	}

	var req CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.GroupID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "group_id is required"})
	}
	if req.DayOfWeek == nil || !validDay(*req.DayOfWeek) {
		return c.Status(400).JSON(fiber.Map{"error": "day_of_week must be between 0 and 6"})
	}
	if req.StartTime == nil || req.EndTime == nil {
		return c.Status(400).JSON(fiber.Map{"error": "start_time and end_time are required"})
	}
	if !req.StartTime.Before(*req.EndTime) {
		return c.Status(400).JSON(fiber.Map{"error": "start_time must be before end_time"})
	}

	db := config.GetDB()
	exists, err := database.GroupExists(db, req.GroupID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
	}

	schedule := &models.Schedule{
		GroupID:   req.GroupID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
		Room:      req.Room,
		IsActive:  true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if err := database.CreateSchedule(db, schedule); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create schedule"})
	}
	return c.Status(201).JSON(schedule)
}

func GetScheduleAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid schedule id"})
	}

	schedule, err := database.GetScheduleByID(config.GetDB(), int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Schedule not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch schedule"})
	}
	return c.JSON(schedule)
}

func UpdateScheduleAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid schedule id"})
	}

	db := config.GetDB()
	schedule, err := database.GetScheduleByID(db, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "Schedule not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch schedule"})
	}

	var upd database.ScheduleUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if upd.DayOfWeek != nil && !validDay(*upd.DayOfWeek) {
		return c.Status(400).JSON(fiber.Map{"error": "day_of_week must be between 0 and 6"})
	}

	// The time window stays ordered even when only one side changes.
	start := schedule.StartTime
	if upd.StartTime != nil {
		start = *upd.StartTime
	}
	end := schedule.EndTime
	if upd.EndTime != nil {
		end = *upd.EndTime
	}
	if !start.Before(end) {
		return c.Status(400).JSON(fiber.Map{"error": "start_time must be before end_time"})
	}

	if upd.GroupID != nil {
		exists, err := database.GroupExists(db, *upd.GroupID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
		}
		if !exists {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
	}

	updated, err := database.UpdateSchedule(db, schedule.ID, &upd)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Schedule not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update schedule"})
	}
	return c.JSON(updated)
}

func DeleteScheduleAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid schedule id"})
	}

	if err := database.DeleteSchedule(config.GetDB(), int64(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Schedule not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete schedule"})
	}
	return c.SendStatus(204)
}
