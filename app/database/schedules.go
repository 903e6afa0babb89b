package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

const scheduleColumns = `id, group_id, day_of_week, start_time, end_time, room, is_active, created_at, updated_at`

var scheduleSortColumns = map[string]bool{"group_id": true, "day_of_week": true, "start_time": true, "created_at": true}

func scanSchedule(row interface{ Scan(...interface{}) error }) (*models.Schedule, error) {
	s := &models.Schedule{}
	err := row.Scan(&s.ID, &s.GroupID, &s.DayOfWeek, &s.StartTime, &s.EndTime,
		&s.Room, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func GetScheduleByID(db *sql.DB, id int64) (*models.Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE id = $1`, scheduleColumns)
	return scanSchedule(db.QueryRow(query, id))
}

// ScheduleFilters narrows a schedule listing. DayOfWeek is a pointer because
// 0 (Monday) is a valid filter value.
type ScheduleFilters struct {
	GroupID    int64
	DayOfWeek  *int
	ActiveOnly bool
}

func ListSchedules(db *sql.DB, filters ScheduleFilters, offset, limit int, sortBy string, sortDesc bool) ([]*models.Schedule, error) {
	offset, limit = clampPage(offset, limit)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.GroupID != 0 {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", argIndex))
		args = append(args, filters.GroupID)
		argIndex++
	}
	if filters.DayOfWeek != nil {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", argIndex))
		args = append(args, *filters.DayOfWeek)
		argIndex++
	}
	if filters.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM schedules %s %s LIMIT $%d OFFSET $%d`,
		scheduleColumns, where, orderBy(sortBy, sortDesc, scheduleSortColumns), argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func CreateSchedule(db *sql.DB, s *models.Schedule) error {
	query := `INSERT INTO schedules (group_id, day_of_week, start_time, end_time, room, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, s.GroupID, s.DayOfWeek, s.StartTime, s.EndTime, s.Room, s.IsActive).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

type ScheduleUpdate struct {
	GroupID   *int64     `json:"group_id"`
	DayOfWeek *int       `json:"day_of_week"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Room      *string    `json:"room"`
	IsActive  *bool      `json:"is_active"`
}

func UpdateSchedule(db *sql.DB, id int64, upd *ScheduleUpdate) (*models.Schedule, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.GroupID != nil {
		addSet("group_id", *upd.GroupID)
	}
	if upd.DayOfWeek != nil {
		addSet("day_of_week", *upd.DayOfWeek)
	}
	if upd.StartTime != nil {
		addSet("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		addSet("end_time", *upd.EndTime)
	}
	if upd.Room != nil {
		addSet("room", *upd.Room)
	}
	if upd.IsActive != nil {
		addSet("is_active", *upd.IsActive)
	}

	if len(sets) == 0 {
		return GetScheduleByID(db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE schedules SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, scheduleColumns)
	args = append(args, id)

	s, err := scanSchedule(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

func DeleteSchedule(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
