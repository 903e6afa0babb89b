package groups

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
)

// Runs against a real Postgres instance, skipped unless TEST_DATABASE_URL
// is set. The handler reads the pool through config.GetDB, so the test
// installs a throwaway config for its lifetime.

func testApp(t *testing.T) (*fiber.App, *sql.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := config.AppConfig
	config.AppConfig = &config.Config{DB: db}
	t.Cleanup(func() { config.AppConfig = prev })

	app := fiber.New()
	app.Post("/api/v1/groups/:id/students", AddGroupStudentAPI)
	return app, db
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func newStudent(t *testing.T, db *sql.DB) *models.Student {
	t.Helper()
	name := uniq("stud")
	user := &models.User{
		Email:    name + "@test.local",
		Username: name,
		Password: "not-a-real-hash",
		IsActive: true,
	}
	if err := database.CreateUserWithRoles(db, user, []string{models.RoleStudent}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	s := &models.Student{UserID: user.ID}
	if err := database.CreateStudent(db, s); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return s
}

func addStudent(t *testing.T, app *fiber.App, groupID, studentID int64) int {
	t.Helper()
	body := fmt.Sprintf(`{"student_id": %d}`, studentID)
	req := httptest.NewRequest("POST",
		fmt.Sprintf("/api/v1/groups/%d/students", groupID),
		bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestAddGroupStudentCapacity(t *testing.T) {
	app, db := testApp(t)

	course := &models.Course{Title: uniq("course"), IsActive: true}
	if err := database.CreateCourse(db, course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	group := &models.Group{Name: uniq("group"), CourseID: course.ID, MaxStudents: 1, IsActive: true}
	if err := database.CreateGroup(db, group); err != nil {
		t.Fatalf("create group: %v", err)
	}
	first := newStudent(t, db)
	second := newStudent(t, db)

	if code := addStudent(t, app, group.ID, first.ID); code != 201 {
		t.Fatalf("first add = %d, want 201", code)
	}

	// Re-adding a member of a full group must succeed: the edge already
	// exists, so no seat is consumed.
	if code := addStudent(t, app, group.ID, first.ID); code != 201 {
		t.Errorf("re-add to full group = %d, want 201", code)
	}

	if code := addStudent(t, app, group.ID, second.ID); code != 400 {
		t.Errorf("add beyond capacity = %d, want 400", code)
	}

	linked, err := database.GroupStudentLinked(db, group.ID, first.ID)
	if err != nil || !linked {
		t.Errorf("GroupStudentLinked(first) = (%v, %v), want (true, nil)", linked, err)
	}
	linked, err = database.GroupStudentLinked(db, group.ID, second.ID)
	if err != nil || linked {
		t.Errorf("GroupStudentLinked(second) = (%v, %v), want (false, nil)", linked, err)
	}
}
