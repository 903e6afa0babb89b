package database

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

// These tests run against a real Postgres instance and are skipped unless
// TEST_DATABASE_URL is set. The schema is migrated on first connect.

func testDB(t *testing.T) *sql.DB {
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

	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func newUser(t *testing.T, db *sql.DB, tag string, roles ...string) *models.User {
	t.Helper()
	name := uniq(tag)
	user := &models.User{
		Email:    name + "@test.local",
		Username: name,
		Password: "not-a-real-hash",
		IsActive: true,
	}
	if err := CreateUserWithRoles(db, user, roles); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func newStudent(t *testing.T, db *sql.DB) *models.Student {
	t.Helper()
	user := newUser(t, db, "stud", models.RoleStudent)
	s := &models.Student{UserID: user.ID}
	if err := CreateStudent(db, s); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return s
}

func newParent(t *testing.T, db *sql.DB) *models.Parent {
	t.Helper()
	user := newUser(t, db, "par", models.RoleParent)
	p := &models.Parent{UserID: user.ID}
	if err := CreateParent(db, p); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	return p
}

func newCourse(t *testing.T, db *sql.DB) *models.Course {
	t.Helper()
	c := &models.Course{Title: uniq("course"), IsActive: true}
	if err := CreateCourse(db, c); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

func TestRoleAttachIdempotent(t *testing.T) {
	db := testDB(t)

	user := newUser(t, db, "roles", models.RoleStudent)

	// Replacing the role set with an overlapping one must not duplicate
	// edges or fail on the composite key.
	if _, err := UpdateUser(db, user.ID, &UserUpdate{Roles: []string{models.RoleStudent, models.RoleParent}}); err != nil {
		t.Fatalf("update roles: %v", err)
	}
	roles, err := GetUserRoles(db, user.ID)
	if err != nil {
		t.Fatalf("get roles: %v", err)
	}
	if len(roles) != 2 {
		t.Errorf("roles = %d, want 2", len(roles))
	}
}

func TestUserPartialUpdate(t *testing.T) {
	db := testDB(t)
	user := newUser(t, db, "upd")

	first := "Ada"
	updated, err := UpdateUser(db, user.ID, &UserUpdate{FirstName: &first})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Ada" {
		t.Errorf("FirstName = %q, want Ada", updated.FirstName)
	}
	if updated.Email != user.Email || updated.Username != user.Username {
		t.Error("untouched fields changed on partial update")
	}
}

func TestUpdateUserRolesOnlyMissing(t *testing.T) {
	db := testDB(t)

	// A roles-only payload skips the users UPDATE, so the missing row has
	// to be caught before the edge rewrite trips the foreign key.
	if _, err := UpdateUser(db, -1, &UserUpdate{Roles: []string{models.RoleStudent}}); err != ErrNotFound {
		t.Errorf("roles-only update of missing user = %v, want ErrNotFound", err)
	}
}

func TestDeleteUserMissing(t *testing.T) {
	db := testDB(t)
	if err := DeleteUser(db, -1); err != ErrNotFound {
		t.Errorf("DeleteUser(-1) = %v, want ErrNotFound", err)
	}
}

func TestStudentParentEdge(t *testing.T) {
	db := testDB(t)
	student := newStudent(t, db)
	parent := newParent(t, db)

	for i := 0; i < 2; i++ {
		ok, err := AddStudentParent(db, student.ID, parent.ID)
		if err != nil {
			t.Fatalf("link #%d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("link #%d reported missing endpoint", i+1)
		}
	}

	parents, err := GetStudentParents(db, student.ID)
	if err != nil {
		t.Fatalf("get parents: %v", err)
	}
	if len(parents) != 1 {
		t.Errorf("parents = %d, want 1 (idempotent link)", len(parents))
	}

	linked, err := StudentParentLinked(db, student.ID, parent.ID)
	if err != nil || !linked {
		t.Errorf("StudentParentLinked = (%v, %v), want (true, nil)", linked, err)
	}

	removed, err := RemoveStudentParent(db, student.ID, parent.ID)
	if err != nil || !removed {
		t.Fatalf("unlink = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = RemoveStudentParent(db, student.ID, parent.ID)
	if err != nil {
		t.Fatalf("second unlink: %v", err)
	}
	if removed {
		t.Error("second unlink reported an edge")
	}
}

func TestAddStudentParentMissingEndpoint(t *testing.T) {
	db := testDB(t)
	student := newStudent(t, db)

	ok, err := AddStudentParent(db, student.ID, -1)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if ok {
		t.Error("link to a missing parent reported success")
	}
}

func TestGroupStudentUpsert(t *testing.T) {
	db := testDB(t)
	course := newCourse(t, db)
	student := newStudent(t, db)

	group := &models.Group{Name: uniq("group"), CourseID: course.ID, MaxStudents: 10, IsActive: true}
	if err := CreateGroup(db, group); err != nil {
		t.Fatalf("create group: %v", err)
	}

	edge, err := UpsertGroupStudent(db, group.ID, student.ID, true)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !edge.IsActive {
		t.Error("first upsert: edge inactive")
	}
	joined := edge.JoinedAt

	// Re-adding flips attributes in place; the later call wins.
	edge, err = UpsertGroupStudent(db, group.ID, student.ID, false)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if edge.IsActive {
		t.Error("second upsert did not win")
	}
	if !edge.JoinedAt.Equal(joined) {
		t.Error("joined_at changed on re-add")
	}

	count, err := CountActiveGroupStudents(db, group.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("active count = %d, want 0", count)
	}

	if _, err := SetGroupStudentActive(db, group.ID, -1, true); err != ErrNotFound {
		t.Errorf("SetGroupStudentActive on missing edge = %v, want ErrNotFound", err)
	}

	removed, err := RemoveGroupStudent(db, group.ID, student.ID)
	if err != nil || !removed {
		t.Fatalf("remove = (%v, %v), want (true, nil)", removed, err)
	}
	removed, _ = RemoveGroupStudent(db, group.ID, student.ID)
	if removed {
		t.Error("second remove reported an edge")
	}
}

func TestSubmitGradeAndOverdue(t *testing.T) {
	db := testDB(t)
	course := newCourse(t, db)
	student := newStudent(t, db)

	due := time.Now().Add(-24 * time.Hour)
	task := &models.Task{Title: uniq("task"), CourseID: course.ID, DueDate: &due}
	if err := CreateTask(db, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	st := &models.StudentTask{StudentID: student.ID, TaskID: task.ID}
	if err := CreateStudentTask(db, st); err != nil {
		t.Fatalf("assign task: %v", err)
	}
	if st.Status != models.TaskStatusPending {
		t.Errorf("initial status = %q, want pending", st.Status)
	}

	st, err := SubmitSolution(db, st.ID, "my answer")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if st.Status != models.TaskStatusInProgress {
		t.Errorf("status after submit = %q, want in_progress", st.Status)
	}
	if st.SubmittedAt == nil {
		t.Error("submitted_at not set")
	}
	submittedAt := *st.SubmittedAt

	feedback := "solid work"
	st, err = GradeStudentTask(db, st.ID, 87, &feedback)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if st.Status != models.TaskStatusCompleted {
		t.Errorf("status after grade = %q, want completed", st.Status)
	}
	if st.Grade == nil || *st.Grade != 87 {
		t.Errorf("grade = %v, want 87", st.Grade)
	}
	if st.GradedAt == nil {
		t.Error("graded_at not set")
	}
	if st.SubmittedAt == nil || !st.SubmittedAt.Equal(submittedAt) {
		t.Error("grading touched submitted_at")
	}

	// A second pending copy of the past-due task gets swept to overdue;
	// the completed one stays completed.
	other := newStudent(t, db)
	pending := &models.StudentTask{StudentID: other.ID, TaskID: task.ID}
	if err := CreateStudentTask(db, pending); err != nil {
		t.Fatalf("assign second copy: %v", err)
	}

	marked, err := MarkOverdue(db)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if marked < 1 {
		t.Errorf("sweep marked %d rows, want at least 1", marked)
	}

	pending, err = GetStudentTaskByID(db, pending.ID)
	if err != nil {
		t.Fatalf("reload pending copy: %v", err)
	}
	if pending.Status != models.TaskStatusOverdue {
		t.Errorf("pending copy status = %q, want overdue", pending.Status)
	}

	st, err = GetStudentTaskByID(db, st.ID)
	if err != nil {
		t.Fatalf("reload graded copy: %v", err)
	}
	if st.Status != models.TaskStatusCompleted {
		t.Errorf("graded copy status = %q, want completed (sweep must skip it)", st.Status)
	}
}

func TestDuplicateProfileRejected(t *testing.T) {
	db := testDB(t)
	student := newStudent(t, db)

	dup := &models.Student{UserID: student.UserID}
	err := CreateStudent(db, dup)
	if err == nil {
		t.Fatal("second profile for the same user created")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("err = %v, want unique violation", err)
	}
}
