package auth

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
)

// Protected operations. Each maps to its minimal allowed role set below;
// endpoints without an entry are ownership-gated in the handler instead.
const (
	OpUsersList   = "users.list"
	OpUsersCreate = "users.create"
	OpUsersDelete = "users.delete"

	OpStudentsList        = "students.list"
	OpStudentsCreate      = "students.create"
	OpStudentsDelete      = "students.delete"
	OpStudentParentAdd    = "students.parents.add"
	OpStudentParentRemove = "students.parents.remove"

	OpTeachersCreate = "teachers.create"
	OpTeachersDelete = "teachers.delete"

	OpParentsList         = "parents.list"
	OpParentsCreate       = "parents.create"
	OpParentsDelete       = "parents.delete"
	OpParentStudentAdd    = "parents.students.add"
	OpParentStudentRemove = "parents.students.remove"

	OpCoursesCreate = "courses.create"
	OpCoursesUpdate = "courses.update"
	OpCoursesDelete = "courses.delete"

	OpGroupsCreate       = "groups.create"
	OpGroupsUpdate       = "groups.update"
	OpGroupsDelete       = "groups.delete"
	OpGroupStudentAdd    = "groups.students.add"
	OpGroupStudentUpdate = "groups.students.update"
	OpGroupStudentRemove = "groups.students.remove"

	OpSchedulesCreate = "schedules.create"
	OpSchedulesUpdate = "schedules.update"
	OpSchedulesDelete = "schedules.delete"

	OpTasksCreate          = "tasks.create"
	OpTasksUpdate          = "tasks.update"
	OpTasksDelete          = "tasks.delete"
	OpTaskStudentTasksList = "tasks.student-tasks.list"
	OpStudentTasksCreate   = "student-tasks.create"
	OpStudentTasksGrade    = "student-tasks.grade"
	OpStudentTasksDelete   = "student-tasks.delete"
)

// Role chains. The staff hierarchy is declared explicitly per chain rather
// than derived from a rank order: parent is a sibling branch, not part of the
// admin > manager > teacher line.
var (
	adminOnly = []string{models.RoleAdmin}
	managerUp = []string{models.RoleAdmin, models.RoleManager}
	teacherUp = []string{models.RoleAdmin, models.RoleManager, models.RoleTeacher}
)

// operationRoles is the declarative operation → allowed-role-set table,
// built once at startup.
var operationRoles = map[string][]string{
	OpUsersList:   managerUp,
	OpUsersCreate: adminOnly,
	OpUsersDelete: adminOnly,

	OpStudentsList:        teacherUp,
	OpStudentsCreate:      managerUp,
	OpStudentsDelete:      adminOnly,
	OpStudentParentAdd:    managerUp,
	OpStudentParentRemove: managerUp,

	OpTeachersCreate: managerUp,
	OpTeachersDelete: adminOnly,

	OpParentsList:         managerUp,
	OpParentsCreate:       managerUp,
	OpParentsDelete:       adminOnly,
	OpParentStudentAdd:    managerUp,
	OpParentStudentRemove: managerUp,

	OpCoursesCreate: managerUp,
	OpCoursesUpdate: managerUp,
	OpCoursesDelete: adminOnly,

	OpGroupsCreate:       managerUp,
	OpGroupsUpdate:       managerUp,
	OpGroupsDelete:       adminOnly,
	OpGroupStudentAdd:    teacherUp,
	OpGroupStudentUpdate: teacherUp,
	OpGroupStudentRemove: teacherUp,

	OpSchedulesCreate: managerUp,
	OpSchedulesUpdate: teacherUp,
	OpSchedulesDelete: managerUp,

	OpTasksCreate:          teacherUp,
	OpTasksUpdate:          teacherUp,
	OpTasksDelete:          managerUp,
	OpTaskStudentTasksList: teacherUp,
	OpStudentTasksCreate:   teacherUp,
	OpStudentTasksGrade:    teacherUp,
	OpStudentTasksDelete:   teacherUp,
}

// AllowedRoles exposes the table for tests and introspection.
func AllowedRoles(op string) []string {
	return operationRoles[op]
}

// Allowed is the core role-gate decision: the principal passes when the
// intersection of their roles and the operation's allow list is non-empty.
func Allowed(user *models.User, op string) bool {
	roles, ok := operationRoles[op]
	if !ok {
		return false
	}
	for _, name := range roles {
		if user.HasRole(name) {
			return true
		}
	}
	return false
}

// RequireOperation gates a route on the operation table. Runs after
// AuthMiddleware; denial is 403, before any data is touched.
func RequireOperation(op string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
		}
		if !Allowed(user, op) {
			return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
		return c.Next()
	}
}

// IsStaff reports whether the user holds any cross-cutting staff role.
func IsStaff(user *models.User) bool {
	return user.HasRole(models.RoleAdmin) || user.HasRole(models.RoleManager) || user.HasRole(models.RoleTeacher)
}

func IsAdminOrManager(user *models.User) bool {
	return user.HasRole(models.RoleAdmin) || user.HasRole(models.RoleManager)
}

// CanModifyProfile gates profile writes: admin/manager, or the owning user.
// Teachers get broadened read visibility but no write access to profiles
// they do not own.
func CanModifyProfile(user *models.User, ownerUserID int64) bool {
	return IsAdminOrManager(user) || user.ID == ownerUserID
}

// CanAccessStudent is the ownership gate for a loaded student record:
// staff see everyone, a student sees their own profile, a parent sees
// students linked to their own parent profile.
func CanAccessStudent(db *sql.DB, user *models.User, student *models.Student) (bool, error) {
	if IsStaff(user) {
		return true, nil
	}
	if user.ID == student.UserID {
		return true, nil
	}
	if !user.HasRole(models.RoleParent) {
		return false, nil
	}
	profile, err := database.GetParentByUserID(db, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return database.StudentParentLinked(db, student.ID, profile.ID)
}

// CanAccessStudentTask allows staff, or the student owning the copy.
func CanAccessStudentTask(db *sql.DB, user *models.User, st *models.StudentTask) (bool, error) {
	if IsStaff(user) {
		return true, nil
	}
	if !user.HasRole(models.RoleStudent) {
		return false, nil
	}
	profile, err := database.GetStudentByUserID(db, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return profile.ID == st.StudentID, nil
}
