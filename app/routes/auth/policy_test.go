package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/AziCodder/api-coddy-crm/app/models"
)

func userWith(roles ...string) *models.User {
	u := &models.User{ID: 1, Username: "tester", IsActive: true}
	for i, name := range roles {
		u.Roles = append(u.Roles, &models.Role{ID: int64(i + 1), Name: name})
	}
	return u
}

func TestAllowedRoleChains(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		op   string
		want bool
	}{
		{"admin passes admin-only", userWith(models.RoleAdmin), OpUsersDelete, true},
		{"manager fails admin-only", userWith(models.RoleManager), OpUsersDelete, false},
		{"manager passes manager chain", userWith(models.RoleManager), OpUsersList, true},
		{"teacher fails manager chain", userWith(models.RoleTeacher), OpUsersList, false},
		{"teacher passes teacher chain", userWith(models.RoleTeacher), OpStudentsList, true},
		{"student fails teacher chain", userWith(models.RoleStudent), OpStudentsList, false},
		{"parent fails teacher chain", userWith(models.RoleParent), OpStudentsList, false},
		{"parent is not part of the staff line", userWith(models.RoleParent), OpGroupStudentAdd, false},
		{"any matching role suffices", userWith(models.RoleParent, models.RoleTeacher), OpTasksCreate, true},
		{"no roles denies", userWith(), OpStudentsList, false},
	}

	for _, tc := range cases {
		if got := Allowed(tc.user, tc.op); got != tc.want {
			t.Errorf("%s: Allowed(%v, %q) = %v, want %v", tc.name, tc.user.RoleNames(), tc.op, got, tc.want)
		}
	}
}

func TestAllowedUnknownOperation(t *testing.T) {
	if Allowed(userWith(models.RoleAdmin), "nonsense.op") {
		t.Error("unknown operation must deny even admins")
	}
}

func TestOperationTableComplete(t *testing.T) {
	ops := []string{
		OpUsersList, OpUsersCreate, OpUsersDelete,
		OpStudentsList, OpStudentsCreate, OpStudentsDelete,
		OpStudentParentAdd, OpStudentParentRemove,
		OpTeachersCreate, OpTeachersDelete,
		OpParentsList, OpParentsCreate, OpParentsDelete,
		OpParentStudentAdd, OpParentStudentRemove,
		OpCoursesCreate, OpCoursesUpdate, OpCoursesDelete,
		OpGroupsCreate, OpGroupsUpdate, OpGroupsDelete,
		OpGroupStudentAdd, OpGroupStudentUpdate, OpGroupStudentRemove,
		OpSchedulesCreate, OpSchedulesUpdate, OpSchedulesDelete,
		OpTasksCreate, OpTasksUpdate, OpTasksDelete,
		OpTaskStudentTasksList, OpStudentTasksCreate, OpStudentTasksGrade, OpStudentTasksDelete,
	}
	for _, op := range ops {
		if len(AllowedRoles(op)) == 0 {
			t.Errorf("operation %q has no allowed roles", op)
		}
		if !Allowed(userWith(models.RoleAdmin), op) {
			t.Errorf("admin must pass every table entry, denied on %q", op)
		}
	}
}

func TestRequireOperation(t *testing.T) {
	newApp := func(user *models.User) *fiber.App {
		app := fiber.New()
		app.Get("/probe",
			func(c *fiber.Ctx) error {
				if user != nil {
					c.Locals("user", user)
				}
				return c.Next()
			},
			RequireOperation(OpUsersList),
			func(c *fiber.Ctx) error { return c.SendStatus(200) },
		)
		return app
	}

	cases := []struct {
		name string
		user *models.User
		want int
	}{
		{"no principal", nil, 401},
		{"denied role", userWith(models.RoleStudent), 403},
		{"allowed role", userWith(models.RoleManager), 200},
	}
	for _, tc := range cases {
		resp, err := newApp(tc.user).Test(httptest.NewRequest("GET", "/probe", nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if resp.StatusCode != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}
}

func TestStaffHelpers(t *testing.T) {
	if !IsStaff(userWith(models.RoleTeacher)) {
		t.Error("teacher is staff")
	}
	if IsStaff(userWith(models.RoleParent)) {
		t.Error("parent is not staff")
	}
	if IsAdminOrManager(userWith(models.RoleTeacher)) {
		t.Error("teacher is not admin or manager")
	}
	if !IsAdminOrManager(userWith(models.RoleManager)) {
		t.Error("manager check failed")
	}
}

func TestCanModifyProfile(t *testing.T) {
	teacher := userWith(models.RoleTeacher)
	teacher.ID = 7

	if CanModifyProfile(teacher, 42) {
		t.Error("teacher must not modify a profile they do not own")
	}
	if !CanModifyProfile(teacher, teacher.ID) {
		t.Error("owner must modify their own profile")
	}
	if !CanModifyProfile(userWith(models.RoleManager), 42) {
		t.Error("manager must modify any profile")
	}
	if !CanModifyProfile(userWith(models.RoleAdmin), 42) {
		t.Error("admin must modify any profile")
	}
	if CanModifyProfile(userWith(models.RoleParent), 42) {
		t.Error("parent must not modify a foreign profile")
	}
}
