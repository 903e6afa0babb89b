package models

import "testing"

func TestIsValidRole(t *testing.T) {
	for _, name := range AllRoles {
		if !IsValidRole(name) {
			t.Errorf("IsValidRole(%q) = false", name)
		}
	}
	for _, name := range []string{"", "superuser", "Admin", "ADMIN"} {
		if IsValidRole(name) {
			t.Errorf("IsValidRole(%q) = true", name)
		}
	}
}

func TestIsValidTaskStatus(t *testing.T) {
	valid := []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusOverdue}
	for _, s := range valid {
		if !IsValidTaskStatus(s) {
			t.Errorf("IsValidTaskStatus(%q) = false", s)
		}
	}
	if IsValidTaskStatus("done") || IsValidTaskStatus("") {
		t.Error("unknown status accepted")
	}
}

func TestUserRoleHelpers(t *testing.T) {
	u := &User{Roles: []*Role{{Name: RoleAdmin}, {Name: RoleTeacher}}}
	if !u.HasRole(RoleAdmin) || u.HasRole(RoleParent) {
		t.Error("HasRole mismatch")
	}
	names := u.RoleNames()
	if len(names) != 2 || names[0] != RoleAdmin || names[1] != RoleTeacher {
		t.Errorf("RoleNames() = %v", names)
	}
}
