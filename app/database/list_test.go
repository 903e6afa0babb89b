package database

import "testing"

func TestOrderBy(t *testing.T) {
	allowed := map[string]bool{"email": true, "created_at": true}

	cases := []struct {
		sortBy string
		desc   bool
		want   string
	}{
		{"email", false, "ORDER BY email ASC"},
		{"created_at", true, "ORDER BY created_at DESC"},
		{"", false, "ORDER BY id ASC"},
		{"password", false, "ORDER BY id ASC"},
		{"email; DROP TABLE users", true, "ORDER BY id DESC"},
	}
	for _, tc := range cases {
		if got := orderBy(tc.sortBy, tc.desc, allowed); got != tc.want {
			t.Errorf("orderBy(%q, %v) = %q, want %q", tc.sortBy, tc.desc, got, tc.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		offset, limit         int
		wantOffset, wantLimit int
	}{
		{0, 0, 0, 100},
		{-5, 50, 0, 50},
		{10, 2000, 10, 100},
		{3, 1000, 3, 1000},
	}
	for _, tc := range cases {
		gotOffset, gotLimit := clampPage(tc.offset, tc.limit)
		if gotOffset != tc.wantOffset || gotLimit != tc.wantLimit {
			t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.offset, tc.limit, gotOffset, gotLimit, tc.wantOffset, tc.wantLimit)
		}
	}
}
