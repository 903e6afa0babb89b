package schedules

import "testing"

func TestValidDay(t *testing.T) {
	for day := 0; day <= 6; day++ {
		if !validDay(day) {
			t.Errorf("validDay(%d) = false", day)
		}
	}
	for _, day := range []int{-1, 7, 100} {
		if validDay(day) {
			t.Errorf("validDay(%d) = true", day)
		}
	}
}
