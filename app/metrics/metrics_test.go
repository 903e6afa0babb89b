package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDBPingExposed(t *testing.T) {
	DBPing.Observe(0.002)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "coddycrm_db_ping_seconds_count 1") {
		t.Error("db ping histogram missing from exposition")
	}
}
