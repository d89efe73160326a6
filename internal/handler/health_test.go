package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yescourses/yescourses-go/internal/handler"
	"github.com/yescourses/yescourses-go/internal/testutil"
)

func TestHealth(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	h := handler.NewHealthHandler(db)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHealthDegraded(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	cleanup() // close the database up front

	h := handler.NewHealthHandler(db)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"degraded"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}
