package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthEndpoints(t *testing.T) {
	r := newTestEngine()
	h := &HealthHandler{}
	h.Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d want=200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "trade-journal-api") {
		t.Fatalf("healthz should name the service: %s", w.Body.String())
	}

	// No database wired means not ready.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d want=503", w.Code)
	}
}
