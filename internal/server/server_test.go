package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lazypower/neverforget/internal/store"
)

var frozen = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := store.New(nil)
	st.SetClock(func() time.Time { return frozen })
	return New(st, nil, "test-version", 3), st
}

func addTask(t *testing.T, st *store.Store, in store.AddInput) store.TaskView {
	t.Helper()
	v, err := st.Add(in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
