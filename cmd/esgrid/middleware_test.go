package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/esgrid/internal/logger"
)

func TestJSONRecoverer(t *testing.T) {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(zap.NewNop()))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "internal_error" {
		t.Errorf("body = %v", body)
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(zap.New(core)))
	r.Get("/api/v1/inventory/{id}", func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Info("handler")
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/42", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected handler and request lines, got %d", len(entries))
	}
	if entries[0].ContextMap()["request_id"] == "" {
		t.Error("handler logger must carry request_id")
	}
	line := entries[1].ContextMap()
	if line["route"] != "/api/v1/inventory/{id}" {
		t.Errorf("route = %v", line["route"])
	}
	if line["status"] != int64(http.StatusNotFound) {
		t.Errorf("status = %v (%T)", line["status"], line["status"])
	}
}
