package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/package-lab/pkg/middleware"
)

func TestTrimSlash(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{"root preserved", "/", http.StatusOK, ""},
		{"no slash", "/api/packages", http.StatusOK, ""},
		{"trailing slash", "/api/packages/", http.StatusMovedPermanently, "/api/packages"},
		{"query kept", "/api/packages/?a=1", http.StatusMovedPermanently, "/api/packages?a=1"},
	}

	handler := middleware.TrimSlash()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seen string
	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/packages", nil))

		id := rec.Header().Get(middleware.RequestIDHeader)
		if id == "" || id != seen {
			t.Errorf("response id = %q, context id = %q", id, seen)
		}
		if !strings.Contains(buf.String(), "status=418") {
			t.Errorf("log missing status: %s", buf.String())
		}
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/packages", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
			t.Errorf("response id = %q, want abc-123", got)
		}
		if seen != "abc-123" {
			t.Errorf("context id = %q, want abc-123", seen)
		}
	})
}
