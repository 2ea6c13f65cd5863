package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name     string
		method   string
		checks   map[string]HealthCheck
		wantCode int
		wantBody string
	}{
		{name: "no checks", method: http.MethodGet, wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{
			name:     "all healthy",
			method:   http.MethodGet,
			checks:   map[string]HealthCheck{"postgres": ok, "redis": ok},
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok"}`,
		},
		{
			name:     "redis down",
			method:   http.MethodGet,
			checks:   map[string]HealthCheck{"postgres": ok, "redis": down},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"unavailable","checks":{"redis":"connection refused"}}`,
		},
		{
			name:     "head has no body",
			method:   http.MethodHead,
			checks:   map[string]HealthCheck{"redis": down},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandlers{Checks: tt.checks}
			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody == "" {
				assert.Empty(t, w.Body.String())
				return
			}
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
