// Package httpx exposes the booking listing API over HTTP.
package httpx

import "net/http"

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs   JobListingService // Required
	Auth   SessionResolver   // Required
	Health map[string]HealthCheck
	// Optional: served at GET /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter creates and configures the HTTP router. Request-wide middleware
// is applied by the caller.
func NewRouter(services RouterServices) http.Handler {
	if services.Jobs == nil || services.Auth == nil {
		panic("httpx: Jobs and Auth services are required")
	}

	mux := http.NewServeMux()
	registerJobRoutes(mux, &JobHandlers{Svc: services.Jobs}, services.Auth)

	health := &HealthHandlers{Checks: services.Health}
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)
	if services.MetricsHandler != nil {
		mux.Handle("GET /metrics", services.MetricsHandler)
	}

	return mux
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers, auth SessionResolver) {
	requireSession := RequireSession(auth)
	mux.Handle("GET /api/jobs", requireSession(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/users/{id}/jobs", requireSession(http.HandlerFunc(h.UserJobs)))
	mux.Handle("GET /api/translators/{id}/jobs", requireSession(http.HandlerFunc(h.TranslatorJobs)))
}
