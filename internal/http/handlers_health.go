package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const defaultHealthTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandlers serves the liveness and readiness probe.
type HealthHandlers struct {
	Checks  map[string]HealthCheck
	Timeout time.Duration
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health handles GET and HEAD /healthz. It reports 503 when any check fails.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	failures := h.run(ctx)
	code := http.StatusOK
	resp := healthResponse{Status: "ok"}
	if len(failures) > 0 {
		code = http.StatusServiceUnavailable
		resp = healthResponse{Status: "unavailable", Checks: failures}
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, resp)
}

func (h *HealthHandlers) run(ctx context.Context) map[string]string {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures map[string]string
	)
	for name, check := range h.Checks {
		if check == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := check(ctx); err != nil {
				mu.Lock()
				if failures == nil {
					failures = map[string]string{}
				}
				failures[name] = err.Error()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failures
}
