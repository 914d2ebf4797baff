package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a backend that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthCheck struct {
	name   string
	pinger Pinger
}

// HealthResponse reports the state of each backend
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// AddHealthCheck registers a backend for GET /api/health
func (h *Handlers) AddHealthCheck(name string, p Pinger) {
	h.checks = append(h.checks, healthCheck{name: name, pinger: p})
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.pinger.Ping(ctx); err != nil {
			resp.Checks[c.name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.name] = "ok"
	}

	respondJSON(w, status, resp)
}
