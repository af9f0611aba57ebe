package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/response"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler takes named dependency checks. Nil checks are skipped.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	h := &HealthHandler{checks: make(map[string]Check, len(checks))}
	for name, c := range checks {
		if c != nil {
			h.checks[name] = c
		}
	}
	return h
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ready"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	response.WriteJSON(w, r, status, map[string]any{"status": overall, "checks": results})
}
