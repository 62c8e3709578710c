package rest

import (
	"context"
	"net/http"
	"time"
)

// ProbeFunc checks the active content backend's reachability.
type ProbeFunc func(ctx context.Context) error

type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	*BaseHandler
	version string
	probe   ProbeFunc
}

func NewHealthHandler(base *BaseHandler, version string, probe ProbeFunc) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     version,
		probe:       probe,
	}
}

// GetLiveness implements the liveness probe endpoint
// This is a lightweight check with no external dependencies
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONResponse(w, r, healthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
	}, http.StatusOK)
}

// GetReadiness implements the readiness probe endpoint
// This checks the active content backend
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	response := healthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
	}
	httpStatus := http.StatusOK

	if h.probe == nil {
		response.Status = "degraded"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response.Checks = map[string]string{}
		if err := h.probe(ctx); err != nil {
			response.Checks["backend"] = "down"
			response.Status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			response.Checks["backend"] = "up"
		}
	}

	h.WriteJSONResponse(w, r, response, httpStatus)
}
