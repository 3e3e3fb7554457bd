package observability

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// DatasetProbe reports whether a usable dataset is loaded. It returns the
// number of rows and the time of the last successful refresh.
type DatasetProbe func() (rows int, refreshedAt time.Time, err error)

// HealthChecker provides liveness and readiness probes
type HealthChecker struct {
	probe DatasetProbe
}

// NewHealthChecker creates a health checker backed by the given probe
func NewHealthChecker(probe DatasetProbe) *HealthChecker {
	return &HealthChecker{probe: probe}
}

// HealthStatus is the readiness probe response body
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	DatasetRows int       `json:"dataset_rows,omitempty"`
	RefreshedAt time.Time `json:"dataset_refreshed_at,omitempty"`
	Message     string    `json:"message,omitempty"`
}

// Liveness always reports healthy while the process is serving
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness reports healthy once a dataset has been loaded
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	code := http.StatusOK
	if h.probe == nil {
		status.Status = StatusUnhealthy
		status.Message = "no dataset probe configured"
		code = http.StatusServiceUnavailable
	} else if rows, refreshedAt, err := h.probe(); err != nil {
		status.Status = StatusUnhealthy
		status.Message = err.Error()
		code = http.StatusServiceUnavailable
	} else {
		status.DatasetRows = rows
		status.RefreshedAt = refreshedAt
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
