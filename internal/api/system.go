package api

import (
	"net/http"
	"time"

	"ferryman/internal/interfaces"
	"ferryman/internal/models"
)

var startTime = time.Now()

// Version is overridden at build time.
var Version = "dev"

type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// StatusResponse describes the service. Jobs is absent when the summary
// query fails, Destination when no default local path is configured.
type StatusResponse struct {
	Service     string                   `json:"service"`
	Version     string                   `json:"version"`
	Timestamp   time.Time                `json:"timestamp"`
	Uptime      string                   `json:"uptime"`
	Jobs        *models.JobSummary       `json:"jobs,omitempty"`
	Destination *interfaces.GateDecision `json:"destination,omitempty"`
}

// HealthCheck answers 503 when the database cannot be reached.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Uptime:    uptime(),
	}, "Service is healthy")
}

func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := StatusResponse{
		Service:   "ferryman",
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Uptime:    uptime(),
	}

	if summary, err := h.store.GetJobSummary(); err == nil {
		status.Jobs = summary
	}

	if path := h.config.GetTransfers().DefaultLocalPath; path != "" && h.gatekeeper != nil {
		decision := h.gatekeeper.CanWrite(path)
		status.Destination = &decision
	}

	h.writeSuccess(w, http.StatusOK, status, "")
}

func uptime() string {
	return time.Since(startTime).Round(time.Second).String()
}
