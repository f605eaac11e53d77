package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ferryman/internal/config"
	"ferryman/internal/interfaces"
	"ferryman/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the read side of the repository the API serves from.
type Store interface {
	GetJobs(filter models.JobFilter) ([]*models.JobSpec, error)
	GetJob(id int64) (*models.JobSpec, error)
	GetJobLogs(jobID int64, limit int) ([]*models.JobLog, error)
	GetJobSummary() (*models.JobSummary, error)
	ListGroups() ([]*models.JobGroup, error)
	GetGroup(id int64) (*models.JobGroup, error)
	Ping() error
}

type Handlers struct {
	config     *config.Config
	store      Store
	scheduler  interfaces.JobScheduler
	groups     interfaces.GroupRunner
	gatekeeper interfaces.Gatekeeper
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// NewHandlers wires the API. gatekeeper may be nil.
func NewHandlers(cfg *config.Config, store Store, scheduler interfaces.JobScheduler, groups interfaces.GroupRunner, gatekeeper interfaces.Gatekeeper) *Handlers {
	return &Handlers{
		config:     cfg,
		store:      store,
		scheduler:  scheduler,
		groups:     groups,
		gatekeeper: gatekeeper,
	}
}

func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Jobs
	api.HandleFunc("/jobs", h.GetJobs).Methods("GET")
	api.HandleFunc("/jobs/summary", h.GetJobSummary).Methods("GET")
	api.HandleFunc("/jobs/{id:[0-9]+}", h.GetJob).Methods("GET")
	api.HandleFunc("/jobs/{id:[0-9]+}/run", h.RunJob).Methods("POST")
	api.HandleFunc("/jobs/{id:[0-9]+}/logs", h.GetJobLogs).Methods("GET")

	// Groups
	api.HandleFunc("/groups", h.GetGroups).Methods("GET")
	api.HandleFunc("/groups/{id:[0-9]+}", h.GetGroup).Methods("GET")
	api.HandleFunc("/groups/{id:[0-9]+}/run", h.RunGroup).Methods("POST")
	api.HandleFunc("/groups/{id:[0-9]+}/preview", h.PreviewGroup).Methods("GET")

	// Tools
	api.HandleFunc("/rolling-range", h.GetRollingRange).Methods("GET")
	api.HandleFunc("/cron/validate", h.ValidateCron).Methods("GET")

	// System
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/status", h.GetStatus).Methods("GET")

	api.Use(corsMiddleware)
	api.Use(loggingMiddleware)
	api.Use(jsonContentTypeMiddleware)

	// mux skips middleware on a method mismatch, so the handler carries
	// its own chain. CORS answers preflight requests before the 405.
	api.MethodNotAllowedHandler = loggingMiddleware(corsMiddleware(jsonContentTypeMiddleware(http.HandlerFunc(h.methodNotAllowed))))
}

func (h *Handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}

func (h *Handlers) writeSuccess(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	respond(w, statusCode, APIResponse{Success: true, Data: data, Message: message})
}

// writeError logs err server side. Only message reaches the client.
func (h *Handlers) writeError(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		slog.Error("API error", "status", statusCode, "message", message, "error", err)
	} else {
		slog.Warn("API error", "status", statusCode, "message", message)
	}
	respond(w, statusCode, APIResponse{Error: message})
}

func respond(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "status", statusCode, "error", err)
	}
}
