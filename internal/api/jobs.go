package api

import (
	"errors"
	"net/http"
	"strconv"

	"ferryman/internal/models"
	"ferryman/internal/repository"

	"github.com/gorilla/mux"
)

const defaultLogLimit = 20

func (h *Handlers) GetJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.JobFilter{}

	if statusStr := query.Get("status"); statusStr != "" {
		filter.Status = []models.JobStatus{models.JobStatus(statusStr)}
	}

	if groupStr := query.Get("group_id"); groupStr != "" {
		groupID, err := strconv.ParseInt(groupStr, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid group_id", err)
			return
		}
		filter.GroupID = &groupID
	}

	filter.Limit = 50
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 1000 {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	if sortBy := query.Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := query.Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	jobs, err := h.store.GetJobs(filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get jobs", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, jobs, "")
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookupJob(w, r)
	if !ok {
		return
	}

	if next, scheduled := h.scheduler.NextRun(job.ID); scheduled {
		job.NextRun = &next
	}

	h.writeSuccess(w, http.StatusOK, job, "")
}

// RunJob starts one execution in the background and answers at once.
func (h *Handlers) RunJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookupJob(w, r)
	if !ok {
		return
	}

	if job.Status == models.JobStatusRunning {
		h.writeError(w, http.StatusConflict, "Job is already running", nil)
		return
	}

	if err := h.scheduler.RunNow(job.ID); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "Failed to start job", err)
		return
	}

	h.writeSuccess(w, http.StatusAccepted, job, "Job run started")
}

func (h *Handlers) GetJobLogs(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookupJob(w, r)
	if !ok {
		return
	}

	limit := defaultLogLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l >= 0 {
			limit = l
		}
	}

	logs, err := h.store.GetJobLogs(job.ID, limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get job logs", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, logs, "")
}

func (h *Handlers) GetJobSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.GetJobSummary()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get job summary", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, summary, "")
}

func (h *Handlers) lookupJob(w http.ResponseWriter, r *http.Request) (*models.JobSpec, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid job ID", err)
		return nil, false
	}

	job, err := h.store.GetJob(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Job not found", err)
		} else {
			h.writeError(w, http.StatusInternalServerError, "Failed to get job", err)
		}
		return nil, false
	}

	return job, true
}
