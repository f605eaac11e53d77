package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ferryman/internal/folders"
	"ferryman/internal/models"
	"ferryman/internal/repository"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

type GroupDetail struct {
	*models.JobGroup
	Stats *models.GroupStats `json:"stats,omitempty"`
}

type GroupPreview struct {
	GroupID int64  `json:"group_id"`
	Date    string `json:"date"`
	Path    string `json:"path"`
}

func (h *Handlers) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get groups", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, groups, "")
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := h.lookupGroup(w, r)
	if !ok {
		return
	}

	stats, err := h.groups.GroupStats(group.ID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get group stats", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, GroupDetail{JobGroup: group, Stats: stats}, "")
}

// RunGroup runs the jobs of a group one after another. With wait=true the
// request blocks until the group finishes and returns the per-job entries;
// otherwise the run continues in the background.
func (h *Handlers) RunGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := h.lookupGroup(w, r)
	if !ok {
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		entries, err := h.groups.RunGroup(r.Context(), group.ID)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Failed to run group", err)
			return
		}
		h.writeSuccess(w, http.StatusOK, entries, "Group run finished")
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.groups.RunGroup(ctx, group.ID); err != nil {
			slog.Error("group run failed", "group_id", group.ID, "error", err)
		}
	}()

	h.writeSuccess(w, http.StatusAccepted, group, "Group run started")
}

// PreviewGroup shows the directory a group writes to on the given date
// (default today) under base (default the configured local path).
func (h *Handlers) PreviewGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := h.lookupGroup(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	ref := time.Now()
	if dateStr := query.Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
			return
		}
		ref = parsed
	}

	base := query.Get("base")
	if base == "" {
		base = h.config.GetTransfers().DefaultLocalPath
	}

	h.writeSuccess(w, http.StatusOK, GroupPreview{
		GroupID: group.ID,
		Date:    ref.Format(dateLayout),
		Path:    folders.GroupPreview(base, group, ref),
	}, "")
}

func (h *Handlers) lookupGroup(w http.ResponseWriter, r *http.Request) (*models.JobGroup, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid group ID", err)
		return nil, false
	}

	group, err := h.store.GetGroup(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Group not found", err)
		} else {
			h.writeError(w, http.StatusInternalServerError, "Failed to get group", err)
		}
		return nil, false
	}

	return group, true
}
