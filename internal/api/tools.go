package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ferryman/internal/scheduler"
	"ferryman/internal/selection"
)

type RollingRangeResponse struct {
	Pattern string    `json:"pattern"`
	Ref     string    `json:"ref"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

type CronValidation struct {
	Expression string `json:"expression"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
}

// GetRollingRange evaluates a rolling pattern at ref (default today). The
// custom pattern reads its day offsets from the from and to parameters.
func (h *Handlers) GetRollingRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	pattern := query.Get("pattern")
	if pattern == "" {
		h.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("pattern is required, one of: %s", strings.Join(selection.RollingPatterns, ", ")), nil)
		return
	}

	loc, err := h.config.GetScheduler().Location()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Invalid scheduler timezone", err)
		return
	}

	ref := time.Now().In(loc)
	if refStr := query.Get("ref"); refStr != "" {
		ref, err = time.ParseInLocation(dateLayout, refStr, loc)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid ref, expected YYYY-MM-DD", err)
			return
		}
	}

	offsetFrom, err := optionalInt(query.Get("from"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid from offset", err)
		return
	}
	offsetTo, err := optionalInt(query.Get("to"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid to offset", err)
		return
	}

	from, to, err := selection.RollingRange(pattern, ref, offsetFrom, offsetTo)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	h.writeSuccess(w, http.StatusOK, RollingRangeResponse{
		Pattern: pattern,
		Ref:     ref.Format(dateLayout),
		From:    from,
		To:      to,
	}, "")
}

// ValidateCron reports whether expr is a cron expression jobs can use.
// Invalid expressions are still a successful request.
func (h *Handlers) ValidateCron(w http.ResponseWriter, r *http.Request) {
	expr := r.URL.Query().Get("expr")
	if expr == "" {
		h.writeError(w, http.StatusBadRequest, "expr is required", nil)
		return
	}

	result := CronValidation{Expression: expr, Valid: true}
	if err := scheduler.ValidateCron(expr); err != nil {
		result.Valid = false
		result.Error = err.Error()
	}

	h.writeSuccess(w, http.StatusOK, result, "")
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
