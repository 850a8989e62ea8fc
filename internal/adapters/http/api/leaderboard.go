// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// LeaderboardDependencies defines the interface for range query operations.
type LeaderboardDependencies interface {
	Range(ctx context.Context, start, end int) ([]RankedCustomer, error)
}

// LeaderboardHandler handles rank-range requests.
type LeaderboardHandler struct {
	deps         LeaderboardDependencies
	maxRangeSpan int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxRangeSpan int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:         deps,
		maxRangeSpan: maxRangeSpan,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?start=S&end=E requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"

	start, err := strconv.Atoi(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_start", NewKind(op, ErrBadRequest))
		return
	}
	end, err := strconv.Atoi(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_end", NewKind(op, ErrBadRequest))
		return
	}
	if h.maxRangeSpan > 0 && end >= start && end-start+1 > h.maxRangeSpan {
		writeError(w, http.StatusBadRequest, "span_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.Range(r.Context(), start, end)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, "bad_range", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
