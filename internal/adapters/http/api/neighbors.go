// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// NeighborsDependencies defines the interface for neighbor window operations.
type NeighborsDependencies interface {
	Neighbors(ctx context.Context, customerID int64, high, low int) ([]RankedCustomer, error)
}

// NeighborsHandler handles neighbor window requests.
type NeighborsHandler struct {
	deps NeighborsDependencies
}

// NewNeighborsHandler creates a new neighbors handler.
func NewNeighborsHandler(deps NeighborsDependencies) *NeighborsHandler {
	return &NeighborsHandler{deps: deps}
}

// HandleGetNeighbors handles GET /leaderboard/{id}?high=H&low=L requests.
// high and low default to 0. An unranked id yields an empty array, not 404.
func (h *NeighborsHandler) HandleGetNeighbors(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_neighbors"
	vars := mux.Vars(r)

	customerID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || customerID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_customer_id", NewKind(op, ErrBadRequest))
		return
	}

	high, err := queryInt(r, "high", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_high", NewKind(op, ErrBadRequest))
		return
	}
	low, err := queryInt(r, "low", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_low", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.Neighbors(r.Context(), customerID, high, low)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, "bad_window", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
