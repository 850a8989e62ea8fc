// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// ScoreDependencies defines the interface for score update operations.
type ScoreDependencies interface {
	ApplyDelta(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error)
}

// ScoreHandler handles synchronous score update requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreResponse mirrors the JSON schema for POST /customer/{id}/score/{delta}.
type scoreResponse struct {
	CustomerID int64           `json:"customer_id"`
	Score      decimal.Decimal `json:"score"`
}

// HandlePostScore handles POST /customer/{id}/score/{delta} requests.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	vars := mux.Vars(r)

	customerID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || customerID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_customer_id", NewKind(op, ErrBadRequest))
		return
	}

	delta, err := decimal.NewFromString(vars["delta"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_delta", WrapKind(op, ErrBadRequest, err))
		return
	}

	score, err := h.deps.ApplyDelta(r.Context(), customerID, delta)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{CustomerID: customerID, Score: score})
}
