// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/model"
	"github.com/shopspring/decimal"
)

// UpdatesDependencies defines the interface for streamed update ingestion.
type UpdatesDependencies interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	Enqueue(ctx context.Context, u model.ScoreUpdate) bool
}

// UpdatesHandler handles batched asynchronous update requests.
type UpdatesHandler struct {
	deps UpdatesDependencies
}

// NewUpdatesHandler creates a new updates handler.
func NewUpdatesHandler(deps UpdatesDependencies) *UpdatesHandler {
	return &UpdatesHandler{deps: deps}
}

// updateRequest mirrors the JSON schema for POST /updates items.
type updateRequest struct {
	UpdateID   string          `json:"update_id"`
	CustomerID int64           `json:"customer_id"`
	Delta      decimal.Decimal `json:"delta"`
}

func (u updateRequest) validate() error {
	switch {
	case strings.TrimSpace(u.UpdateID) == "":
		return errors.New("missing update_id")
	case u.CustomerID <= 0:
		return errors.New("customer_id must be positive")
	case u.Delta.Abs().Cmp(repository.MaxAbsDelta) > 0:
		return errors.New("delta outside allowed range")
	}
	return nil
}

// batchResponse summarizes the fate of a posted batch.
type batchResponse struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// HandlePostUpdates handles POST /updates requests carrying a JSON array of
// score updates. Duplicates (by update_id) are dropped; backpressure rolls
// back the seen-mark so the update can be retried.
func (h *UpdatesHandler) HandlePostUpdates(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_updates"

	var batch []updateRequest
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(batch) == 0 {
		writeError(w, http.StatusBadRequest, "empty_batch", NewKind(op, ErrBadRequest))
		return
	}

	var resp batchResponse
	backpressured := 0
	for _, item := range batch {
		if err := item.validate(); err != nil {
			resp.Rejected++
			continue
		}
		if h.deps.SeenAndRecord(r.Context(), item.UpdateID) {
			resp.Duplicates++
			continue
		}
		ok := h.deps.Enqueue(r.Context(), model.ScoreUpdate{
			UpdateID:   item.UpdateID,
			CustomerID: item.CustomerID,
			Delta:      item.Delta,
		})
		if !ok {
			// Allow a retry of this update id.
			h.deps.Unrecord(r.Context(), item.UpdateID)
			resp.Rejected++
			backpressured++
			continue
		}
		resp.Accepted++
	}

	switch {
	case backpressured > 0 && resp.Accepted == 0:
		writeJSON(w, http.StatusTooManyRequests, resp)
	case resp.Accepted == 0 && resp.Duplicates == 0:
		writeJSON(w, http.StatusBadRequest, resp)
	default:
		writeJSON(w, http.StatusAccepted, resp)
	}
}
