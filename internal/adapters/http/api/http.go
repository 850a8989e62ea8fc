// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/shopspring/decimal"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ApplyDelta synchronously applies a signed delta and returns the new score.
	ApplyDelta(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error)

	// Enqueue pushes an update for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, u model.ScoreUpdate) bool

	// SeenAndRecord and Unrecord expose idempotency tracking for streamed updates.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// Read operations expose leaderboard data.
	Range(ctx context.Context, start, end int) ([]RankedCustomer, error)
	Neighbors(ctx context.Context, customerID int64, high, low int) ([]RankedCustomer, error)
}

// RankedCustomer mirrors the read shape returned by leaderboard queries.
type RankedCustomer = types.RankedCustomer

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	scoreHandler       *ScoreHandler
	leaderboardHandler *LeaderboardHandler
	neighborsHandler   *NeighborsHandler
	updatesHandler     *UpdatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRangeSpan int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		scoreHandler:       NewScoreHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxRangeSpan),
		neighborsHandler:   NewNeighborsHandler(deps),
		updatesHandler:     NewUpdatesHandler(deps),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/updates", MetricsMiddleware(s.updatesHandler.HandlePostUpdates, "updates")).Methods(http.MethodPost)
	r.HandleFunc("/customer/{id}/score/{delta}", MetricsMiddleware(s.scoreHandler.HandlePostScore, "score")).Methods(http.MethodPost)
	r.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard")).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard/{id}", MetricsMiddleware(s.neighborsHandler.HandleGetNeighbors, "neighbors")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isValidationError reports whether err is a core validation failure that
// should surface as 400 rather than 500.
func isValidationError(err error) bool {
	return errors.Is(err, repository.ErrDeltaOutOfRange) ||
		errors.Is(err, repository.ErrCustomerID) ||
		errors.Is(err, repository.ErrBadRange) ||
		errors.Is(err, repository.ErrBadWindow)
}
