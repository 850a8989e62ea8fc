// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	eventqueue "github.com/okian/podium/internal/adapters/mq/queue"
	workerpool "github.com/okian/podium/internal/adapters/mq/worker"
	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	mu sync.RWMutex

	// Core components
	leaderboard repository.Store
	deduper     dedupe.Deduper
	updateQueue eventqueue.Queue
	workerPool  *workerpool.Pool

	// Configuration
	shardCount  int
	workerCount int
	queueSize   int
	dedupeSize  int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithShardCount sets the number of shards in the customer store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the update queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		shardCount:  16,
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100000,
		dedupeSize:  50000,
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	// Initialize components
	s.leaderboard = repository.NewShardedStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.updateQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)

	// Create and start worker pool draining the queue into the store.
	s.workerPool = workerpool.NewPool(s.workerCount, s.updateQueue, s.leaderboard)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("shards", s.shardCount),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping leaderboard service...")

	if q, ok := s.updateQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if s.leaderboard != nil {
		if closer, ok := s.leaderboard.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// ApplyDelta synchronously applies a signed delta and returns the new score.
func (s *Service) ApplyDelta(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	return s.leaderboard.ApplyDelta(ctx, customerID, delta)
}

// SeenAndRecord atomically checks if an update id was seen and records it if not.
// Returns true if the update was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordUpdateDuplicate()
	}
	return seen
}

// Unrecord removes an update ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits an update for asynchronous processing.
// Returns false on backpressure.
func (s *Service) Enqueue(ctx context.Context, u model.ScoreUpdate) bool {
	s.logger.Debug(ctx, "enqueueing update",
		logger.String("updateID", u.UpdateID),
		logger.Int64("customerID", u.CustomerID),
		logger.String("delta", u.Delta.String()),
	)
	return s.updateQueue.Enqueue(ctx, u)
}

// Range returns the ranked customers with start <= rank <= end.
func (s *Service) Range(ctx context.Context, start, end int) ([]types.RankedCustomer, error) {
	entries, err := s.leaderboard.Range(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toAPI(entries), nil
}

// Neighbors returns the ranked window around customerID.
func (s *Service) Neighbors(ctx context.Context, customerID int64, high, low int) ([]types.RankedCustomer, error) {
	entries, err := s.leaderboard.Neighbors(ctx, customerID, high, low)
	if err != nil {
		return nil, err
	}
	return toAPI(entries), nil
}

// toAPI converts repository entries to the API projection.
func toAPI(entries []repository.Entry) []types.RankedCustomer {
	out := make([]types.RankedCustomer, len(entries))
	for i, e := range entries {
		out[i] = types.RankedCustomer{
			CustomerID: e.CustomerID,
			Score:      e.Score,
			Rank:       e.Rank,
		}
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"shardCount":  s.shardCount,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.updateQueue.Len(ctx)
		totalCustomers := s.leaderboard.Count(ctx)
		rankedCustomers := s.leaderboard.Size(ctx)

		stats["queueLength"] = queueLen
		stats["totalCustomers"] = totalCustomers
		stats["rankedCustomers"] = rankedCustomers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreCustomersTotal(totalCustomers)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
