package repository

// Sharded, in-memory Store implementation.
//
// The primary mapping customerID -> score is split across a fixed array of
// lock-free concurrent maps; shard = |id| mod N. A delta is an atomic
// read-modify-write on its shard entry, so same-id deltas are linearizable
// and distinct ids never serialize against each other. Ranked reads go
// through the view cache, which lazily rebuilds an immutable snapshot.

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/podium/pkg/metrics"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/shopspring/decimal"
)

// Default store configuration constants.
const (
	defaultShardCount            = 16
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MaxAbsDelta bounds a single delta's magnitude.
var MaxAbsDelta = decimal.NewFromInt(1000)

// ShardedStore implements Store.
type ShardedStore struct {
	shards     []*xsync.Map[int64, decimal.Decimal]
	shardCount int
	cache      *viewCache

	metricsUpdateInterval time.Duration

	// Background goroutine management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewShardedStore constructs a sharded store with configuration options.
func NewShardedStore(ctx context.Context, opts ...Option) *ShardedStore {
	s := &ShardedStore{
		shardCount:            defaultShardCount,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		cache:                 newViewCache(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*xsync.Map[int64, decimal.Decimal], s.shardCount)
	for i := range s.shards {
		s.shards[i] = xsync.NewMap[int64, decimal.Decimal]()
	}

	s.stopChan = make(chan struct{})
	metrics.UpdateStoreShardCount(s.shardCount)
	s.startMetricsUpdater(ctx)

	return s
}

// shardFor selects the shard owning customerID.
func (s *ShardedStore) shardFor(customerID int64) *xsync.Map[int64, decimal.Decimal] {
	idx := customerID % int64(s.shardCount)
	if idx < 0 {
		idx = -idx
	}
	return s.shards[idx]
}

// ApplyDelta implements Store.ApplyDelta.
func (s *ShardedStore) ApplyDelta(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	start := time.Now()
	defer func() {
		metrics.RecordApplyLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if customerID <= 0 {
		metrics.RecordUpdateRejected()
		metrics.RecordErrorByComponent("repository", "bad_customer_id")
		return decimal.Decimal{}, ErrCustomerID
	}
	if delta.Abs().Cmp(MaxAbsDelta) > 0 {
		metrics.RecordUpdateRejected()
		metrics.RecordErrorByComponent("repository", "delta_out_of_range")
		return decimal.Decimal{}, ErrDeltaOutOfRange
	}

	// Atomic read-modify-write; absent customers start from the delta.
	newScore, _ := s.shardFor(customerID).Compute(customerID,
		func(old decimal.Decimal, loaded bool) (decimal.Decimal, xsync.ComputeOp) {
			if !loaded {
				return delta, xsync.UpdateOp
			}
			return old.Add(delta), xsync.UpdateOp
		})

	// Mark the view stale only after the store mutation is visible.
	s.cache.noteUpdate()
	metrics.RecordUpdateApplied()

	return newScore, nil
}

// Range implements Store.Range.
func (s *ShardedStore) Range(ctx context.Context, start, end int) ([]Entry, error) {
	t := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(t).Microseconds()) / 1000.0)
	}()

	entries, err := s.cache.get(s.iterate).Slice(start, end)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "bad_range")
		return nil, err
	}
	return entries, nil
}

// Neighbors implements Store.Neighbors.
func (s *ShardedStore) Neighbors(ctx context.Context, customerID int64, high, low int) ([]Entry, error) {
	t := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(t).Microseconds()) / 1000.0)
	}()

	entries, err := s.cache.get(s.iterate).Around(customerID, high, low)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "bad_window")
		return nil, err
	}
	return entries, nil
}

// Count returns the total number of customers, ranked or not.
func (s *ShardedStore) Count(ctx context.Context) int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Size()
	}
	return total
}

// Size returns the number of ranked customers in the published view.
func (s *ShardedStore) Size(ctx context.Context) int {
	return s.cache.peek().Len()
}

// iterate yields every customer with its score at the moment of the read.
// Each entry is read exactly once per enumeration.
func (s *ShardedStore) iterate(yield func(customerID int64, score decimal.Decimal)) {
	for _, shard := range s.shards {
		shard.Range(func(id int64, score decimal.Decimal) bool {
			yield(id, score)
			return true
		})
	}
}

// startMetricsUpdater starts a background goroutine that updates store metrics.
func (s *ShardedStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics updates all store-related metrics.
func (s *ShardedStore) updateMetrics() {
	total := 0
	for i, shard := range s.shards {
		n := shard.Size()
		total += n
		metrics.UpdateStoreCustomersPerShard("shard_"+strconv.Itoa(i), n)
	}
	metrics.UpdateStoreCustomersTotal(total)
	metrics.UpdateViewSize(s.cache.peek().Len())
}

// Close gracefully shuts down the background goroutine.
func (s *ShardedStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}
