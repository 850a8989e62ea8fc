// Package repository defines the ranking store interface and errors.
package repository

import "time"

// Option applies a configuration option to the ShardedStore.
type Option func(*ShardedStore)

// WithShardCount sets the number of shards splitting the customer space.
func WithShardCount(count int) Option {
	return func(s *ShardedStore) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *ShardedStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
