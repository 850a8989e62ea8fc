// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and env vars on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory update queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of update workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the customer store.
	ShardCount int `koanf:"shard_count"`

	// MaxRangeSpan caps the number of entries one GET /leaderboard call may
	// request. Zero means unlimited.
	MaxRangeSpan int `koanf:"max_range_span"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		QueueSize:    100_000,
		WorkerCount:  runtime.NumCPU() * 2,
		DedupeSize:   50_000,
		ShardCount:   16,
		MaxRangeSpan: 0,
	}
}
