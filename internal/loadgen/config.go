// Package loadgen drives a running leaderboard instance with synthetic
// score updates and verifies the resulting ranking end to end.
package loadgen

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds configuration for a load generation run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumCustomers int           // Number of distinct customers to touch
	NumUpdates   int           // Number of score updates to generate
	BatchSize    int           // Updates per POST /updates request
	TopN         int           // Number of top entries to fetch and verify
	Workers      int           // Number of concurrent submit workers
	Timeout      time.Duration // HTTP request timeout
	Verbose      bool          // Enable verbose logging
}

// Update is a single synthetic score update.
type Update struct {
	UpdateID   string          `json:"update_id"`
	CustomerID int64           `json:"customer_id"`
	Delta      decimal.Decimal `json:"delta"`
}

// RankedCustomer mirrors the service's leaderboard entry shape.
type RankedCustomer struct {
	CustomerID int64           `json:"customer_id"`
	Score      decimal.Decimal `json:"score"`
	Rank       int32           `json:"rank"`
}

// BatchResult mirrors the POST /updates response body.
type BatchResult struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// Stats holds run statistics.
type Stats struct {
	UpdatesGenerated int
	UpdatesAccepted  int
	UpdatesDuplicate int
	UpdatesRejected  int
	BatchesFailed    int
	EntriesVerified  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
