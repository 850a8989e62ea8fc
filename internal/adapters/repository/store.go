// Package repository defines the ranking store interface and errors.
package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// Entry represents a leaderboard row.
type Entry struct {
	CustomerID int64
	Score      decimal.Decimal
	Rank       int32
}

// Store provides read/write access to the ranking state.
type Store interface {
	// ApplyDelta adds delta to the customer's score, creating the customer
	// on first update. Returns the resulting score. The read-modify-write
	// for a single id is atomic; concurrent deltas never lose updates.
	ApplyDelta(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error)

	// Range returns the ranked entries with start <= rank <= end.
	// An end beyond the last rank clamps silently.
	Range(ctx context.Context, start, end int) ([]Entry, error)

	// Neighbors returns the window around customerID: up to high entries
	// with a better rank and low entries with a worse rank, target included.
	// Returns an empty slice if the customer is not ranked.
	Neighbors(ctx context.Context, customerID int64, high, low int) ([]Entry, error)

	// Count returns the number of customers tracked in the store,
	// including those with non-positive scores.
	Count(ctx context.Context) int

	// Size returns the number of ranked customers in the current view.
	Size(ctx context.Context) int
}
