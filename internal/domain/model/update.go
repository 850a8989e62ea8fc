// Package model contains domain models passed between layers.
package model

import (
	"github.com/shopspring/decimal"
)

// ScoreUpdate represents a signed score delta submitted for a customer.
// Fields mirror the JSON schema for POST /updates.
type ScoreUpdate struct {
	UpdateID   string          // unique id for idempotency
	CustomerID int64           // strictly positive customer identifier
	Delta      decimal.Decimal // signed delta, exact decimal
}

// CustomerScore captures a customer's current score.
type CustomerScore struct {
	CustomerID int64
	Score      decimal.Decimal
}
