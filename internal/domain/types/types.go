// Package types contains common types used across the application
package types

import (
	"github.com/shopspring/decimal"
)

// RankedCustomer represents a leaderboard entry. Score marshals as a JSON
// string (shopspring default) so no precision is lost on the wire.
type RankedCustomer struct {
	CustomerID int64           `json:"customer_id"`
	Score      decimal.Decimal `json:"score"`
	Rank       int32           `json:"rank"`
}
