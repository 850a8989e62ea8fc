package loadgen

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Delta generation bounds, in cents. Deltas land in [-50.00, +150.00] with
// two decimal places, skewed positive so most customers end up ranked.
const (
	deltaSpanCents   = 20000
	deltaOffsetCents = -5000
	deltaExponent    = -2
)

func randInt64(max int64) int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(max))
	return n.Int64()
}

// generateUpdates creates synthetic updates and the exact per-customer totals
// they should produce. Totals are the ground truth for verification.
func generateUpdates(cfg *Config) ([]Update, map[int64]decimal.Decimal) {
	updates := make([]Update, cfg.NumUpdates)
	totals := make(map[int64]decimal.Decimal, cfg.NumCustomers)

	for i := range updates {
		customerID := randInt64(int64(cfg.NumCustomers)) + 1
		delta := decimal.New(randInt64(deltaSpanCents)+deltaOffsetCents, deltaExponent)

		updates[i] = Update{
			UpdateID:   uuid.New().String(),
			CustomerID: customerID,
			Delta:      delta,
		}
		totals[customerID] = totals[customerID].Add(delta)
	}

	return updates, totals
}

// batches splits updates into chunks of at most size.
func batches(updates []Update, size int) [][]Update {
	if size <= 0 {
		size = 1
	}
	out := make([][]Update, 0, (len(updates)+size-1)/size)
	for start := 0; start < len(updates); start += size {
		end := start + size
		if end > len(updates) {
			end = len(updates)
		}
		out = append(out, updates[start:end])
	}
	return out
}
