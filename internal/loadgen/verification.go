package loadgen

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/podium/pkg/logger"
	"github.com/shopspring/decimal"
)

// expectedRanking derives the ground-truth leaderboard from the generated
// per-customer totals: positive scores only, ordered by score descending
// with customer id as tiebreaker.
func expectedRanking(totals map[int64]decimal.Decimal) []RankedCustomer {
	ranked := make([]RankedCustomer, 0, len(totals))
	for id, score := range totals {
		if score.Sign() <= 0 {
			continue
		}
		ranked = append(ranked, RankedCustomer{CustomerID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Score.Cmp(ranked[j].Score); c != 0 {
			return c > 0
		}
		return ranked[i].CustomerID < ranked[j].CustomerID
	})
	for i := range ranked {
		ranked[i].Rank = int32(i + 1)
	}
	return ranked
}

// verifyRanking compares the service's top N against the expected ranking
// and spot-checks one neighbor window.
func verifyRanking(ctx context.Context, cfg *Config, client *httpClient, totals map[int64]decimal.Decimal, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "verifying ranking", logger.Int("topN", cfg.TopN))

	want := expectedRanking(totals)
	wantTop := want
	if len(wantTop) > cfg.TopN {
		wantTop = wantTop[:cfg.TopN]
	}

	got, err := client.getLeaderboard(ctx, cfg.BaseURL, 1, cfg.TopN)
	if err != nil {
		return err
	}

	if len(got) != len(wantTop) {
		return fmt.Errorf("leaderboard size mismatch: got %d entries, want %d", len(got), len(wantTop))
	}
	for i, entry := range got {
		expect := wantTop[i]
		switch {
		case entry.CustomerID != expect.CustomerID:
			return fmt.Errorf("rank %d: got customer %d, want %d", i+1, entry.CustomerID, expect.CustomerID)
		case !entry.Score.Equal(expect.Score):
			return fmt.Errorf("rank %d: customer %d score %s, want %s", i+1, entry.CustomerID, entry.Score, expect.Score)
		case entry.Rank != expect.Rank:
			return fmt.Errorf("rank %d: got rank %d, want %d", i+1, entry.Rank, expect.Rank)
		}
	}
	stats.EntriesVerified = len(got)

	// Spot check: a window around the middle entry must be contiguous.
	if len(want) > 2 {
		mid := want[len(want)/2]
		window, err := client.getNeighbors(ctx, cfg.BaseURL, mid.CustomerID, 1, 1)
		if err != nil {
			return err
		}
		if len(window) == 0 {
			return fmt.Errorf("neighbor window for customer %d is empty", mid.CustomerID)
		}
		for i := 1; i < len(window); i++ {
			if window[i].Rank != window[i-1].Rank+1 {
				return fmt.Errorf("neighbor window for customer %d is not contiguous", mid.CustomerID)
			}
		}
	}

	log.Info(ctx, "ranking verified", logger.Int("entries", stats.EntriesVerified))
	return nil
}
