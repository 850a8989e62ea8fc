package repository

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func benchStore(b *testing.B, customers int) *ShardedStore {
	b.Helper()
	ctx := context.Background()
	s := NewShardedStore(ctx)
	b.Cleanup(func() { _ = s.Close() })
	for i := 1; i <= customers; i++ {
		_, _ = s.ApplyDelta(ctx, int64(i), decimal.NewFromInt(int64(rand.Intn(1000)+1)))
	}
	return s
}

func BenchmarkApplyDelta(b *testing.B) {
	ctx := context.Background()
	s := benchStore(b, 100_000)
	delta := decimal.NewFromInt(1)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			_, _ = s.ApplyDelta(ctx, int64(r.Intn(100_000)+1), delta)
		}
	})
}

func BenchmarkRangeHot(b *testing.B) {
	ctx := context.Background()
	s := benchStore(b, 100_000)
	// Publish once so reads hit the cached view.
	_, _ = s.Range(ctx, 1, 1)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = s.Range(ctx, 1, 100)
		}
	})
}

func BenchmarkMixedWorkload(b *testing.B) {
	ctx := context.Background()
	s := benchStore(b, 100_000)
	delta := decimal.NewFromInt(1)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			id := int64(r.Intn(100_000) + 1)
			if r.Intn(10) == 0 { // 10% writes
				_, _ = s.ApplyDelta(ctx, id, delta)
				continue
			}
			if r.Intn(2) == 0 {
				_, _ = s.Range(ctx, 1, 50)
			} else {
				_, _ = s.Neighbors(ctx, id, 5, 5)
			}
		}
	})
}
