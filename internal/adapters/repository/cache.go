package repository

// Coherence between the customer store and the published ranking view.
//
// Writers mark the view stale with an atomic flag after every applied delta;
// readers rebuild lazily under a single mutex. The flag is cleared before
// enumeration begins, so a delta that lands mid-rebuild re-marks the view
// stale and the next read rebuilds again. A read that starts after a delta
// returned therefore always observes that delta: either the flag is still
// set, or the rebuild that cleared it started after the delta completed.

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/podium/pkg/metrics"
	"github.com/shopspring/decimal"
)

type viewCache struct {
	mu      sync.Mutex // serializes rebuilds; at most one in flight
	dirty   atomic.Bool
	current atomic.Pointer[View]
}

func newViewCache() *viewCache {
	c := &viewCache{}
	c.current.Store(emptyView())
	return c
}

// noteUpdate marks the published view stale. Called after every applied delta.
func (c *viewCache) noteUpdate() {
	c.dirty.Store(true)
}

// get returns a view reflecting all deltas completed before the call began.
// Clean reads are a single atomic pointer load.
func (c *viewCache) get(iterate func(yield func(customerID int64, score decimal.Decimal))) *View {
	if !c.dirty.Load() {
		return c.current.Load()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another reader may have rebuilt while we waited on the mutex.
	if !c.dirty.Load() {
		return c.current.Load()
	}

	// Clear before enumerating: concurrent writers re-set the flag and the
	// next read picks their deltas up.
	c.dirty.Store(false)

	start := time.Now()
	v := buildView(iterate)
	c.current.Store(v)

	ms := float64(time.Since(start).Microseconds()) / 1000.0
	metrics.RecordViewRebuild(ms)
	metrics.UpdateViewSize(v.Len())
	return v
}

// peek returns the currently published view without checking staleness.
func (c *viewCache) peek() *View {
	return c.current.Load()
}
