package repository

// Immutable ranking view.
//
// Ordering: score DESC, then customerID ASC (deterministic). The order is
// total because customer ids are unique. Only customers with a strictly
// positive score are ranked; ranks are the 1-based positions.

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// View is an immutable snapshot of the ranked customers. It is published
// as a whole and never mutated afterwards, so readers need no locking.
type View struct {
	entries []Entry
	index   map[int64]int // customerID -> position in entries
	builtAt time.Time
}

// buildView produces a View from the scores yielded by iterate. Customers
// with non-positive scores are excluded from ranking.
func buildView(iterate func(yield func(customerID int64, score decimal.Decimal))) *View {
	v := &View{builtAt: time.Now()}

	iterate(func(customerID int64, score decimal.Decimal) {
		if score.Sign() <= 0 {
			return
		}
		v.entries = append(v.entries, Entry{CustomerID: customerID, Score: score})
	})

	sort.Slice(v.entries, func(i, j int) bool {
		if c := v.entries[i].Score.Cmp(v.entries[j].Score); c != 0 {
			return c > 0 // higher score ranks earlier
		}
		return v.entries[i].CustomerID < v.entries[j].CustomerID // tie-breaker by id asc
	})

	v.index = make(map[int64]int, len(v.entries))
	for i := range v.entries {
		v.entries[i].Rank = int32(i + 1)
		v.index[v.entries[i].CustomerID] = i
	}
	return v
}

// emptyView returns a view with no entries, used before the first rebuild.
func emptyView() *View {
	return &View{index: map[int64]int{}, builtAt: time.Now()}
}

// Len returns the number of ranked customers.
func (v *View) Len() int {
	return len(v.entries)
}

// BuiltAt returns when the view was constructed.
func (v *View) BuiltAt() time.Time {
	return v.builtAt
}

// Slice returns the entries with start <= rank <= end. Ends beyond the last
// rank clamp silently; a start beyond the last rank yields an empty slice.
func (v *View) Slice(start, end int) ([]Entry, error) {
	if start < 1 || end < start {
		return nil, ErrBadRange
	}
	if start > len(v.entries) {
		return []Entry{}, nil
	}
	if end > len(v.entries) {
		end = len(v.entries)
	}
	out := make([]Entry, end-start+1)
	copy(out, v.entries[start-1:end])
	return out, nil
}

// Around returns the window centered on customerID: up to high entries with
// a better (numerically smaller) rank and low entries with a worse rank, in
// rank order. The target itself is always included. Customers that are not
// ranked yield an empty slice.
func (v *View) Around(customerID int64, high, low int) ([]Entry, error) {
	if high < 0 || low < 0 {
		return nil, ErrBadWindow
	}
	pos, ok := v.index[customerID]
	if !ok {
		return []Entry{}, nil
	}
	lo := pos - high
	if lo < 0 {
		lo = 0
	}
	hi := pos + low
	if hi > len(v.entries)-1 {
		hi = len(v.entries) - 1
	}
	out := make([]Entry, hi-lo+1)
	copy(out, v.entries[lo:hi+1])
	return out, nil
}
