package queue

import (
	"context"
	"testing"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/shopspring/decimal"
)

func upd(id string, customer int64, delta int64) model.ScoreUpdate {
	return model.ScoreUpdate{
		UpdateID:   id,
		CustomerID: customer,
		Delta:      decimal.NewFromInt(delta),
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, upd("u1", 1, 10)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	ch := q.Dequeue(ctx)
	got := <-ch
	if got.UpdateID != "u1" || got.CustomerID != 1 {
		t.Errorf("unexpected update: %+v", got)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Backpressure(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, upd("u1", 1, 1)) {
		t.Error("expected first enqueue to succeed")
	}
	if !q.Enqueue(ctx, upd("u2", 2, 1)) {
		t.Error("expected second enqueue to succeed")
	}
	if q.Enqueue(ctx, upd("u3", 3, 1)) {
		t.Error("expected enqueue to fail on full queue")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	q.Enqueue(ctx, upd("u1", 1, 1))
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if q.Enqueue(ctx, upd("u2", 2, 1)) {
		t.Error("expected enqueue to fail after close")
	}
	// Closing twice is a no-op.
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error on double close: %v", err)
	}

	// Buffered updates drain, then the channel closes.
	ch := q.Dequeue(ctx)
	select {
	case u, ok := <-ch:
		if !ok || u.UpdateID != "u1" {
			t.Errorf("expected buffered u1, got %+v ok=%v", u, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for buffered update")
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
