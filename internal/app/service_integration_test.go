package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/model"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

// waitForRanked polls until the customer appears in the ranked view or the
// deadline passes. Workers drain the queue asynchronously, so tests cannot
// assert on the view immediately after Enqueue.
func waitForRanked(ctx context.Context, svc *service.Service, customerID int64, wantScore string, deadline time.Duration) bool {
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		got, err := svc.Neighbors(ctx, customerID, 0, 0)
		if err == nil && len(got) == 1 && got[0].Score.String() == wantScore {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service with workers draining the queue", t, func() {
		svc := startedService(t,
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithDedupeSize(500),
			service.WithShardCount(4),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When enqueueing updates end-to-end", func() {
			updates := []model.ScoreUpdate{
				{UpdateID: "u-1", CustomerID: 10, Delta: decimal.NewFromInt(85)},
				{UpdateID: "u-2", CustomerID: 20, Delta: decimal.NewFromInt(90)},
				{UpdateID: "u-3", CustomerID: 10, Delta: decimal.RequireFromString("15.5")},
			}
			for _, u := range updates {
				So(svc.SeenAndRecord(ctx, u.UpdateID), ShouldBeFalse)
				So(svc.Enqueue(ctx, u), ShouldBeTrue)
			}

			Convey("Then the deltas should land in the ranked view", func() {
				So(waitForRanked(ctx, svc, 10, "100.5", 5*time.Second), ShouldBeTrue)
				So(waitForRanked(ctx, svc, 20, "90", 5*time.Second), ShouldBeTrue)

				got, err := svc.Range(ctx, 1, 2)
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].CustomerID, ShouldEqual, 10)
				So(got[1].CustomerID, ShouldEqual, 20)
			})
		})

		Convey("When enqueueing a burst of updates for one customer", func() {
			const n = 200
			for i := 0; i < n; i++ {
				u := model.ScoreUpdate{
					UpdateID:   fmt.Sprintf("burst-%d", i),
					CustomerID: 33,
					Delta:      decimal.RequireFromString("0.1"),
				}
				So(svc.Enqueue(ctx, u), ShouldBeTrue)
			}

			Convey("Then the final score should be exact", func() {
				So(waitForRanked(ctx, svc, 33, "20", 10*time.Second), ShouldBeTrue)
			})
		})
	})
}
