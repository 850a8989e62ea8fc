package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/pkg/logger"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(10_000),
			service.WithDedupeSize(5_000),
			service.WithShardCount(2),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithShardCount(2), service.WithWorkerCount(2))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And a second start should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_ApplyDelta(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t, service.WithShardCount(2), service.WithWorkerCount(2))
		ctx := context.Background()

		Convey("When applying deltas synchronously", func() {
			s1, err1 := svc.ApplyDelta(ctx, 1, decimal.NewFromInt(100))
			s2, err2 := svc.ApplyDelta(ctx, 1, decimal.RequireFromString("-40.5"))

			Convey("Then scores should accumulate exactly", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(s1.String(), ShouldEqual, "100")
				So(s2.String(), ShouldEqual, "59.5")
			})
		})

		Convey("When applying an invalid delta", func() {
			_, err := svc.ApplyDelta(ctx, 1, decimal.RequireFromString("1000.01"))

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service with a few ranked customers", t, func() {
		svc := startedService(t, service.WithShardCount(2), service.WithWorkerCount(2))
		ctx := context.Background()

		mustApply := func(id int64, delta string) {
			_, err := svc.ApplyDelta(ctx, id, decimal.RequireFromString(delta))
			So(err, ShouldBeNil)
		}
		mustApply(1, "100")
		mustApply(2, "300")
		mustApply(3, "200")
		mustApply(4, "-50") // stays unranked

		Convey("When querying a rank range", func() {
			got, err := svc.Range(ctx, 1, 10)

			Convey("Then ranked customers should come back ordered and dense", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 3)
				So(got[0].CustomerID, ShouldEqual, 2)
				So(got[0].Rank, ShouldEqual, 1)
				So(got[1].CustomerID, ShouldEqual, 3)
				So(got[2].CustomerID, ShouldEqual, 1)
				So(got[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When querying a neighbor window", func() {
			got, err := svc.Neighbors(ctx, 3, 1, 1)

			Convey("Then it should include the target and both neighbors", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 3)
				So(got[1].CustomerID, ShouldEqual, 3)
			})
		})

		Convey("When querying a window for an unranked customer", func() {
			got, err := svc.Neighbors(ctx, 4, 2, 2)

			Convey("Then it should return an empty slice", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 0)
			})
		})

		Convey("When asking for stats", func() {
			stats := svc.GetStats()

			Convey("Then customer counts should be reported", func() {
				So(stats["totalCustomers"], ShouldEqual, 4)
				So(stats["rankedCustomers"], ShouldEqual, 3)
			})
		})
	})
}

func TestService_Dedupe(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t, service.WithShardCount(2), service.WithWorkerCount(2))
		ctx := context.Background()

		Convey("When recording the same update id twice", func() {
			first := svc.SeenAndRecord(ctx, "u-1")
			second := svc.SeenAndRecord(ctx, "u-1")

			Convey("Then only the second call should report it seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(svc.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an update id", func() {
			So(svc.SeenAndRecord(ctx, "u-2"), ShouldBeFalse)
			svc.Unrecord(ctx, "u-2")

			Convey("Then the id can be recorded again", func() {
				So(svc.SeenAndRecord(ctx, "u-2"), ShouldBeFalse)
			})
		})
	})
}
