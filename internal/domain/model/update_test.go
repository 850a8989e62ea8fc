package model_test

import (
	"testing"

	"github.com/okian/podium/internal/domain/model"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScoreUpdate(t *testing.T) {
	Convey("Given a score update", t, func() {
		u := model.ScoreUpdate{
			UpdateID:   "u-1",
			CustomerID: 42,
			Delta:      decimal.RequireFromString("0.1"),
		}

		Convey("Then fields should round-trip", func() {
			So(u.UpdateID, ShouldEqual, "u-1")
			So(u.CustomerID, ShouldEqual, 42)
			So(u.Delta.String(), ShouldEqual, "0.1")
		})

		Convey("When summing many small deltas", func() {
			sum := decimal.Zero
			for i := 0; i < 10; i++ {
				sum = sum.Add(u.Delta)
			}

			Convey("Then the sum should be exact", func() {
				So(sum.Equal(decimal.NewFromInt(1)), ShouldBeTrue)
			})
		})
	})
}
