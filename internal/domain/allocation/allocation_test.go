package allocation_test

import (
	"testing"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateSumTo100(t *testing.T) {
	Convey("Given an empty split", t, func() {
		Convey("It is vacuously valid with total 0", func() {
			res := allocation.ValidateSumTo100(nil)
			So(res.Valid, ShouldBeTrue)
			So(res.Total, ShouldEqual, 0)
			So(res.Warning, ShouldBeEmpty)
		})
	})

	Convey("Given a split summing to exactly 100", t, func() {
		allocs := []allocation.Allocation{
			{Code: "A", Percentage: 60},
			{Code: "B", Percentage: 40},
		}

		Convey("It is valid", func() {
			res := allocation.ValidateSumTo100(allocs)
			So(res.Valid, ShouldBeTrue)
			So(res.Total, ShouldEqual, 100)
		})
	})

	Convey("Given a split within tolerance", t, func() {
		allocs := []allocation.Allocation{
			{Code: "A", Percentage: 33.33},
			{Code: "B", Percentage: 33.33},
			{Code: "C", Percentage: 33.34},
		}

		Convey("It is valid", func() {
			res := allocation.ValidateSumTo100(allocs)
			So(res.Valid, ShouldBeTrue)
		})
	})

	Convey("Given a split summing to 50", t, func() {
		allocs := []allocation.Allocation{{Code: "A", Percentage: 50}}

		Convey("It is invalid and the warning names the actual total", func() {
			res := allocation.ValidateSumTo100(allocs)
			So(res.Valid, ShouldBeFalse)
			So(res.Total, ShouldEqual, 50)
			So(res.Warning, ShouldContainSubstring, "50")
		})
	})

	Convey("Given a custom tolerance", t, func() {
		allocs := []allocation.Allocation{
			{Code: "A", Percentage: 60},
			{Code: "B", Percentage: 39},
		}

		Convey("The default rejects a 1-point gap", func() {
			So(allocation.ValidateSumTo100(allocs).Valid, ShouldBeFalse)
		})

		Convey("A wider tolerance accepts it", func() {
			res := allocation.ValidateSumTo100(allocs, allocation.WithTolerance(1.5))
			So(res.Valid, ShouldBeTrue)
		})
	})
}

func TestRescale(t *testing.T) {
	Convey("Given a split summing to 50", t, func() {
		allocs := []allocation.Allocation{
			{Code: "A", Percentage: 30},
			{Code: "B", Percentage: 20},
		}

		Convey("Rescale forces the sum to 100 without mutating the input", func() {
			out := allocation.Rescale(allocs)
			So(out[0].Percentage, ShouldAlmostEqual, 60, 1e-9)
			So(out[1].Percentage, ShouldAlmostEqual, 40, 1e-9)
			So(allocs[0].Percentage, ShouldEqual, 30)
			So(allocs[1].Percentage, ShouldEqual, 20)
		})
	})

	Convey("Given a zero-sum split", t, func() {
		allocs := []allocation.Allocation{{Code: "A", Percentage: 0}}

		Convey("Rescale leaves it untouched", func() {
			out := allocation.Rescale(allocs)
			So(out[0].Percentage, ShouldEqual, 0)
		})
	})
}
