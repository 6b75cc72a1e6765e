package sectoragg_test

import (
	"testing"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/sectoragg"
	. "github.com/smartystreets/goconvey/convey"
)

func usd(v float64) *float64 { return &v }

func TestAggregate(t *testing.T) {
	Convey("Given two transactions with overlapping sector splits", t, func() {
		txs := []model.TransactionRecord{
			{
				ID:          "t1",
				ValueAmount: 100000,
				ValueUSD:    usd(100000),
				SectorLines: []model.SectorLine{
					{Code: "11220", Name: "Primary education", Percentage: 60},
					{Code: "12240", Name: "Basic nutrition", Percentage: 40},
				},
			},
			{
				ID:          "t2",
				ValueAmount: 50000,
				ValueUSD:    usd(50000),
				SectorLines: []model.SectorLine{
					{Code: "11220", Name: "Primary education", Percentage: 100},
				},
			},
		}

		Convey("The distribution is value-weighted", func() {
			sum := sectoragg.Aggregate(txs)
			So(sum.TotalTransactionValue, ShouldEqual, 150000)
			So(sum.TransactionCount, ShouldEqual, 2)
			So(sum.Sectors, ShouldHaveLength, 2)

			education := sum.Sectors[0]
			nutrition := sum.Sectors[1]

			// 100000*0.6 + 50000*1.0 = 110000 of 150000
			So(education.SectorCode, ShouldEqual, "11220")
			So(education.TotalValue, ShouldEqual, 110000)
			So(education.WeightedPercentage, ShouldEqual, 73.33)
			So(education.TransactionCount, ShouldEqual, 2)
			// (60 + 100) / 2 transactions carrying the sector
			So(education.SimpleAveragePercentage, ShouldEqual, 80)

			// 100000*0.4 = 40000 of 150000
			So(nutrition.SectorCode, ShouldEqual, "12240")
			So(nutrition.TotalValue, ShouldEqual, 40000)
			So(nutrition.WeightedPercentage, ShouldEqual, 26.67)
			So(nutrition.SimpleAveragePercentage, ShouldEqual, 40)

			Convey("And the weighted percentages sum to 100", func() {
				var total float64
				for _, s := range sum.Sectors {
					total += s.WeightedPercentage
				}
				So(total, ShouldEqual, 100)
			})
		})
	})

	Convey("Given an empty transaction set", t, func() {
		Convey("The summary is empty, not an error", func() {
			sum := sectoragg.Aggregate(nil)
			So(sum.Sectors, ShouldBeEmpty)
			So(sum.TotalTransactionValue, ShouldEqual, 0)
			So(sum.TransactionCount, ShouldEqual, 0)
		})
	})

	Convey("Given transactions that all have zero value", t, func() {
		txs := []model.TransactionRecord{
			{ID: "t1", ValueAmount: 0, SectorLines: []model.SectorLine{{Code: "11220", Percentage: 100}}},
			{ID: "t2", ValueAmount: 0, SectorLines: []model.SectorLine{{Code: "12240", Percentage: 100}}},
		}

		Convey("Every weighted percentage is zero, never NaN", func() {
			sum := sectoragg.Aggregate(txs)
			So(sum.TotalTransactionValue, ShouldEqual, 0)
			for _, s := range sum.Sectors {
				So(s.WeightedPercentage, ShouldEqual, 0)
			}
		})
	})

	Convey("Given a transaction without sector lines", t, func() {
		txs := []model.TransactionRecord{
			{ID: "t1", ValueAmount: 70000, SectorLines: []model.SectorLine{{Code: "11220", Percentage: 100}}},
			{ID: "t2", ValueAmount: 30000},
		}

		Convey("It contributes to totals but not to any sector", func() {
			sum := sectoragg.Aggregate(txs)
			So(sum.TotalTransactionValue, ShouldEqual, 100000)
			So(sum.TransactionCount, ShouldEqual, 2)
			So(sum.Sectors, ShouldHaveLength, 1)
			So(sum.Sectors[0].WeightedPercentage, ShouldEqual, 70)
		})
	})

	Convey("Given a transaction without a converted USD value", t, func() {
		txs := []model.TransactionRecord{
			{ID: "t1", ValueAmount: 500, SectorLines: []model.SectorLine{{Code: "11220", Percentage: 100}}},
		}

		Convey("The face amount is used as fallback", func() {
			sum := sectoragg.Aggregate(txs)
			So(sum.TotalTransactionValue, ShouldEqual, 500)
		})
	})

	Convey("Given splits whose own sums drift from 100", t, func() {
		// Each transaction allocates only 90%, so raw weighted
		// percentages sum to 90 and must be renormalized.
		txs := []model.TransactionRecord{
			{ID: "t1", ValueAmount: 100, SectorLines: []model.SectorLine{
				{Code: "11220", Percentage: 60},
				{Code: "12240", Percentage: 30},
			}},
			{ID: "t2", ValueAmount: 100, SectorLines: []model.SectorLine{
				{Code: "11220", Percentage: 90},
			}},
		}

		Convey("The output distribution still sums to 100", func() {
			sum := sectoragg.Aggregate(txs)
			var total float64
			for _, s := range sum.Sectors {
				total += s.WeightedPercentage
			}
			So(total, ShouldAlmostEqual, 100, 0.011)
		})
	})

	Convey("Given sectors ordered by weight", t, func() {
		txs := []model.TransactionRecord{
			{ID: "t1", ValueAmount: 100, SectorLines: []model.SectorLine{
				{Code: "31110", Percentage: 20},
				{Code: "11220", Percentage: 50},
				{Code: "12240", Percentage: 30},
			}},
		}

		Convey("Output is sorted by weighted percentage descending", func() {
			sum := sectoragg.Aggregate(txs)
			So(sum.Sectors[0].SectorCode, ShouldEqual, "11220")
			So(sum.Sectors[1].SectorCode, ShouldEqual, "12240")
			So(sum.Sectors[2].SectorCode, ShouldEqual, "31110")
		})
	})

	Convey("Given tied weights", t, func() {
		txs := []model.TransactionRecord{
			{ID: "t1", ValueAmount: 100, SectorLines: []model.SectorLine{
				{Code: "22222", Percentage: 50},
				{Code: "11111", Percentage: 50},
			}},
		}

		Convey("Accumulation order breaks the tie", func() {
			sum := sectoragg.Aggregate(txs)
			So(sum.Sectors[0].SectorCode, ShouldEqual, "22222")
			So(sum.Sectors[1].SectorCode, ShouldEqual, "11111")
		})
	})
}
