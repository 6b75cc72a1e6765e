// Package sectoragg computes an activity-level sector distribution from the
// activity's transactions.
//
// Counting transactions per sector would overweight many small payments;
// the aggregation here weights each transaction's sector split by the
// transaction's monetary value, so the distribution reflects where money
// actually flowed.
package sectoragg

import (
	"math"
	"sort"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
)

// normalizeThreshold is the allowed drift of the output distribution from
// 100 before it is rescaled.
const normalizeThreshold = 0.1

// AggregatedSector is one row of the computed distribution.
type AggregatedSector struct {
	SectorCode              string  `json:"sector_code"`
	SectorName              string  `json:"sector_name"`
	WeightedPercentage      float64 `json:"weighted_percentage"`
	SimpleAveragePercentage float64 `json:"simple_average_percentage"`
	TransactionCount        int     `json:"transaction_count"`
	TotalValue              float64 `json:"total_value"`
}

// Summary is the full aggregation result for one activity.
type Summary struct {
	Sectors               []AggregatedSector `json:"sectors"`
	TotalTransactionValue float64            `json:"total_transaction_value"`
	TransactionCount      int                `json:"transaction_count"`
}

// accumulator gathers per-sector running totals during the pass over
// transactions.
type accumulator struct {
	code          string
	name          string
	weightedValue float64
	sumPercent    float64
	txIDs         map[string]struct{}
}

// Aggregate computes the value-weighted sector distribution across the
// given transactions. It never fails: an empty input yields an empty
// summary, a transaction without sector lines contributes only to the
// totals, and a zero total value produces zero percentages rather than a
// division error. Upstream callers are responsible for rejecting
// nonsensical transaction values before they reach this point.
func Aggregate(txs []model.TransactionRecord) Summary {
	out := Summary{TransactionCount: len(txs)}
	if len(txs) == 0 {
		out.Sectors = []AggregatedSector{}
		return out
	}

	var order []string
	byCode := make(map[string]*accumulator)

	for _, tx := range txs {
		value := tx.USDValue()
		out.TotalTransactionValue += value

		for _, line := range tx.SectorLines {
			acc, ok := byCode[line.Code]
			if !ok {
				acc = &accumulator{code: line.Code, txIDs: make(map[string]struct{})}
				byCode[line.Code] = acc
				order = append(order, line.Code)
			}
			if acc.name == "" {
				acc.name = line.Name
			}
			acc.weightedValue += value * (line.Percentage / 100)
			acc.sumPercent += line.Percentage
			acc.txIDs[tx.ID] = struct{}{}
		}
	}

	sectors := make([]AggregatedSector, 0, len(order))
	for _, code := range order {
		acc := byCode[code]

		var weightedPct float64
		if out.TotalTransactionValue != 0 {
			weightedPct = acc.weightedValue / out.TotalTransactionValue * 100
		}
		simpleAvg := acc.sumPercent / float64(len(acc.txIDs))

		sectors = append(sectors, AggregatedSector{
			SectorCode:              acc.code,
			SectorName:              acc.name,
			WeightedPercentage:      round2(weightedPct),
			SimpleAveragePercentage: round2(simpleAvg),
			TransactionCount:        len(acc.txIDs),
			TotalValue:              round2(acc.weightedValue),
		})
	}

	// Stable sort keeps accumulation order on ties.
	sort.SliceStable(sectors, func(i, j int) bool {
		return sectors[i].WeightedPercentage > sectors[j].WeightedPercentage
	})

	out.Sectors = normalize(sectors)
	return out
}

// normalize rescales the distribution to sum to exactly 100 when rounding
// or inconsistent per-transaction splits pushed it off by more than the
// threshold. The output is a derived summary, not user-entered data, so
// this is the one place normalization is automatic.
func normalize(sectors []AggregatedSector) []AggregatedSector {
	if len(sectors) == 0 {
		return sectors
	}

	var sum float64
	for _, s := range sectors {
		sum += s.WeightedPercentage
	}
	if math.Abs(sum-100) <= normalizeThreshold || sum == 0 {
		return sectors
	}

	allocs := make([]allocation.Allocation, len(sectors))
	for i, s := range sectors {
		allocs[i] = allocation.Allocation{Code: s.SectorCode, Percentage: s.WeightedPercentage}
	}
	for i, a := range allocation.Rescale(allocs) {
		sectors[i].WeightedPercentage = round2(a.Percentage)
	}
	return sectors
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
