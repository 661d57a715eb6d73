package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/model"
)

// Bucket names used in weights and drift reports.
const (
	BucketStocks     = "stocks"
	BucketBonds      = "bonds"
	BucketGovernment = "government"
	BucketBank       = "bank"
)

// Buckets lists the buckets in report order.
var Buckets = []string{BucketStocks, BucketGovernment, BucketBank, BucketBonds}

// Rebalance actions.
const (
	ActionIncrease = "increase"
	ActionReduce   = "reduce"
	ActionHold     = "hold"
)

// DriftBand is the tolerated deviation, in percentage points, before a
// bucket is flagged for rebalancing.
var DriftBand = decimal.NewFromInt(5)

// Holding is one position valued for weighting.
type Holding struct {
	Category model.Category
	Value    decimal.Decimal
}

// Deviation compares one bucket's current weight with its target.
type Deviation struct {
	Bucket        string          `json:"bucket"`
	CurrentWeight decimal.Decimal `json:"current_weight"`
	TargetWeight  decimal.Decimal `json:"target_weight"`
	Deviation     decimal.Decimal `json:"deviation"`
	Action        string          `json:"action"`
}

// BucketOf maps a category to its bucket. Bonds have their own bucket here
// even though Calculate folds them into fixed income.
func BucketOf(c model.Category) string {
	switch c {
	case model.CategoryGovernment:
		return BucketGovernment
	case model.CategoryBank:
		return BucketBank
	case model.CategoryBond:
		return BucketBonds
	default:
		return BucketStocks
	}
}

// Weights returns each bucket's share of the total value in percentage
// points, rounded to two places. An empty or zero-valued portfolio has
// all weights zero.
func Weights(holdings []Holding) map[string]decimal.Decimal {
	weights := make(map[string]decimal.Decimal, len(Buckets))
	for _, b := range Buckets {
		weights[b] = decimal.Zero
	}

	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value)
	}
	if !total.IsPositive() {
		return weights
	}

	for _, h := range holdings {
		b := BucketOf(h.Category)
		weights[b] = weights[b].Add(h.Value)
	}
	for b, v := range weights {
		weights[b] = v.Div(total).Mul(hundred).Round(2)
	}
	return weights
}

// Targets turns an allocation into per-bucket targets. The bonds target
// is the fixed-income headroom left after the government and bank caps.
func Targets(a model.Allocation) map[string]decimal.Decimal {
	residual := decimal.Max(a.Bonds.Sub(a.Government).Sub(a.Bank), decimal.Zero)
	return map[string]decimal.Decimal{
		BucketStocks:     a.Stocks,
		BucketGovernment: a.Government,
		BucketBank:       a.Bank,
		BucketBonds:      residual,
	}
}

// Drift reports, per bucket, the deviation of current from target weights.
func Drift(current map[string]decimal.Decimal, target model.Allocation) []Deviation {
	targets := Targets(target)
	out := make([]Deviation, 0, len(Buckets))
	for _, b := range Buckets {
		dev := current[b].Sub(targets[b])
		action := ActionHold
		switch {
		case dev.GreaterThan(DriftBand):
			action = ActionReduce
		case dev.LessThan(DriftBand.Neg()):
			action = ActionIncrease
		}
		out = append(out, Deviation{
			Bucket:        b,
			CurrentWeight: current[b],
			TargetWeight:  targets[b],
			Deviation:     dev,
			Action:        action,
		})
	}
	return out
}
