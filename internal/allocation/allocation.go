// Package allocation derives target percentage splits from age and risk
// tolerance, and measures how far a portfolio has drifted from them.
//
// The equity share follows the "100 minus age" rule, shifted by 20 points
// for conservative and aggressive investors, and is always kept within
// [10, 80] (for moderate investors that only bites below 20 or above 90). The
// remaining fixed-income share is sliced into government (60%, capped at
// 40 points) and bank (40%, capped at 30 points). The buckets are not
// normalized after capping; callers must not assume they sum to 100.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/model"
)

var (
	hundred = decimal.NewFromInt(100)

	// ToleranceShift is how far conservative/aggressive move the equity share.
	ToleranceShift = decimal.NewFromInt(20)
	// MinEquity and MaxEquity bound the equity share for every tier.
	MinEquity = decimal.NewFromInt(10)
	MaxEquity = decimal.NewFromInt(80)

	governmentShare = decimal.NewFromFloat(0.6)
	bankShare       = decimal.NewFromFloat(0.4)
	governmentCap   = decimal.NewFromInt(40)
	bankCap         = decimal.NewFromInt(30)
)

// Calculate returns the target allocation for the given age and tolerance.
// The equity share is clamped to [MinEquity, MaxEquity] for every tier,
// moderate included, so a moderate investor aged 18 gets 80 rather than 82
// and one aged 95 gets 10 rather than 5.
func Calculate(age int, tolerance model.RiskTolerance) model.Allocation {
	equity := hundred.Sub(decimal.NewFromInt(int64(age)))

	switch tolerance {
	case model.Conservative:
		equity = decimal.Max(equity.Sub(ToleranceShift), MinEquity)
	case model.Aggressive:
		equity = decimal.Min(equity.Add(ToleranceShift), MaxEquity)
	}
	equity = decimal.Min(decimal.Max(equity, MinEquity), MaxEquity)

	fixedIncome := hundred.Sub(equity)
	return model.Allocation{
		Stocks:     equity,
		Bonds:      fixedIncome,
		Government: decimal.Min(fixedIncome.Mul(governmentShare), governmentCap),
		Bank:       decimal.Min(fixedIncome.Mul(bankShare), bankCap),
	}
}

// CategoryPercent maps an instrument category to its allocation share.
// Categories without a bucket of their own get DefaultPercent.
func CategoryPercent(a model.Allocation, c model.Category) decimal.Decimal {
	switch c {
	case model.CategoryGovernment:
		return a.Government
	case model.CategoryBank:
		return a.Bank
	case model.CategoryStock, model.CategoryMutualFund:
		return a.Stocks
	default:
		return DefaultPercent
	}
}

// DefaultPercent is the share used for categories outside the buckets.
var DefaultPercent = decimal.NewFromInt(10)
