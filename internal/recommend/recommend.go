// Package recommend ranks catalog instruments for one user.
//
// A run filters the catalog by risk tolerance, scores every remaining
// instrument, drops those below MinSuitability, sizes each survivor from
// the user's monthly surplus and target allocation, and orders the result
// by descending suitability (ties keep catalog order).
//
// Sizing floors the amount at the instrument's minimum investment, so a
// user with no surplus still sees the minimum for each instrument. That is
// "what you would need" guidance, not an affordability filter.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/allocation"
	"github.com/sanchay/advisor-engine/internal/model"
	"github.com/sanchay/advisor-engine/internal/suitability"
)

// MinSuitability is the lowest score an instrument may have and still be
// recommended.
const MinSuitability = 60

// AmountScale is the number of decimal places recommended amounts keep.
const AmountScale int32 = 2

var hundred = decimal.NewFromInt(100)

// Result is the output of one recommendation run.
type Result struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Allocation      model.Allocation       `json:"allocation"`
	AvailableAmount decimal.Decimal        `json:"available_amount"`
}

// Eligible reports whether an instrument's risk level is open to the
// given tolerance: conservative sees low only, moderate low and medium,
// aggressive everything.
func Eligible(tolerance model.RiskTolerance, level model.RiskLevel) bool {
	switch tolerance {
	case model.Conservative:
		return level == model.RiskLow
	case model.Moderate:
		return level == model.RiskLow || level == model.RiskMedium
	case model.Aggressive:
		return true
	}
	return false
}

// AvailableAmount is the monthly surplus, floored at zero when expenses
// exceed income.
func AvailableAmount(ctx model.FinancialContext) decimal.Decimal {
	return decimal.Max(ctx.Surplus(), decimal.Zero)
}

// Generate runs the recommendation pipeline over instruments, which must
// be in catalog order.
func Generate(instruments []model.Instrument, ctx model.FinancialContext) Result {
	alloc := allocation.Calculate(ctx.Age, ctx.RiskTolerance)
	available := AvailableAmount(ctx)

	recs := make([]model.Recommendation, 0, len(instruments))
	for _, inst := range instruments {
		if !Eligible(ctx.RiskTolerance, inst.RiskLevel) {
			continue
		}

		breakdown := suitability.Evaluate(inst, ctx)
		score := breakdown.Total()
		if score < MinSuitability {
			continue
		}

		pct := allocation.CategoryPercent(alloc, inst.Category)
		share := available.Mul(pct).Div(hundred).Round(AmountScale)
		amount := decimal.Max(share, inst.MinInvestment)
		if amount.LessThan(inst.MinInvestment) {
			continue
		}

		recs = append(recs, model.Recommendation{
			InvestmentType:    inst.Type,
			Name:              inst.Name,
			RecommendedAmount: amount,
			ExpectedReturn:    inst.ExpectedReturn,
			RiskLevel:         inst.RiskLevel,
			SuitabilityScore:  score,
			Reasoning:         reasoning(inst, ctx, breakdown, score, share.LessThan(inst.MinInvestment)),
			Pros:              inst.Pros,
			Cons:              inst.Cons,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].SuitabilityScore > recs[j].SuitabilityScore
	})

	return Result{
		Recommendations: recs,
		Allocation:      alloc,
		AvailableAmount: available,
	}
}

func reasoning(inst model.Instrument, ctx model.FinancialContext, b suitability.Breakdown, score int, floored bool) string {
	var parts []string
	if b.AgeRisk == 25 {
		parts = append(parts, fmt.Sprintf("%s risk suits your age (%d)", inst.RiskLevel, ctx.Age))
	}
	if b.Tolerance == 25 {
		parts = append(parts, fmt.Sprintf("matches your %s risk tolerance", ctx.RiskTolerance))
	}
	if b.SavingsRate >= 12 {
		parts = append(parts, "your savings rate supports regular investing")
	}
	if b.EmergencyFund == 1 {
		parts = append(parts, "build an emergency fund of 3-6 months first")
	}
	switch {
	case inst.LiquidityDays >= 365:
		parts = append(parts, fmt.Sprintf("money is locked for about %d years", inst.LiquidityDays/365))
	case inst.LiquidityDays <= 7:
		parts = append(parts, "funds are accessible within a week")
	}
	if floored {
		parts = append(parts, fmt.Sprintf("amount raised to the %s minimum", inst.MinInvestment))
	}

	head := fmt.Sprintf("%s scores %d/100 for your profile", inst.Name, score)
	if len(parts) == 0 {
		return head + "."
	}
	return head + ": " + strings.Join(parts, "; ") + "."
}
