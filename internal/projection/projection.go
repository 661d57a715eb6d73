// Package projection computes compounding future-value trajectories.
//
// Growth is applied once per year: the year's contributions (monthly × 12)
// are added to the running value, and the total then grows by the annual
// rate. Contributions are not compounded monthly; this simplification of
// SIP math is kept so figures match what users have already been shown.
//
// All arithmetic is exact decimal. Reported values are rounded half-up to
// whole currency units; invested amounts are reported as given, and each
// return is the rounded value minus the invested amount, so
// Return == Value - Investment holds exactly for fractional inputs too.
package projection

import (
	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/model"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Project forecasts initial plus monthlyContribution growing at
// annualReturnPercent for years. A non-positive years yields an empty
// breakdown and a future value equal to the (rounded) initial amount.
func Project(initial, annualReturnPercent decimal.Decimal, years int, monthlyContribution decimal.Decimal) model.ProjectionResult {
	growth := one.Add(annualReturnPercent.Div(hundred))
	yearlyContribution := monthlyContribution.Mul(twelve)

	totalInvestment := initial
	value := initial
	breakdown := make([]model.YearlyProjection, 0, max(years, 0))

	for year := 1; year <= years; year++ {
		totalInvestment = totalInvestment.Add(yearlyContribution)
		value = value.Add(yearlyContribution).Mul(growth)
		rounded := RoundHalfUp(value)
		breakdown = append(breakdown, model.YearlyProjection{
			Year:       year,
			Investment: totalInvestment,
			Value:      rounded,
			Return:     rounded.Sub(totalInvestment),
		})
	}

	futureValue := RoundHalfUp(value)
	return model.ProjectionResult{
		FutureValue:     futureValue,
		TotalInvestment: totalInvestment,
		TotalReturn:     futureValue.Sub(totalInvestment),
		YearlyBreakdown: breakdown,
	}
}

// ProjectInstrument projects at the instrument's expected return.
func ProjectInstrument(inst model.Instrument, initial decimal.Decimal, years int, monthlyContribution decimal.Decimal) model.ProjectionResult {
	return Project(initial, inst.ExpectedReturn, years, monthlyContribution)
}

// RoundHalfUp rounds to the nearest integer with halves going up
// (towards +∞), so -2.5 becomes -2.
func RoundHalfUp(v decimal.Decimal) decimal.Decimal {
	return v.Add(half).Floor()
}
