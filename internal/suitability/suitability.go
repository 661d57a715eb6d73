// Package suitability scores how well one instrument fits one user's
// financial situation.
//
// The score is the plain sum of six independently capped factors, clamped
// to [0, 100]:
//
//	age vs. instrument risk   0-25
//	risk tolerance fit        0-25
//	monthly income tier       0-20
//	savings rate tier         0-15
//	dependents tier           0-10
//	emergency fund tier       0-5
//
// Degenerate ratios never produce NaN: with zero income the savings rate
// is treated as the lowest tier, and with zero expenses the emergency fund
// is treated as adequate.
package suitability

import (
	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/model"
)

// MaxScore is the ceiling of a suitability score.
const MaxScore = 100

var (
	incomeHigh = decimal.NewFromInt(100000)
	incomeMid  = decimal.NewFromInt(50000)
	incomeLow  = decimal.NewFromInt(25000)

	savingsHigh = decimal.NewFromFloat(0.3)
	savingsMid  = decimal.NewFromFloat(0.2)
	savingsLow  = decimal.NewFromFloat(0.1)

	emergencyFull    = decimal.NewFromInt(6)
	emergencyPartial = decimal.NewFromInt(3)
)

// Breakdown holds the individual factor scores.
type Breakdown struct {
	AgeRisk       int `json:"age_risk"`
	Tolerance     int `json:"tolerance"`
	Income        int `json:"income"`
	SavingsRate   int `json:"savings_rate"`
	Dependents    int `json:"dependents"`
	EmergencyFund int `json:"emergency_fund"`
}

// Total sums the factors and clamps the result to [0, MaxScore].
func (b Breakdown) Total() int {
	sum := b.AgeRisk + b.Tolerance + b.Income + b.SavingsRate + b.Dependents + b.EmergencyFund
	return min(max(sum, 0), MaxScore)
}

// Score returns the suitability of inst for ctx.
func Score(inst model.Instrument, ctx model.FinancialContext) int {
	return Evaluate(inst, ctx).Total()
}

// Evaluate returns the per-factor scores of inst for ctx.
func Evaluate(inst model.Instrument, ctx model.FinancialContext) Breakdown {
	return Breakdown{
		AgeRisk:       AgeRiskScore(ctx.Age, inst.RiskLevel),
		Tolerance:     ToleranceScore(ctx.RiskTolerance, inst.RiskLevel),
		Income:        IncomeScore(ctx.MonthlyIncome),
		SavingsRate:   SavingsRateScore(ctx.MonthlyIncome, ctx.MonthlyExpenses),
		Dependents:    DependentsScore(ctx.Dependents),
		EmergencyFund: EmergencyFundScore(ctx.CurrentSavings, ctx.MonthlyExpenses),
	}
}

// AgeRiskScore favours riskier instruments for younger investors.
func AgeRiskScore(age int, level model.RiskLevel) int {
	switch {
	case age < 30:
		return pick(level, 15, 20, 25)
	case age < 50:
		return pick(level, 20, 25, 15)
	default:
		return pick(level, 25, 15, 10)
	}
}

// ToleranceScore rewards instruments matching the investor's risk appetite.
// Conservative investors only score low-risk instruments.
func ToleranceScore(tolerance model.RiskTolerance, level model.RiskLevel) int {
	switch tolerance {
	case model.Conservative:
		return pick(level, 25, 0, 0)
	case model.Moderate:
		return pick(level, 20, 25, 10)
	case model.Aggressive:
		return pick(level, 15, 20, 25)
	}
	return 0
}

// pick selects the score for a low, medium or high risk level.
func pick(level model.RiskLevel, low, medium, high int) int {
	switch level {
	case model.RiskLow:
		return low
	case model.RiskMedium:
		return medium
	case model.RiskHigh:
		return high
	}
	return 0
}

// IncomeScore rewards higher monthly income (0-20).
func IncomeScore(income decimal.Decimal) int {
	switch {
	case income.GreaterThanOrEqual(incomeHigh):
		return 20
	case income.GreaterThanOrEqual(incomeMid):
		return 15
	case income.GreaterThanOrEqual(incomeLow):
		return 10
	default:
		return 5
	}
}

// SavingsRate returns (income-expenses)/income. ok is false when income is
// not positive and the ratio is undefined.
func SavingsRate(income, expenses decimal.Decimal) (rate decimal.Decimal, ok bool) {
	if !income.IsPositive() {
		return decimal.Zero, false
	}
	return income.Sub(expenses).Div(income), true
}

// SavingsRateScore rewards the share of income left after expenses (0-15).
func SavingsRateScore(income, expenses decimal.Decimal) int {
	rate, ok := SavingsRate(income, expenses)
	switch {
	case !ok:
		return 3
	case rate.GreaterThanOrEqual(savingsHigh):
		return 15
	case rate.GreaterThanOrEqual(savingsMid):
		return 12
	case rate.GreaterThanOrEqual(savingsLow):
		return 8
	default:
		return 3
	}
}

// DependentsScore favours fewer dependents (0-10).
func DependentsScore(dependents int) int {
	switch {
	case dependents <= 0:
		return 10
	case dependents <= 2:
		return 7
	default:
		return 3
	}
}

// EmergencyMonths returns how many months of expenses savings cover. ok is
// false when expenses are not positive.
func EmergencyMonths(savings, expenses decimal.Decimal) (months decimal.Decimal, ok bool) {
	if !expenses.IsPositive() {
		return decimal.Zero, false
	}
	return savings.Div(expenses), true
}

// EmergencyFundScore rewards savings that cover months of expenses (0-5).
func EmergencyFundScore(savings, expenses decimal.Decimal) int {
	months, ok := EmergencyMonths(savings, expenses)
	switch {
	case !ok:
		return 5
	case months.GreaterThanOrEqual(emergencyFull):
		return 5
	case months.GreaterThanOrEqual(emergencyPartial):
		return 3
	default:
		return 1
	}
}
