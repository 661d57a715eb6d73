package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Accepted investor age range, inclusive.
const (
	MinAge = 18
	MaxAge = 100
)

// FinancialContext is the per-request input to suitability scoring and
// recommendation. Expenses may exceed income; scorers tolerate a negative
// savings rate.
type FinancialContext struct {
	Age             int             `json:"age" db:"age"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income" db:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses" db:"monthly_expenses"`
	CurrentSavings  decimal.Decimal `json:"current_savings" db:"current_savings"`
	Dependents      int             `json:"dependents" db:"dependents"`
	RiskTolerance   RiskTolerance   `json:"risk_tolerance" db:"risk_tolerance"`
}

// InvalidInputError reports a precondition violation on caller input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid is a shorthand for constructing an InvalidInputError.
func Invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// Validate checks the boundary preconditions. The scoring packages never
// call it; they normalize degenerate ratios instead.
func (c FinancialContext) Validate() error {
	if err := c.validateFields(); err != nil {
		return err
	}
	if !c.RiskTolerance.Valid() {
		return Invalid("risk_tolerance", "must be conservative, moderate or aggressive")
	}
	return nil
}

func (c FinancialContext) validateFields() error {
	if c.Age < MinAge || c.Age > MaxAge {
		return Invalid("age", fmt.Sprintf("must be between %d and %d", MinAge, MaxAge))
	}
	if c.MonthlyIncome.IsNegative() {
		return Invalid("monthly_income", "must not be negative")
	}
	if c.MonthlyExpenses.IsNegative() {
		return Invalid("monthly_expenses", "must not be negative")
	}
	if c.CurrentSavings.IsNegative() {
		return Invalid("current_savings", "must not be negative")
	}
	if c.Dependents < 0 {
		return Invalid("dependents", "must not be negative")
	}
	return nil
}

// Surplus returns income minus expenses. It is negative when the user
// spends more than they earn.
func (c FinancialContext) Surplus() decimal.Decimal {
	return c.MonthlyIncome.Sub(c.MonthlyExpenses)
}

// Validate checks a stored profile. Unlike a request context, a profile may
// leave the tolerance empty until the user completes the questionnaire.
func (p Profile) Validate() error {
	if p.UserID == "" {
		return Invalid("user_id", "must not be empty")
	}
	if err := p.validateFields(); err != nil {
		return err
	}
	if p.RiskTolerance != "" && !p.RiskTolerance.Valid() {
		return Invalid("risk_tolerance", "must be conservative, moderate or aggressive")
	}
	return nil
}
