package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validContext() FinancialContext {
	return FinancialContext{
		Age:             30,
		MonthlyIncome:   decimal.NewFromInt(50000),
		MonthlyExpenses: decimal.NewFromInt(30000),
		CurrentSavings:  decimal.NewFromInt(100000),
		Dependents:      1,
		RiskTolerance:   Moderate,
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validContext().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		field string
		mut   func(c *FinancialContext)
	}{
		{"too young", "age", func(c *FinancialContext) { c.Age = 17 }},
		{"too old", "age", func(c *FinancialContext) { c.Age = 101 }},
		{"negative income", "monthly_income", func(c *FinancialContext) { c.MonthlyIncome = decimal.NewFromInt(-1) }},
		{"negative expenses", "monthly_expenses", func(c *FinancialContext) { c.MonthlyExpenses = decimal.NewFromInt(-1) }},
		{"negative savings", "current_savings", func(c *FinancialContext) { c.CurrentSavings = decimal.NewFromInt(-5) }},
		{"negative dependents", "dependents", func(c *FinancialContext) { c.Dependents = -1 }},
		{"unknown tolerance", "risk_tolerance", func(c *FinancialContext) { c.RiskTolerance = "reckless" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContext()
			tt.mut(&c)
			err := c.Validate()
			var inv *InvalidInputError
			if !errors.As(err, &inv) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if inv.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, inv.Field)
			}
		})
	}
}

func TestValidate_ExpensesAboveIncomeAllowed(t *testing.T) {
	c := validContext()
	c.MonthlyExpenses = decimal.NewFromInt(80000)
	if err := c.Validate(); err != nil {
		t.Fatalf("overspending is valid input, got %v", err)
	}
	if !c.Surplus().Equal(decimal.NewFromInt(-30000)) {
		t.Errorf("expected surplus -30000, got %s", c.Surplus())
	}
}

func TestRiskToleranceRank(t *testing.T) {
	if !(Conservative.Rank() < Moderate.Rank() && Moderate.Rank() < Aggressive.Rank()) {
		t.Error("tolerance ranks should be ordered conservative < moderate < aggressive")
	}
	if RiskTolerance("x").Rank() != -1 {
		t.Error("unknown tolerance should rank -1")
	}
}

func TestProfileValidate_ToleranceOptional(t *testing.T) {
	p := Profile{UserID: "u1", FinancialContext: validContext()}
	p.RiskTolerance = ""
	if err := p.Validate(); err != nil {
		t.Fatalf("profile without tolerance should be valid, got %v", err)
	}

	p.RiskTolerance = "reckless"
	var inv *InvalidInputError
	if err := p.Validate(); !errors.As(err, &inv) || inv.Field != "risk_tolerance" {
		t.Errorf("expected risk_tolerance error, got %v", err)
	}

	p.RiskTolerance = Moderate
	p.UserID = ""
	if err := p.Validate(); !errors.As(err, &inv) || inv.Field != "user_id" {
		t.Errorf("expected user_id error, got %v", err)
	}
}
