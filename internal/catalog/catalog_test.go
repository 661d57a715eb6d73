package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestDefault_SixInstruments(t *testing.T) {
	c := Default()
	if c.Len() != 6 {
		t.Fatalf("expected 6 instruments, got %d", c.Len())
	}

	want := []model.InstrumentType{
		model.TypeSavingsCertificate,
		model.TypeDepositPensionScheme,
		model.TypeFixedDeposit,
		model.TypeMutualFund,
		model.TypeStock,
		model.TypeGovernmentBond,
	}
	for i, typ := range want {
		if c.All()[i].Type != typ {
			t.Errorf("position %d: expected %s, got %s", i, typ, c.All()[i].Type)
		}
	}
}

func TestDefault_DecodesNumbers(t *testing.T) {
	inst, ok := Default().Lookup(model.TypeSavingsCertificate)
	if !ok {
		t.Fatal("savings certificate missing")
	}
	if !inst.ExpectedReturn.Equal(d(11.28)) {
		t.Errorf("expected return 11.28, got %s", inst.ExpectedReturn)
	}
	if inst.MaxInvestment == nil || !inst.MaxInvestment.Equal(d(5000000)) {
		t.Errorf("expected max 5000000, got %v", inst.MaxInvestment)
	}
	if inst.RiskLevel != model.RiskLow || inst.Category != model.CategoryGovernment {
		t.Errorf("unexpected tiers: %s/%s", inst.RiskLevel, inst.Category)
	}

	fd, _ := Default().Lookup(model.TypeFixedDeposit)
	if fd.MaxInvestment != nil {
		t.Errorf("fixed deposit should have no max, got %s", fd.MaxInvestment)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := Default().Lookup("crypto"); ok {
		t.Error("unknown type should not be found")
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "instruments: []", ErrEmptyCatalog},
		{"zero min", `
instruments:
  - {type: a, expected_return: 5, min_investment: 0, risk_level: low, category: bank}`, ErrInvalidReference},
		{"negative return", `
instruments:
  - {type: a, expected_return: -1, min_investment: 10, risk_level: low, category: bank}`, ErrInvalidReference},
		{"bad risk", `
instruments:
  - {type: a, expected_return: 5, min_investment: 10, risk_level: extreme, category: bank}`, ErrInvalidReference},
		{"bad category", `
instruments:
  - {type: a, expected_return: 5, min_investment: 10, risk_level: low, category: crypto}`, ErrInvalidReference},
		{"max below min", `
instruments:
  - {type: a, expected_return: 5, min_investment: 10, max_investment: 5, risk_level: low, category: bank}`, ErrInvalidReference},
		{"duplicate", `
instruments:
  - {type: a, expected_return: 5, min_investment: 10, risk_level: low, category: bank}
  - {type: a, expected_return: 6, min_investment: 10, risk_level: low, category: bank}`, ErrDuplicateType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/catalog.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCheckAmount(t *testing.T) {
	c := Default()
	dps, _ := c.Lookup(model.TypeDepositPensionScheme)

	if err := CheckAmount(dps, d(1000)); err != nil {
		t.Errorf("1000 should be within DPS bounds: %v", err)
	}
	if err := CheckAmount(dps, d(100)); err == nil {
		t.Error("100 is below DPS minimum")
	}
	if err := CheckAmount(dps, d(60000)); err == nil {
		t.Error("60000 is above DPS maximum")
	}
}

func TestDefault_SharedPointer(t *testing.T) {
	if Default() != Default() {
		t.Error("default catalog should be parsed once and shared")
	}
}
