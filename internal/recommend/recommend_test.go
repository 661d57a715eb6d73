package recommend

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/catalog"
	"github.com/sanchay/advisor-engine/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func youngModerate() model.FinancialContext {
	return model.FinancialContext{
		Age:             28,
		MonthlyIncome:   d(80000),
		MonthlyExpenses: d(40000),
		CurrentSavings:  d(300000),
		Dependents:      0,
		RiskTolerance:   model.Moderate,
	}
}

func TestGenerate_YoungModerate(t *testing.T) {
	res := Generate(catalog.Default().All(), youngModerate())

	want := []struct {
		typ    model.InstrumentType
		score  int
		amount float64
	}{
		{model.TypeMutualFund, 90, 28800},          // 40000 * 72%
		{model.TypeSavingsCertificate, 80, 10000},  // 6720 floored to minimum
		{model.TypeDepositPensionScheme, 80, 4480}, // 40000 * 11.2%
		{model.TypeFixedDeposit, 80, 10000},        // 4480 floored to minimum
		{model.TypeGovernmentBond, 80, 100000},     // default 10% share floored
	}
	if len(res.Recommendations) != len(want) {
		t.Fatalf("expected %d recommendations, got %d: %+v", len(want), len(res.Recommendations), res.Recommendations)
	}
	for i, w := range want {
		got := res.Recommendations[i]
		if got.InvestmentType != w.typ {
			t.Errorf("rank %d: expected %s, got %s", i, w.typ, got.InvestmentType)
		}
		if got.SuitabilityScore != w.score {
			t.Errorf("%s: expected score %d, got %d", got.InvestmentType, w.score, got.SuitabilityScore)
		}
		if !got.RecommendedAmount.Equal(d(w.amount)) {
			t.Errorf("%s: expected amount %.0f, got %s", got.InvestmentType, w.amount, got.RecommendedAmount)
		}
	}

	if !res.AvailableAmount.Equal(d(40000)) {
		t.Errorf("expected available 40000, got %s", res.AvailableAmount)
	}
	if !res.Allocation.Stocks.Equal(d(72)) {
		t.Errorf("expected 72%% stocks, got %s", res.Allocation.Stocks)
	}
}

func TestGenerate_SortedDescending(t *testing.T) {
	ctx := youngModerate()
	ctx.RiskTolerance = model.Aggressive
	res := Generate(catalog.Default().All(), ctx)
	for i := 1; i < len(res.Recommendations); i++ {
		if res.Recommendations[i].SuitabilityScore > res.Recommendations[i-1].SuitabilityScore {
			t.Errorf("rank %d scores higher than rank %d", i, i-1)
		}
	}
	if res.Recommendations[0].InvestmentType != model.TypeStock {
		t.Errorf("young aggressive investor should see stocks first, got %s", res.Recommendations[0].InvestmentType)
	}
}

func TestGenerate_ConservativeNeverSeesHighRisk(t *testing.T) {
	ctx := model.FinancialContext{
		Age:             25,
		MonthlyIncome:   d(150000),
		MonthlyExpenses: d(50000),
		CurrentSavings:  d(1000000),
		RiskTolerance:   model.Conservative,
	}
	res := Generate(catalog.Default().All(), ctx)
	if len(res.Recommendations) == 0 {
		t.Fatal("expected low-risk recommendations")
	}
	for _, r := range res.Recommendations {
		if r.RiskLevel != model.RiskLow {
			t.Errorf("conservative profile received %s (%s risk)", r.InvestmentType, r.RiskLevel)
		}
		if r.InvestmentType == model.TypeStock {
			t.Error("stock must never be recommended to a conservative profile")
		}
	}
}

func TestGenerate_NeverBelowThreshold(t *testing.T) {
	ctx := model.FinancialContext{
		Age:             60,
		MonthlyIncome:   d(20000),
		MonthlyExpenses: d(19000),
		CurrentSavings:  decimal.Zero,
		Dependents:      4,
		RiskTolerance:   model.Aggressive,
	}
	res := Generate(catalog.Default().All(), ctx)
	for _, r := range res.Recommendations {
		if r.SuitabilityScore < MinSuitability {
			t.Errorf("%s returned with score %d", r.InvestmentType, r.SuitabilityScore)
		}
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("weak profile should get no recommendations, got %d", len(res.Recommendations))
	}
	if res.Recommendations == nil {
		t.Error("empty result should be a non-nil slice")
	}
}

func TestGenerate_NegativeSurplusFloorsAtMinimum(t *testing.T) {
	ctx := model.FinancialContext{
		Age:             40,
		MonthlyIncome:   d(30000),
		MonthlyExpenses: d(40000),
		CurrentSavings:  d(300000),
		RiskTolerance:   model.Moderate,
	}
	cat := catalog.Default()
	res := Generate(cat.All(), ctx)

	if !res.AvailableAmount.IsZero() {
		t.Errorf("negative surplus should be treated as zero capacity, got %s", res.AvailableAmount)
	}
	if len(res.Recommendations) == 0 {
		t.Fatal("expected recommendations despite zero capacity")
	}
	for _, r := range res.Recommendations {
		inst, _ := cat.Lookup(r.InvestmentType)
		if !r.RecommendedAmount.Equal(inst.MinInvestment) {
			t.Errorf("%s: expected minimum %s, got %s", r.InvestmentType, inst.MinInvestment, r.RecommendedAmount)
		}
		if !strings.Contains(r.Reasoning, "minimum") {
			t.Errorf("%s: reasoning should mention the minimum floor: %q", r.InvestmentType, r.Reasoning)
		}
	}
}

func TestGenerate_AmountNeverBelowMinimum(t *testing.T) {
	cat := catalog.Default()
	for _, tol := range []model.RiskTolerance{model.Conservative, model.Moderate, model.Aggressive} {
		ctx := youngModerate()
		ctx.RiskTolerance = tol
		for _, r := range Generate(cat.All(), ctx).Recommendations {
			inst, _ := cat.Lookup(r.InvestmentType)
			if r.RecommendedAmount.LessThan(inst.MinInvestment) {
				t.Errorf("%s %s: amount %s below minimum %s", tol, r.InvestmentType, r.RecommendedAmount, inst.MinInvestment)
			}
		}
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		tol               model.RiskTolerance
		low, medium, high bool
	}{
		{model.Conservative, true, false, false},
		{model.Moderate, true, true, false},
		{model.Aggressive, true, true, true},
		{"", false, false, false},
	}
	for _, tt := range tests {
		got := [3]bool{
			Eligible(tt.tol, model.RiskLow),
			Eligible(tt.tol, model.RiskMedium),
			Eligible(tt.tol, model.RiskHigh),
		}
		if got != [3]bool{tt.low, tt.medium, tt.high} {
			t.Errorf("%q: got %v", tt.tol, got)
		}
	}
}

func TestGenerate_ReasoningMentionsScore(t *testing.T) {
	res := Generate(catalog.Default().All(), youngModerate())
	top := res.Recommendations[0]
	if !strings.Contains(top.Reasoning, "90/100") {
		t.Errorf("reasoning should carry the score: %q", top.Reasoning)
	}
	if !strings.Contains(top.Reasoning, "moderate") {
		t.Errorf("reasoning should mention the tolerance match: %q", top.Reasoning)
	}
}
