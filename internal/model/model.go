// Package model defines the core domain types shared across the advisor engine.
// All monetary values use shopspring/decimal, never float64 for money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentType identifies one product in the instrument catalog.
type InstrumentType string

const (
	TypeSavingsCertificate   InstrumentType = "government-savings-certificate"
	TypeDepositPensionScheme InstrumentType = "deposit-pension-scheme"
	TypeFixedDeposit         InstrumentType = "fixed-deposit"
	TypeMutualFund           InstrumentType = "mutual-fund"
	TypeStock                InstrumentType = "stock"
	TypeGovernmentBond       InstrumentType = "government-bond"
)

// RiskLevel is the risk tier of an instrument.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether l is a known risk tier.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Category maps an instrument into an allocation bucket.
type Category string

const (
	CategoryGovernment Category = "government"
	CategoryBank       Category = "bank"
	CategoryStock      Category = "stock"
	CategoryMutualFund Category = "mutual_fund"
	CategoryBond       Category = "bond"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryGovernment, CategoryBank, CategoryStock, CategoryMutualFund, CategoryBond:
		return true
	}
	return false
}

// RiskTolerance is a user's categorical appetite for investment risk.
type RiskTolerance string

const (
	Conservative RiskTolerance = "conservative"
	Moderate     RiskTolerance = "moderate"
	Aggressive   RiskTolerance = "aggressive"
)

// Valid reports whether t is a known tolerance.
func (t RiskTolerance) Valid() bool {
	switch t {
	case Conservative, Moderate, Aggressive:
		return true
	}
	return false
}

// Rank orders tolerances from conservative (0) to aggressive (2).
// Unknown values rank -1.
func (t RiskTolerance) Rank() int {
	switch t {
	case Conservative:
		return 0
	case Moderate:
		return 1
	case Aggressive:
		return 2
	}
	return -1
}

// Instrument is an immutable catalog entry describing one investment product.
type Instrument struct {
	Type           InstrumentType   `json:"type" yaml:"type"`
	Name           string           `json:"name" yaml:"name"`
	NameBN         string           `json:"name_bn" yaml:"name_bn"`
	Description    string           `json:"description" yaml:"description"`
	ExpectedReturn decimal.Decimal  `json:"expected_return" yaml:"expected_return"` // annual %
	MinInvestment  decimal.Decimal  `json:"min_investment" yaml:"min_investment"`
	MaxInvestment  *decimal.Decimal `json:"max_investment,omitempty" yaml:"max_investment"`
	RiskLevel      RiskLevel        `json:"risk_level" yaml:"risk_level"`
	Category       Category         `json:"category" yaml:"category"`
	LiquidityDays  int              `json:"liquidity_days" yaml:"liquidity_days"`
	Pros           []string         `json:"pros" yaml:"pros"`
	Cons           []string         `json:"cons" yaml:"cons"`
	Features       []string         `json:"features" yaml:"features"`
}

// RiskAnswer is one answered questionnaire item.
type RiskAnswer struct {
	QuestionID  string `json:"question_id"`
	OptionValue string `json:"option_value"`
	Score       int    `json:"score"` // 1-4, set by the scorer
}

// RiskAssessment is a scored questionnaire submission.
type RiskAssessment struct {
	ID              string        `json:"id" db:"id"`
	UserID          string        `json:"user_id" db:"user_id"`
	Answers         []RiskAnswer  `json:"answers" db:"answers"`
	RawScore        int           `json:"raw_score" db:"raw_score"`
	MaxScore        int           `json:"max_score" db:"max_score"`
	ScorePercentage float64       `json:"score_percentage" db:"score_percentage"`
	Tolerance       RiskTolerance `json:"risk_tolerance" db:"risk_tolerance"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}

// Allocation is a target split of investable funds in percentage points.
// The buckets are not normalized to 100: Bonds is the whole fixed-income
// share, and Government/Bank are capped slices of it.
type Allocation struct {
	Stocks     decimal.Decimal `json:"stocks"`
	Bonds      decimal.Decimal `json:"bonds"`
	Government decimal.Decimal `json:"government"`
	Bank       decimal.Decimal `json:"bank"`
}

// Recommendation is one ranked entry of a recommendation run.
type Recommendation struct {
	InvestmentType    InstrumentType  `json:"investment_type"`
	Name              string          `json:"name"`
	RecommendedAmount decimal.Decimal `json:"recommended_amount"`
	ExpectedReturn    decimal.Decimal `json:"expected_return"`
	RiskLevel         RiskLevel       `json:"risk_level"`
	SuitabilityScore  int             `json:"suitability_score"`
	Reasoning         string          `json:"reasoning"`
	Pros              []string        `json:"pros"`
	Cons              []string        `json:"cons"`
}

// YearlyProjection is one row of a projection's year-by-year breakdown.
type YearlyProjection struct {
	Year       int             `json:"year"`
	Investment decimal.Decimal `json:"investment"`
	Value      decimal.Decimal `json:"value"`
	Return     decimal.Decimal `json:"return"`
}

// ProjectionResult is a compounding future-value forecast.
type ProjectionResult struct {
	FutureValue     decimal.Decimal    `json:"future_value"`
	TotalInvestment decimal.Decimal    `json:"total_investment"`
	TotalReturn     decimal.Decimal    `json:"total_return"`
	YearlyBreakdown []YearlyProjection `json:"yearly_breakdown"`
}

// Profile is a user's stored financial profile.
type Profile struct {
	UserID string `json:"user_id" db:"user_id"`
	FinancialContext
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Investment is one holding in a user's tracked portfolio.
type Investment struct {
	ID                  string          `json:"id" db:"id"`
	UserID              string          `json:"user_id" db:"user_id"`
	Type                InstrumentType  `json:"investment_type" db:"investment_type"`
	Amount              decimal.Decimal `json:"amount" db:"amount"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution" db:"monthly_contribution"`
	StartDate           time.Time       `json:"start_date" db:"start_date"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}
