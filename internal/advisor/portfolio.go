package advisor

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/allocation"
	"github.com/sanchay/advisor-engine/internal/catalog"
	"github.com/sanchay/advisor-engine/internal/logger"
	"github.com/sanchay/advisor-engine/internal/metrics"
	"github.com/sanchay/advisor-engine/internal/model"
	"github.com/sanchay/advisor-engine/internal/projection"
	"github.com/sanchay/advisor-engine/internal/store"
)

// DefaultPortfolioYears is the projection horizon when ?years is absent.
const DefaultPortfolioYears = 5

// InvestmentRequest is the JSON body for POST /portfolio/{userID}/investments.
type InvestmentRequest struct {
	InvestmentType      model.InstrumentType `json:"investment_type"`
	Amount              decimal.Decimal      `json:"amount"`
	MonthlyContribution decimal.Decimal      `json:"monthly_contribution"`
	StartDate           *time.Time           `json:"start_date,omitempty"` // defaults to now
}

// HoldingView is one holding enriched with catalog data and its projection.
type HoldingView struct {
	model.Investment
	Name           string                 `json:"name"`
	Category       model.Category         `json:"category"`
	ExpectedReturn decimal.Decimal        `json:"expected_return"`
	Projection     model.ProjectionResult `json:"projection"`
}

// PortfolioResponse is the JSON body returned from GET /portfolio/{userID}.
// Drift and TargetAllocation are present only when the user's risk
// tolerance is known.
type PortfolioResponse struct {
	UserID              string                     `json:"user_id"`
	Years               int                        `json:"years"`
	Holdings            []HoldingView              `json:"holdings"`
	TotalInvested       decimal.Decimal            `json:"total_invested"`
	ProjectedInvestment decimal.Decimal            `json:"projected_investment"` // invested plus contributions over Years
	ProjectedValue      decimal.Decimal            `json:"projected_value"`
	ProjectedReturn     decimal.Decimal            `json:"projected_return"`
	Weights             map[string]decimal.Decimal `json:"weights"`
	TargetAllocation    *model.Allocation          `json:"target_allocation,omitempty"`
	Drift               []allocation.Deviation     `json:"drift,omitempty"`
}

// AddInvestment handles POST /api/v1/portfolio/{userID}/investments
// The amount must respect the instrument's minimum (and maximum, when the
// instrument has one); violations are 422.
func (s *Service) AddInvestment(w http.ResponseWriter, r *http.Request) {
	var req InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	inst, ok := s.catalog.Lookup(req.InvestmentType)
	if !ok {
		writeError(w, "unknown instrument type: "+string(req.InvestmentType), http.StatusBadRequest)
		return
	}
	if req.MonthlyContribution.IsNegative() {
		s.fail(w, r, model.Invalid("monthly_contribution", "must not be negative"))
		return
	}
	if err := catalog.CheckAmount(inst, req.Amount); err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	now := s.now()
	inv := &model.Investment{
		ID:                  uuid.New().String(),
		UserID:              chi.URLParam(r, "userID"),
		Type:                inst.Type,
		Amount:              req.Amount,
		MonthlyContribution: req.MonthlyContribution,
		StartDate:           now,
		CreatedAt:           now,
	}
	if req.StartDate != nil {
		inv.StartDate = req.StartDate.UTC()
	}

	ctx := r.Context()
	if err := s.store.AddInvestment(ctx, inv); err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.PortfolioInvestmentsTotal.WithLabelValues(string(inst.Type)).Inc()

	logger.FromContext(ctx).Info("investment added",
		"id", inv.ID,
		"user", inv.UserID,
		"type", inv.Type,
		"amount", inv.Amount.String(),
	)
	s.broadcast(WSEvent{Type: EventInvestmentAdded, UserID: inv.UserID, Data: inv})

	writeJSON(w, http.StatusCreated, inv)
}

// DeleteInvestment handles DELETE /api/v1/portfolio/{userID}/investments/{investmentID}
func (s *Service) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	investmentID := chi.URLParam(r, "investmentID")

	if err := s.store.DeleteInvestment(r.Context(), userID, investmentID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.broadcast(WSEvent{Type: EventInvestmentRemoved, UserID: userID, Data: map[string]string{"id": investmentID}})
	w.WriteHeader(http.StatusNoContent)
}

// GetPortfolio handles GET /api/v1/portfolio/{userID}?years=N
// Returns holdings with per-holding projections at each instrument's
// expected return, current bucket weights and, when the user's tolerance
// is known, drift against the target allocation.
func (s *Service) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	ctx := r.Context()

	years := DefaultPortfolioYears
	if v := r.URL.Query().Get("years"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > MaxProjectionYears {
			s.fail(w, r, model.Invalid("years", "must be an integer between 0 and 50"))
			return
		}
		years = n
	}

	investments, err := s.store.ListInvestments(ctx, userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := PortfolioResponse{
		UserID:              userID,
		Years:               years,
		Holdings:            make([]HoldingView, 0, len(investments)),
		TotalInvested:       decimal.Zero,
		ProjectedInvestment: decimal.Zero,
		ProjectedValue:      decimal.Zero,
	}
	holdings := make([]allocation.Holding, 0, len(investments))

	for _, inv := range investments {
		inst, ok := s.catalog.Lookup(inv.Type)
		if !ok {
			logger.FromContext(ctx).Warn("holding references unknown instrument", "id", inv.ID, "type", inv.Type)
			continue
		}
		proj := projection.ProjectInstrument(inst, inv.Amount, years, inv.MonthlyContribution)
		resp.Holdings = append(resp.Holdings, HoldingView{
			Investment:     inv,
			Name:           inst.Name,
			Category:       inst.Category,
			ExpectedReturn: inst.ExpectedReturn,
			Projection:     proj,
		})
		resp.TotalInvested = resp.TotalInvested.Add(inv.Amount)
		resp.ProjectedInvestment = resp.ProjectedInvestment.Add(proj.TotalInvestment)
		resp.ProjectedValue = resp.ProjectedValue.Add(proj.FutureValue)
		holdings = append(holdings, allocation.Holding{Category: inst.Category, Value: inv.Amount})
	}

	resp.Weights = allocation.Weights(holdings)
	resp.ProjectedReturn = resp.ProjectedValue.Sub(resp.ProjectedInvestment)

	profile, err := s.store.GetProfile(ctx, userID)
	switch {
	case err == nil:
		fc, err := s.contextFor(r, profile)
		if err == nil {
			target := allocation.Calculate(fc.Age, fc.RiskTolerance)
			resp.TargetAllocation = &target
			if len(holdings) > 0 {
				resp.Drift = allocation.Drift(resp.Weights, target)
			}
		} else if !errors.Is(err, ErrNoTolerance) {
			s.fail(w, r, err)
			return
		}
	case !errors.Is(err, store.ErrNotFound):
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
