// Package advisor provides the HTTP handlers that expose the instrument
// catalog, risk questionnaire, allocation, recommendation and projection
// engines, plus per-user profiles and tracked portfolios.
//
// All monetary values use shopspring/decimal, never float64 for money.
package advisor

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/allocation"
	"github.com/sanchay/advisor-engine/internal/catalog"
	"github.com/sanchay/advisor-engine/internal/logger"
	"github.com/sanchay/advisor-engine/internal/metrics"
	"github.com/sanchay/advisor-engine/internal/model"
	"github.com/sanchay/advisor-engine/internal/projection"
	"github.com/sanchay/advisor-engine/internal/recommend"
	"github.com/sanchay/advisor-engine/internal/riskquiz"
	"github.com/sanchay/advisor-engine/internal/store"
)

// MaxProjectionYears bounds the horizon accepted over HTTP.
const MaxProjectionYears = 50

// ErrNoTolerance is returned when a stored user has neither a profile
// tolerance nor a completed questionnaire.
var ErrNoTolerance = errors.New("advisor: risk tolerance unknown, complete the risk questionnaire first")

// Service handles advisory operations. The catalog and questionnaire are
// immutable and shared; per-user state lives in the store.
type Service struct {
	catalog *catalog.Catalog
	quiz    *riskquiz.Questionnaire
	store   store.Store
	recs    *cache.Cache // userID -> recommend.Result; nil disables caching
	wsHub   *WSHub       // optional WebSocket hub for user events
	now     func() time.Time
}

// NewService creates a new advisor service. Stored users' recommendation
// runs are cached for cacheTTL; a non-positive cacheTTL disables the cache.
// Pass nil for hub if WebSocket broadcasting is not needed.
func NewService(cat *catalog.Catalog, quiz *riskquiz.Questionnaire, st store.Store, hub *WSHub, cacheTTL time.Duration) *Service {
	s := &Service{
		catalog: cat,
		quiz:    quiz,
		store:   st,
		wsHub:   hub,
		now:     func() time.Time { return time.Now().UTC() },
	}
	// go-cache treats a zero expiration as "never expire".
	if cacheTTL > 0 {
		s.recs = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// Routes registers the service's endpoints on r.
func (s *Service) Routes(r chi.Router) {
	// Catalog.
	r.Get("/instruments", s.ListInstruments)
	r.Get("/instruments/{type}", s.GetInstrument)

	// Risk profiling.
	r.Get("/risk/questionnaire", s.GetQuestionnaire)
	r.Post("/risk/assessments", s.CreateAssessment)
	r.Get("/risk/assessments/{userID}", s.GetLatestAssessment)

	// Profiles.
	r.Put("/profiles/{userID}", s.PutProfile)
	r.Get("/profiles/{userID}", s.GetProfile)

	// Calculators.
	r.Post("/allocation", s.CalculateAllocation)
	r.Post("/recommendations", s.Recommend)
	r.Get("/recommendations/{userID}", s.RecommendForUser)
	r.Post("/projections", s.Project)

	// Portfolio tracking.
	r.Get("/portfolio/{userID}", s.GetPortfolio)
	r.Post("/portfolio/{userID}/investments", s.AddInvestment)
	r.Delete("/portfolio/{userID}/investments/{investmentID}", s.DeleteInvestment)

	// WebSocket endpoint for user events.
	if s.wsHub != nil {
		r.Get("/ws", s.wsHub.HandleWS)
	}
}

// --- Request/Response types ---

// AssessmentRequest is the JSON body for POST /risk/assessments.
type AssessmentRequest struct {
	UserID  string             `json:"user_id,omitempty"` // optional; stores the result when set
	Answers []model.RiskAnswer `json:"answers"`
}

// AllocationRequest is the JSON body for POST /allocation.
type AllocationRequest struct {
	Age           int                 `json:"age"`
	RiskTolerance model.RiskTolerance `json:"risk_tolerance"`
}

// ProjectionRequest is the JSON body for POST /projections. When
// AnnualReturnPercent is omitted the instrument's expected return is used.
type ProjectionRequest struct {
	InvestmentType      model.InstrumentType `json:"investment_type,omitempty"`
	InitialAmount       decimal.Decimal      `json:"initial_amount"`
	AnnualReturnPercent *decimal.Decimal     `json:"annual_return_percent,omitempty"`
	Years               int                  `json:"years"`
	MonthlyContribution decimal.Decimal      `json:"monthly_contribution"`
}

// ProjectionResponse echoes the rate used alongside the result.
type ProjectionResponse struct {
	InvestmentType      model.InstrumentType `json:"investment_type,omitempty"`
	AnnualReturnPercent decimal.Decimal      `json:"annual_return_percent"`
	model.ProjectionResult
}

// --- Catalog ---

// ListInstruments handles GET /api/v1/instruments
func (s *Service) ListInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

// GetInstrument handles GET /api/v1/instruments/{type}
func (s *Service) GetInstrument(w http.ResponseWriter, r *http.Request) {
	typ := model.InstrumentType(chi.URLParam(r, "type"))
	inst, ok := s.catalog.Lookup(typ)
	if !ok {
		writeError(w, "unknown instrument type: "+string(typ), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

// --- Risk profiling ---

// GetQuestionnaire handles GET /api/v1/risk/questionnaire
func (s *Service) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": s.quiz.Questions(),
		"max_score": s.quiz.MaxScore(),
	})
}

// CreateAssessment handles POST /api/v1/risk/assessments
// Scores a complete answer set. With a user_id the assessment is stored,
// the user's profile tolerance follows it, and cached recommendations are
// dropped.
func (s *Service) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.quiz.Assess(req.Answers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.RiskAssessmentsTotal.WithLabelValues(string(result.Tolerance)).Inc()

	assessment := &model.RiskAssessment{
		UserID:          req.UserID,
		Answers:         result.Answers,
		RawScore:        result.RawScore,
		MaxScore:        result.MaxScore,
		ScorePercentage: result.ScorePercentage,
		Tolerance:       result.Tolerance,
		CreatedAt:       s.now(),
	}

	if req.UserID == "" {
		writeJSON(w, http.StatusOK, assessment)
		return
	}

	ctx := r.Context()
	assessment.ID = uuid.New().String()
	if err := s.store.InsertAssessment(ctx, assessment); err != nil {
		s.fail(w, r, err)
		return
	}

	profile, err := s.store.GetProfile(ctx, req.UserID)
	switch {
	case err == nil:
		profile.RiskTolerance = result.Tolerance
		profile.UpdatedAt = assessment.CreatedAt
		if err := s.store.UpsertProfile(ctx, profile); err != nil {
			s.fail(w, r, err)
			return
		}
	case !errors.Is(err, store.ErrNotFound):
		s.fail(w, r, err)
		return
	}
	s.forgetRecommendations(req.UserID)

	logger.FromContext(ctx).Info("risk assessment recorded",
		"id", assessment.ID,
		"user", req.UserID,
		"raw_score", result.RawScore,
		"tolerance", result.Tolerance,
	)
	s.broadcast(WSEvent{Type: EventAssessmentRecorded, UserID: req.UserID, Data: assessment})

	writeJSON(w, http.StatusCreated, assessment)
}

// GetLatestAssessment handles GET /api/v1/risk/assessments/{userID}
func (s *Service) GetLatestAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.GetLatestAssessment(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// --- Profiles ---

// PutProfile handles PUT /api/v1/profiles/{userID}
func (s *Service) PutProfile(w http.ResponseWriter, r *http.Request) {
	var fc model.FinancialContext
	if err := json.NewDecoder(r.Body).Decode(&fc); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile := &model.Profile{
		UserID:           chi.URLParam(r, "userID"),
		FinancialContext: fc,
		UpdatedAt:        s.now(),
	}
	if err := profile.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		s.fail(w, r, err)
		return
	}
	s.forgetRecommendations(profile.UserID)

	logger.FromContext(ctx).Info("profile updated", "user", profile.UserID, "tolerance", profile.RiskTolerance)
	s.broadcast(WSEvent{Type: EventProfileUpdated, UserID: profile.UserID, Data: profile})

	writeJSON(w, http.StatusOK, profile)
}

// GetProfile handles GET /api/v1/profiles/{userID}
func (s *Service) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- Calculators ---

// CalculateAllocation handles POST /api/v1/allocation
func (s *Service) CalculateAllocation(w http.ResponseWriter, r *http.Request) {
	var req AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	fc := model.FinancialContext{Age: req.Age, RiskTolerance: req.RiskTolerance}
	if err := fc.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, allocation.Calculate(req.Age, req.RiskTolerance))
}

// Recommend handles POST /api/v1/recommendations
// Runs the pipeline on an ad-hoc financial context; nothing is stored.
func (s *Service) Recommend(w http.ResponseWriter, r *http.Request) {
	var fc model.FinancialContext
	if err := json.NewDecoder(r.Body).Decode(&fc); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := fc.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.generate(r, fc))
}

// RecommendForUser handles GET /api/v1/recommendations/{userID}
// Uses the stored profile; the tolerance falls back to the latest
// assessment when the profile has none.
func (s *Service) RecommendForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if s.recs != nil {
		if cached, ok := s.recs.Get(userID); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx := r.Context()
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	fc, err := s.contextFor(r, profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res := s.generate(r, fc)
	if s.recs != nil {
		s.recs.SetDefault(userID, res)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) forgetRecommendations(userID string) {
	if s.recs != nil {
		s.recs.Delete(userID)
	}
}

// Project handles POST /api/v1/projections
func (s *Service) Project(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rate, err := s.projectionRate(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	switch {
	case req.InitialAmount.IsNegative():
		s.fail(w, r, model.Invalid("initial_amount", "must not be negative"))
		return
	case req.MonthlyContribution.IsNegative():
		s.fail(w, r, model.Invalid("monthly_contribution", "must not be negative"))
		return
	case req.Years < 0 || req.Years > MaxProjectionYears:
		s.fail(w, r, model.Invalid("years", "must be between 0 and 50"))
		return
	}

	metrics.ProjectionsTotal.Inc()
	writeJSON(w, http.StatusOK, ProjectionResponse{
		InvestmentType:      req.InvestmentType,
		AnnualReturnPercent: rate,
		ProjectionResult:    projection.Project(req.InitialAmount, rate, req.Years, req.MonthlyContribution),
	})
}

func (s *Service) projectionRate(req ProjectionRequest) (decimal.Decimal, error) {
	if req.AnnualReturnPercent != nil {
		if req.AnnualReturnPercent.LessThanOrEqual(decimal.NewFromInt(-100)) {
			return decimal.Zero, model.Invalid("annual_return_percent", "must be greater than -100")
		}
		return *req.AnnualReturnPercent, nil
	}
	if req.InvestmentType == "" {
		return decimal.Zero, model.Invalid("annual_return_percent", "required when investment_type is not given")
	}
	inst, ok := s.catalog.Lookup(req.InvestmentType)
	if !ok {
		return decimal.Zero, model.Invalid("investment_type", "unknown instrument "+string(req.InvestmentType))
	}
	return inst.ExpectedReturn, nil
}

// --- Helpers ---

// generate runs the recommendation pipeline and records run metrics.
func (s *Service) generate(r *http.Request, fc model.FinancialContext) recommend.Result {
	res := recommend.Generate(s.catalog.All(), fc)

	metrics.RecommendationsTotal.WithLabelValues(string(fc.RiskTolerance)).Inc()
	metrics.RecommendedInstruments.Observe(float64(len(res.Recommendations)))
	for _, rec := range res.Recommendations {
		metrics.SuitabilityScore.Observe(float64(rec.SuitabilityScore))
	}

	logger.FromContext(r.Context()).Debug("recommendations generated",
		"age", fc.Age,
		"tolerance", fc.RiskTolerance,
		"available", res.AvailableAmount.String(),
		"count", len(res.Recommendations),
	)
	return res
}

// contextFor returns the profile's financial context with its tolerance
// resolved.
func (s *Service) contextFor(r *http.Request, p *model.Profile) (model.FinancialContext, error) {
	fc := p.FinancialContext
	if fc.RiskTolerance.Valid() {
		return fc, nil
	}
	a, err := s.store.GetLatestAssessment(r.Context(), p.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return fc, ErrNoTolerance
	}
	if err != nil {
		return fc, err
	}
	fc.RiskTolerance = a.Tolerance
	return fc, nil
}

func (s *Service) broadcast(ev WSEvent) {
	if s.wsHub != nil {
		s.wsHub.Broadcast(ev)
	}
}

// fail maps err onto a status code and writes it. Unexpected errors are
// logged and reported without detail.
func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		writeError(w, "internal error", status)
		return
	}
	writeError(w, err.Error(), status)
}

func statusFor(err error) int {
	var invalid *model.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoTolerance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, riskquiz.ErrIncompleteAnswers),
		errors.Is(err, riskquiz.ErrUnknownQuestion),
		errors.Is(err, riskquiz.ErrUnknownOption),
		errors.Is(err, riskquiz.ErrDuplicateAnswer):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
