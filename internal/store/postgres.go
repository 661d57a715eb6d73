package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/model"
)

//go:embed schema.sql
var schema string

// PostgresStore implements Store using PostgreSQL as the source of truth.
// All monetary values are stored as NUMERIC for exact decimal precision.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, p *model.Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, age, monthly_income, monthly_expenses, current_savings, dependents, risk_tolerance, updated_at)
		 VALUES ($1, $2, $3::NUMERIC, $4::NUMERIC, $5::NUMERIC, $6, $7, $8)
		 ON CONFLICT (user_id) DO UPDATE SET
		     age = EXCLUDED.age,
		     monthly_income = EXCLUDED.monthly_income,
		     monthly_expenses = EXCLUDED.monthly_expenses,
		     current_savings = EXCLUDED.current_savings,
		     dependents = EXCLUDED.dependents,
		     risk_tolerance = EXCLUDED.risk_tolerance,
		     updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Age,
		p.MonthlyIncome.String(), p.MonthlyExpenses.String(), p.CurrentSavings.String(),
		p.Dependents, string(p.RiskTolerance), p.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	var income, expenses, savings, tolerance string

	err := s.pool.QueryRow(ctx,
		`SELECT user_id, age, monthly_income::TEXT, monthly_expenses::TEXT,
		        current_savings::TEXT, dependents, risk_tolerance, updated_at
		 FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.Age, &income, &expenses,
			&savings, &p.Dependents, &tolerance, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(fmt.Sprintf("get profile %s", userID), err)
	}

	p.MonthlyIncome, _ = decimal.NewFromString(income)
	p.MonthlyExpenses, _ = decimal.NewFromString(expenses)
	p.CurrentSavings, _ = decimal.NewFromString(savings)
	p.RiskTolerance = model.RiskTolerance(tolerance)

	return &p, nil
}

func (s *PostgresStore) InsertAssessment(ctx context.Context, a *model.RiskAssessment) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO risk_assessments (id, user_id, answers, raw_score, max_score, score_percentage, risk_tolerance, created_at)
		 VALUES ($1, $2, $3::JSONB, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, string(answers), a.RawScore, a.MaxScore,
		a.ScorePercentage, string(a.Tolerance), a.CreatedAt,
	)
	return err
}

func (s *PostgresStore) GetLatestAssessment(ctx context.Context, userID string) (*model.RiskAssessment, error) {
	var a model.RiskAssessment
	var answers []byte
	var tolerance string

	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, answers, raw_score, max_score,
		        score_percentage::FLOAT8, risk_tolerance, created_at
		 FROM risk_assessments WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`, userID).
		Scan(&a.ID, &a.UserID, &answers, &a.RawScore, &a.MaxScore,
			&a.ScorePercentage, &tolerance, &a.CreatedAt)
	if err != nil {
		return nil, notFound(fmt.Sprintf("get latest assessment %s", userID), err)
	}
	if err := json.Unmarshal(answers, &a.Answers); err != nil {
		return nil, fmt.Errorf("decode answers for %s: %w", a.ID, err)
	}
	a.Tolerance = model.RiskTolerance(tolerance)

	return &a, nil
}

func (s *PostgresStore) AddInvestment(ctx context.Context, inv *model.Investment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO investments (id, user_id, investment_type, amount, monthly_contribution, start_date, created_at)
		 VALUES ($1, $2, $3, $4::NUMERIC, $5::NUMERIC, $6, $7)`,
		inv.ID, inv.UserID, string(inv.Type),
		inv.Amount.String(), inv.MonthlyContribution.String(),
		inv.StartDate, inv.CreatedAt,
	)
	return err
}

func (s *PostgresStore) ListInvestments(ctx context.Context, userID string) ([]model.Investment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, investment_type, amount::TEXT,
		        monthly_contribution::TEXT, start_date, created_at
		 FROM investments WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInvestments(rows)
}

func (s *PostgresStore) DeleteInvestment(ctx context.Context, userID, investmentID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM investments WHERE id = $1 AND user_id = $2`, investmentID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("investment %s: %w", investmentID, ErrNotFound)
	}
	return nil
}

// notFound maps pgx.ErrNoRows onto ErrNotFound so callers need not import pgx.
func notFound(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanInvestments reads pgx rows into an Investment slice.
func scanInvestments(rows pgxRows) ([]model.Investment, error) {
	investments := make([]model.Investment, 0)
	for rows.Next() {
		var inv model.Investment
		var typ, amountS, monthlyS string

		if err := rows.Scan(&inv.ID, &inv.UserID, &typ, &amountS,
			&monthlyS, &inv.StartDate, &inv.CreatedAt); err != nil {
			return nil, err
		}

		inv.Type = model.InstrumentType(typ)
		inv.Amount, _ = decimal.NewFromString(amountS)
		inv.MonthlyContribution, _ = decimal.NewFromString(monthlyS)

		investments = append(investments, inv)
	}
	return investments, rows.Err()
}
