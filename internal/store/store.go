// Package store defines the persistence interface for the advisor engine.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing).
package store

import (
	"context"
	"errors"

	"github.com/sanchay/advisor-engine/internal/model"
)

// ErrNotFound is returned when a profile, assessment or investment does
// not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface. PostgreSQL is the source of truth;
// Redis provides a read-through cache layer.
type Store interface {
	// --- Profiles ---

	// UpsertProfile creates or replaces a user's financial profile.
	UpsertProfile(ctx context.Context, p *model.Profile) error

	// GetProfile retrieves a profile by user ID.
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)

	// --- Risk assessments (append-only) ---

	// InsertAssessment appends a scored questionnaire submission.
	InsertAssessment(ctx context.Context, a *model.RiskAssessment) error

	// GetLatestAssessment returns the user's most recent assessment.
	GetLatestAssessment(ctx context.Context, userID string) (*model.RiskAssessment, error)

	// --- Portfolio ---

	// AddInvestment records a holding.
	AddInvestment(ctx context.Context, inv *model.Investment) error

	// ListInvestments returns a user's holdings, oldest first.
	ListInvestments(ctx context.Context, userID string) ([]model.Investment, error)

	// DeleteInvestment removes one of the user's holdings.
	DeleteInvestment(ctx context.Context, userID, investmentID string) error
}
