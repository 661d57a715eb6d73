package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sanchay/advisor-engine/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu          sync.RWMutex
	profiles    map[string]model.Profile
	assessments map[string][]model.RiskAssessment
	investments []model.Investment
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[string]model.Profile),
		assessments: make(map[string][]model.RiskAssessment),
	}
}

func (s *MemoryStore) UpsertProfile(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.UserID] = *p
	return nil
}

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return &p, nil
}

func (s *MemoryStore) InsertAssessment(_ context.Context, a *model.RiskAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *a
	stored.Answers = append([]model.RiskAnswer(nil), a.Answers...)
	s.assessments[a.UserID] = append(s.assessments[a.UserID], stored)
	return nil
}

// GetLatestAssessment returns the newest by CreatedAt; among equal
// timestamps the one inserted last wins.
func (s *MemoryStore) GetLatestAssessment(_ context.Context, userID string) (*model.RiskAssessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.assessments[userID]
	if len(history) == 0 {
		return nil, fmt.Errorf("assessment for %s: %w", userID, ErrNotFound)
	}
	latest := history[0]
	for _, a := range history[1:] {
		if !a.CreatedAt.Before(latest.CreatedAt) {
			latest = a
		}
	}
	latest.Answers = append([]model.RiskAnswer(nil), latest.Answers...)
	return &latest, nil
}

func (s *MemoryStore) AddInvestment(_ context.Context, inv *model.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.investments {
		if existing.ID == inv.ID {
			return fmt.Errorf("investment %s already exists", inv.ID)
		}
	}
	s.investments = append(s.investments, *inv)
	return nil
}

func (s *MemoryStore) ListInvestments(_ context.Context, userID string) ([]model.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Investment, 0)
	for _, inv := range s.investments {
		if inv.UserID == userID {
			result = append(result, inv)
		}
	}
	return result, nil
}

func (s *MemoryStore) DeleteInvestment(_ context.Context, userID, investmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, inv := range s.investments {
		if inv.ID == investmentID && inv.UserID == userID {
			s.investments = append(s.investments[:i], s.investments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("investment %s: %w", investmentID, ErrNotFound)
}
