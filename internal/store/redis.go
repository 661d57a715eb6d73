package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/sanchay/advisor-engine/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and refresh or invalidate the
// cache; reads check Redis first then fall back to the primary. Redis
// failures degrade to primary reads.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through ---

func (s *CachedStore) UpsertProfile(ctx context.Context, p *model.Profile) error {
	if err := s.primary.UpsertProfile(ctx, p); err != nil {
		return err
	}
	s.set(ctx, profileKey(p.UserID), p)
	return nil
}

func (s *CachedStore) InsertAssessment(ctx context.Context, a *model.RiskAssessment) error {
	if err := s.primary.InsertAssessment(ctx, a); err != nil {
		return err
	}
	s.rdb.Del(ctx, assessmentKey(a.UserID))
	return nil
}

func (s *CachedStore) AddInvestment(ctx context.Context, inv *model.Investment) error {
	if err := s.primary.AddInvestment(ctx, inv); err != nil {
		return err
	}
	s.rdb.Del(ctx, investmentsKey(inv.UserID))
	return nil
}

func (s *CachedStore) DeleteInvestment(ctx context.Context, userID, investmentID string) error {
	if err := s.primary.DeleteInvestment(ctx, userID, investmentID); err != nil {
		return err
	}
	s.rdb.Del(ctx, investmentsKey(userID))
	return nil
}

// --- Read-through ---

func (s *CachedStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if s.get(ctx, profileKey(userID), &p) {
		return &p, nil
	}

	fresh, err := s.primary.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.set(ctx, profileKey(userID), fresh)
	return fresh, nil
}

func (s *CachedStore) GetLatestAssessment(ctx context.Context, userID string) (*model.RiskAssessment, error) {
	var a model.RiskAssessment
	if s.get(ctx, assessmentKey(userID), &a) {
		return &a, nil
	}

	fresh, err := s.primary.GetLatestAssessment(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.set(ctx, assessmentKey(userID), fresh)
	return fresh, nil
}

func (s *CachedStore) ListInvestments(ctx context.Context, userID string) ([]model.Investment, error) {
	var investments []model.Investment
	if s.get(ctx, investmentsKey(userID), &investments) && investments != nil {
		return investments, nil
	}

	fresh, err := s.primary.ListInvestments(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.set(ctx, investmentsKey(userID), fresh)
	return fresh, nil
}

// --- Cache helpers ---

func (s *CachedStore) get(ctx context.Context, key string, dst any) bool {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *CachedStore) set(ctx context.Context, key string, v any) {
	if data, err := json.Marshal(v); err == nil {
		s.rdb.Set(ctx, key, data, s.ttl)
	}
}

func profileKey(uid string) string     { return fmt.Sprintf("profile:%s", uid) }
func assessmentKey(uid string) string  { return fmt.Sprintf("assessment:%s", uid) }
func investmentsKey(uid string) string { return fmt.Sprintf("investments:%s", uid) }
