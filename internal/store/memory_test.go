package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanchay/advisor-engine/internal/model"
)

func TestMemoryStore_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.GetProfile(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p := &model.Profile{UserID: "u1", FinancialContext: model.FinancialContext{
		Age:           30,
		MonthlyIncome: decimal.NewFromInt(50000),
		RiskTolerance: model.Moderate,
	}}
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	p.Age = 99 // caller mutation must not leak into the store

	got, err := s.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Age != 30 || !got.MonthlyIncome.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("unexpected profile %+v", got)
	}

	p.Age = 31
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetProfile(ctx, "u1")
	if got.Age != 31 {
		t.Errorf("upsert should replace, got age %d", got.Age)
	}
}

func TestMemoryStore_LatestAssessment(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := s.GetLatestAssessment(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	for i, tol := range []model.RiskTolerance{model.Conservative, model.Aggressive, model.Moderate} {
		// Inserted out of chronological order: aggressive is the newest.
		created := base.Add(time.Duration([]int{1, 3, 2}[i]) * time.Hour)
		if err := s.InsertAssessment(ctx, &model.RiskAssessment{
			ID: string(tol), UserID: "u1", Tolerance: tol, CreatedAt: created,
		}); err != nil {
			t.Fatal(err)
		}
	}
	_ = s.InsertAssessment(ctx, &model.RiskAssessment{ID: "other", UserID: "u2", CreatedAt: base.Add(time.Hour * 9)})

	got, err := s.GetLatestAssessment(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Tolerance != model.Aggressive {
		t.Errorf("expected newest (aggressive), got %s", got.Tolerance)
	}
}

func TestMemoryStore_Investments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	add := func(id, user string) {
		t.Helper()
		if err := s.AddInvestment(ctx, &model.Investment{
			ID: id, UserID: user, Type: model.TypeFixedDeposit, Amount: decimal.NewFromInt(10000),
		}); err != nil {
			t.Fatal(err)
		}
	}
	add("a", "u1")
	add("b", "u1")
	add("c", "u2")

	if err := s.AddInvestment(ctx, &model.Investment{ID: "a", UserID: "u1"}); err == nil {
		t.Error("duplicate id should be rejected")
	}

	list, _ := s.ListInvestments(ctx, "u1")
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("expected [a b], got %+v", list)
	}

	if err := s.DeleteInvestment(ctx, "u2", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting another user's holding should be not found, got %v", err)
	}
	if err := s.DeleteInvestment(ctx, "u1", "a"); err != nil {
		t.Fatal(err)
	}
	list, _ = s.ListInvestments(ctx, "u1")
	if len(list) != 1 || list[0].ID != "b" {
		t.Errorf("expected [b] after delete, got %+v", list)
	}

	empty, err := s.ListInvestments(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("unknown user should get an empty non-nil list, got %v (%v)", empty, err)
	}
}
