package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"finances/internal/core"
)

func TestStore_UpsertAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	r := core.MonthlyRecord{ID: 2, UserID: 1, Month: 3, NetSalary: decimal.RequireFromString("10")}
	if err := s.UpsertMonthlyRecord(ctx, r); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	r.Month = 4
	if err := s.UpsertMonthlyRecord(ctx, r); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := s.UpsertMonthlyRecord(ctx, core.MonthlyRecord{ID: 1}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got := s.Records()
	if len(got) != 2 || got[0].ID != 1 || got[1].Month != 4 {
		t.Fatalf("Records() = %+v", got)
	}

	if err := s.DeleteMonthlyRecord(ctx, 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.DeleteMonthlyRecord(ctx, 99); err != nil {
		t.Fatalf("Delete(unknown) error = %v", err)
	}
	if _, ok := s.Get(2); ok {
		t.Error("record 2 still mirrored")
	}
	if s.Deletes() != 1 {
		t.Errorf("Deletes() = %d, want 1", s.Deletes())
	}
}
