package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"finances/internal/amqp"
	"finances/internal/core"
	"finances/internal/sheets/memory"
)

type fakeRecords map[int64]core.MonthlyRecord

func (f fakeRecords) Get(_ context.Context, userID, id int64) (core.MonthlyRecord, error) {
	r, ok := f[id]
	if !ok || r.UserID != userID {
		return core.MonthlyRecord{}, core.ErrNotFound
	}
	return r, nil
}

type failingMirror struct{}

func (failingMirror) UpsertMonthlyRecord(context.Context, core.MonthlyRecord) error {
	return errors.New("quota exceeded")
}

func (failingMirror) DeleteMonthlyRecord(context.Context, int64) error {
	return errors.New("quota exceeded")
}

func TestMirrorWorker_HandleChange(t *testing.T) {
	records := fakeRecords{
		1: {ID: 1, UserID: 5, Month: 2, NetSalary: decimal.RequireFromString("100")},
	}
	mirror := memory.New()
	w := NewMirrorWorker(records, mirror, nil)
	ctx := context.Background()

	if err := w.HandleChange(ctx, amqp.NewChangeMessage("monthly-records", amqp.ActionCreated, 1, 5)); err != nil {
		t.Fatalf("created: %v", err)
	}
	if r, ok := mirror.Get(1); !ok || r.Month != 2 {
		t.Fatalf("mirror = %+v, %v", r, ok)
	}

	records[1] = core.MonthlyRecord{ID: 1, UserID: 5, Month: 9}
	if err := w.HandleChange(ctx, amqp.NewChangeMessage("monthly-records", amqp.ActionUpdated, 1, 5)); err != nil {
		t.Fatalf("updated: %v", err)
	}
	if r, _ := mirror.Get(1); r.Month != 9 {
		t.Errorf("mirrored month = %d, want 9", r.Month)
	}

	if err := w.HandleChange(ctx, amqp.NewChangeMessage("monthly-records", amqp.ActionDeleted, 1, 5)); err != nil {
		t.Fatalf("deleted: %v", err)
	}
	if _, ok := mirror.Get(1); ok {
		t.Error("record still mirrored after delete")
	}
}

func TestMirrorWorker_SkipsWhatItCannotMirror(t *testing.T) {
	mirror := memory.New()
	w := NewMirrorWorker(fakeRecords{}, mirror, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  *amqp.ChangeMessage
	}{
		{"other resource", amqp.NewChangeMessage("accounts", amqp.ActionCreated, 3, 5)},
		{"record already deleted", amqp.NewChangeMessage("monthly-records", amqp.ActionUpdated, 77, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.HandleChange(ctx, tt.msg); err != nil {
				t.Fatalf("HandleChange() error = %v", err)
			}
		})
	}
	if len(mirror.Records()) != 0 {
		t.Errorf("mirror = %+v, want empty", mirror.Records())
	}

	if err := NewMirrorWorker(fakeRecords{}, nil, nil).HandleChange(ctx,
		amqp.NewChangeMessage("monthly-records", amqp.ActionDeleted, 1, 1)); err != nil {
		t.Errorf("no mirror: %v", err)
	}
}

func TestMirrorWorker_MirrorFailureIsReturned(t *testing.T) {
	records := fakeRecords{1: {ID: 1, UserID: 5}}
	w := NewMirrorWorker(records, failingMirror{}, nil)
	ctx := context.Background()

	if err := w.HandleChange(ctx, amqp.NewChangeMessage("monthly-records", amqp.ActionCreated, 1, 5)); err == nil {
		t.Error("expected upsert failure to be returned for requeue")
	}
	if err := w.HandleChange(ctx, amqp.NewChangeMessage("monthly-records", amqp.ActionDeleted, 1, 5)); err == nil {
		t.Error("expected delete failure to be returned for requeue")
	}
	if err := w.HandleChange(ctx, &amqp.ChangeMessage{Resource: "monthly-records", Action: "archived", ID: 1}); err == nil {
		t.Error("expected unknown action error")
	}
}
