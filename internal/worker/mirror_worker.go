package worker

import (
	"context"
	"errors"
	"fmt"

	"finances/internal/amqp"
	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/sheets"
	"finances/internal/storage"
)

// RecordSource reads monthly records on behalf of their owner.
type RecordSource interface {
	Get(ctx context.Context, userID, id int64) (core.MonthlyRecord, error)
}

// MirrorWorker applies monthly-record change events to a sheet mirror.
// Events for other resources are acknowledged and ignored.
type MirrorWorker struct {
	records RecordSource
	mirror  sheets.MonthlyRecordMirror
	logger  *log.Logger
}

func NewMirrorWorker(records RecordSource, mirror sheets.MonthlyRecordMirror, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		records: records,
		mirror:  mirror,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange is the consumer callback. A returned error requeues the
// message once.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	fields := log.NewFields().
		WithResource(msg.Resource, msg.ID).
		WithUserID(msg.UserID).
		WithOperation(msg.Action)

	if msg.Resource != storage.MonthlyRecords.Resource {
		w.logger.DebugContext(ctx, "Ignoring change event", fields.ToSlice()...)
		return nil
	}
	if w.mirror == nil {
		w.logger.InfoContext(ctx, "Change event received, no mirror configured", fields.ToSlice()...)
		return nil
	}

	switch msg.Action {
	case amqp.ActionCreated, amqp.ActionUpdated:
		return w.upsert(ctx, msg, fields)
	case amqp.ActionDeleted:
		if err := w.mirror.DeleteMonthlyRecord(ctx, msg.ID); err != nil {
			return fmt.Errorf("mirror delete of record %d: %w", msg.ID, err)
		}
		w.logger.InfoContext(ctx, "Monthly record removed from mirror", fields.ToSlice()...)
		return nil
	default:
		return fmt.Errorf("unknown action %q", msg.Action)
	}
}

func (w *MirrorWorker) upsert(ctx context.Context, msg *amqp.ChangeMessage, fields log.LogFields) error {
	r, err := w.records.Get(ctx, msg.UserID, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// deleted before this event was processed; the delete event follows
		w.logger.DebugContext(ctx, "Monthly record gone, skipping mirror", fields.ToSlice()...)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load record %d: %w", msg.ID, err)
	}

	if err := w.mirror.UpsertMonthlyRecord(ctx, r); err != nil {
		return fmt.Errorf("mirror record %d: %w", msg.ID, err)
	}
	w.logger.InfoContext(ctx, "Monthly record mirrored", fields.ToSlice()...)
	return nil
}
