package services

import (
	"context"
	"encoding/json"
	"fmt"

	"finances/internal/amqp"
	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/storage"
)

// Publisher announces committed changes. *amqp.Client satisfies it.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// ResourceService orchestrates one owned resource across the store and the
// change-event publisher. The store write is authoritative: publication
// failures are logged and never fail the call.
type ResourceService[T core.Entity] struct {
	repo      *storage.Repository[T]
	publisher Publisher
	logger    *log.Logger
	changes   *log.StructuredLogger
}

func NewResourceService[T core.Entity](repo *storage.Repository[T], publisher Publisher, logger *log.Logger) *ResourceService[T] {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentResource)
	return &ResourceService[T]{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		changes:   log.NewStructuredLogger(logger),
	}
}

func (s *ResourceService[T]) Resource() string {
	return s.repo.Descriptor().Resource
}

// Decode turns a request body into values for Create or Update.
func (s *ResourceService[T]) Decode(body map[string]json.RawMessage) (storage.Values, error) {
	return s.repo.Descriptor().Decode(body)
}

func (s *ResourceService[T]) List(ctx context.Context, userID int64) ([]T, error) {
	return s.repo.List(ctx, userID)
}

func (s *ResourceService[T]) Get(ctx context.Context, userID, id int64) (T, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *ResourceService[T]) Create(ctx context.Context, userID int64, values storage.Values) (T, error) {
	item, err := s.repo.Create(ctx, userID, values)
	if err != nil {
		return item, fmt.Errorf("create %s: %w", s.Resource(), err)
	}
	s.changed(ctx, amqp.ActionCreated, item.GetID(), userID)
	return item, nil
}

func (s *ResourceService[T]) Update(ctx context.Context, userID, id int64, values storage.Values) (T, error) {
	item, err := s.repo.Update(ctx, userID, id, values)
	if err != nil {
		return item, fmt.Errorf("update %s %d: %w", s.Resource(), id, err)
	}
	s.changed(ctx, amqp.ActionUpdated, id, userID)
	return item, nil
}

func (s *ResourceService[T]) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.Resource(), id, err)
	}
	s.changed(ctx, amqp.ActionDeleted, id, userID)
	return nil
}

func (s *ResourceService[T]) changed(ctx context.Context, action string, id, userID int64) {
	s.changes.LogResourceChanged(ctx, action, s.Resource(), id, userID)
	publish(ctx, s.publisher, s.logger, amqp.NewChangeMessage(s.Resource(), action, id, userID))
}

func publish(ctx context.Context, p Publisher, logger *log.Logger, msg *amqp.ChangeMessage) {
	if p == nil {
		logger.DebugContext(ctx, "Change publisher not configured, skipping event",
			log.FieldResource, msg.Resource, log.FieldResourceID, msg.ID)
		return
	}
	if err := p.PublishChange(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish change message",
			log.FieldResource, msg.Resource,
			log.FieldResourceID, msg.ID,
			log.FieldError, err.Error())
	}
}
