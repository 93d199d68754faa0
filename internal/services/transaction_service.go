// Package services orchestrates mutations across storage and the event bus.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/ledger"
)

// EventPublisher is the slice of the AMQP client the services need; nil
// disables publishing (memory backend, tests).
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, entity, action, entityID string) error
}

// TransactionService persists first, then notifies the insights worker.
// Publish failures never fail the request: the mutation is already durable.
type TransactionService struct {
	repo      ledger.TransactionRepository
	publisher EventPublisher
}

func NewTransactionService(repo ledger.TransactionRepository, publisher EventPublisher) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, created.ID)
	return created, nil
}

func (s *TransactionService) Update(ctx context.Context, t core.Transaction) error {
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionUpdated, t.ID)
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionDeleted, id)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, action, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, amqp.EntityTransaction, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", amqp.EntityTransaction,
			"action", action,
			"entity_id", id,
			"error", err)
	}
}
