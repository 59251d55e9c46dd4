package services

import (
	"context"
	"errors"
	"fmt"

	"everydollar/internal/amqp"
	"everydollar/internal/core"
	applog "everydollar/internal/log"
)

type LedgerStore interface {
	InsertTransaction(ctx context.Context, userID int64, t core.NewTransaction) (int64, error)
	ListTransactions(ctx context.Context, userID int64, f core.ListFilter) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// EventPublisher is implemented by *amqp.Client.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, e amqp.LedgerEvent) error
}

// SummaryInvalidator drops cached analytics for a user.
type SummaryInvalidator interface {
	Invalidate(userID int64)
}

// LedgerService owns the per-user transaction ledger. Every call is scoped
// to the user id passed in by the caller.
type LedgerService struct {
	store       LedgerStore
	publisher   EventPublisher
	invalidator SummaryInvalidator
}

// NewLedgerService wires the ledger. publisher and invalidator may be nil.
func NewLedgerService(store LedgerStore, publisher EventPublisher, invalidator SummaryInvalidator) *LedgerService {
	return &LedgerService{store: store, publisher: publisher, invalidator: invalidator}
}

// Add validates and stores a transaction for userID and returns its id.
func (s *LedgerService) Add(ctx context.Context, userID int64, t core.NewTransaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.InsertTransaction(ctx, userID, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}
	s.invalidate(userID)

	applog.FromContext(ctx).WithComponent(applog.ComponentLedger).InfoContext(ctx, "Transaction created",
		applog.NewFields().
			WithUser(userID).
			WithTransaction(id, string(t.Kind), t.Category, t.Amount.String()).
			WithOperation(applog.OpCreate).
			ToSlice()...)

	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventTransactionCreated, id, userID))
	return id, nil
}

// List returns the user's transactions in insertion order, narrowed by f.
func (s *LedgerService) List(ctx context.Context, userID int64, f core.ListFilter) ([]core.Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Delete removes a transaction owned by userID. Rows that are missing or
// belong to someone else both yield core.ErrNotFound.
func (s *LedgerService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidate(userID)

	applog.FromContext(ctx).WithComponent(applog.ComponentLedger).InfoContext(ctx, "Transaction deleted",
		applog.FieldUserID, userID,
		applog.FieldTransactionID, id,
		applog.FieldOperation, applog.OpDelete)

	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventTransactionDeleted, id, userID))
	return nil
}

func (s *LedgerService) invalidate(userID int64) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
}

// publish is best effort: the commit already happened, so a broker failure
// is logged and the request still succeeds.
func (s *LedgerService) publish(ctx context.Context, e amqp.LedgerEvent) {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentAMQP)
	if s.publisher == nil {
		logger.DebugContext(ctx, "AMQP client not available, skipping ledger event",
			applog.FieldEventType, e.Type)
		return
	}

	if err := s.publisher.PublishLedgerEvent(ctx, e); err != nil {
		logger.ErrorContext(ctx, "Failed to publish ledger event",
			applog.FieldEventType, e.Type,
			applog.FieldTransactionID, e.TransactionID,
			applog.FieldOperation, applog.OpPublish,
			applog.FieldError, err)
	}
}
