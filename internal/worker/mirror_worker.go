package worker

import (
	"context"
	"errors"
	"fmt"

	"everydollar/internal/amqp"
	"everydollar/internal/core"
	applog "everydollar/internal/log"
	"everydollar/internal/sheets"
)

// TransactionGetter loads a committed transaction by id.
type TransactionGetter interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

// MirrorWorker applies ledger events to a spreadsheet mirror.
type MirrorWorker struct {
	storage TransactionGetter
	mirror  sheets.LedgerMirror
}

func NewMirrorWorker(storage TransactionGetter, mirror sheets.LedgerMirror) *MirrorWorker {
	return &MirrorWorker{storage: storage, mirror: mirror}
}

// HandleEvent is the AMQP consumer callback. A returned error requeues the
// message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, e amqp.LedgerEvent) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker)
	logger.InfoContext(ctx, "Processing ledger event",
		applog.FieldEventType, e.Type,
		applog.FieldTransactionID, e.TransactionID,
		applog.FieldUserID, e.UserID)

	switch e.Type {
	case amqp.EventTransactionCreated:
		return w.handleCreated(ctx, e)
	case amqp.EventTransactionDeleted:
		return w.handleDeleted(ctx, e)
	default:
		// Validated upstream; anything else is dropped rather than requeued forever.
		logger.WarnContext(ctx, "Ignoring unknown ledger event", applog.FieldEventType, e.Type)
		return nil
	}
}

func (w *MirrorWorker) handleCreated(ctx context.Context, e amqp.LedgerEvent) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker)
	t, err := w.storage.GetTransaction(ctx, e.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before the worker got to it; the delete event follows.
		logger.InfoContext(ctx, "Transaction gone before mirroring, skipping",
			applog.FieldTransactionID, e.TransactionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if t.UserID != e.UserID {
		logger.WarnContext(ctx, "Ledger event owner does not match stored row, skipping",
			applog.FieldTransactionID, e.TransactionID,
			applog.FieldUserID, e.UserID,
			"row_user_id", t.UserID)
		return nil
	}

	if err := w.mirror.AppendTransaction(ctx, t); err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	logger.InfoContext(ctx, "Transaction mirrored",
		applog.FieldTransactionID, t.ID,
		applog.FieldOperation, applog.OpMirror)
	return nil
}

func (w *MirrorWorker) handleDeleted(ctx context.Context, e amqp.LedgerEvent) error {
	if err := w.mirror.DeleteTransaction(ctx, e.TransactionID); err != nil {
		return fmt.Errorf("delete from mirror: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentWorker).InfoContext(ctx, "Transaction removed from mirror",
		applog.FieldTransactionID, e.TransactionID,
		applog.FieldOperation, applog.OpDelete)
	return nil
}
