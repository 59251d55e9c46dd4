package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everydollar/internal/amqp"
	"everydollar/internal/core"
	applog "everydollar/internal/log"
	"everydollar/internal/sheets/memory"
)

type fakeStore struct {
	txs map[int64]core.Transaction
	err error
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	t, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

type failingMirror struct{}

func (failingMirror) AppendTransaction(context.Context, core.Transaction) error {
	return errors.New("quota exceeded")
}

func (failingMirror) DeleteTransaction(context.Context, int64) error {
	return errors.New("quota exceeded")
}

func newStore() *fakeStore {
	return &fakeStore{txs: map[int64]core.Transaction{
		1: {ID: 1, UserID: 10, Kind: core.KindExpense, Amount: decimal.NewFromInt(5), Category: "food", Date: core.NewDate(2024, 3, 1)},
	}}
}

func TestMirrorWorker_CreatedThenDeleted(t *testing.T) {
	mirror := memory.New()
	w := NewMirrorWorker(newStore(), mirror)
	ctx := context.Background()

	require.NoError(t, w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 10)))
	require.Len(t, mirror.Rows(), 1)
	assert.Equal(t, "food", mirror.Rows()[0][4])

	require.NoError(t, w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionDeleted, 1, 10)))
	assert.Empty(t, mirror.Rows())
}

func TestMirrorWorker_CreatedForMissingRowIsSkipped(t *testing.T) {
	mirror := memory.New()
	w := NewMirrorWorker(newStore(), mirror)

	require.NoError(t, w.HandleEvent(context.Background(), amqp.NewLedgerEvent(amqp.EventTransactionCreated, 99, 10)))
	assert.Empty(t, mirror.Rows())
}

func TestMirrorWorker_OwnerMismatchIsSkipped(t *testing.T) {
	mirror := memory.New()
	w := NewMirrorWorker(newStore(), mirror)

	require.NoError(t, w.HandleEvent(context.Background(), amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 11)))
	assert.Empty(t, mirror.Rows())
}

func TestMirrorWorker_ErrorsRequeue(t *testing.T) {
	ctx := context.Background()

	w := NewMirrorWorker(&fakeStore{err: errors.New("database is locked")}, memory.New())
	assert.Error(t, w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 10)))

	w = NewMirrorWorker(newStore(), failingMirror{})
	assert.Error(t, w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 10)))
	assert.Error(t, w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionDeleted, 1, 10)))
}

func TestMirrorWorker_LogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Format: "text", Component: applog.ComponentApp, Output: &buf})
	ctx := applog.NewContext(context.Background(), logger)
	w := NewMirrorWorker(newStore(), memory.New())

	require.NoError(t, w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 10)))

	out := buf.String()
	assert.Contains(t, out, "component=worker")
	assert.Contains(t, out, "transaction_id=1")
	assert.Contains(t, out, "operation=mirror")
	assert.NotContains(t, out, "component=app")
}
