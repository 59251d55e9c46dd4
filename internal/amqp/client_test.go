package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (r *recordingAck) Ack(bool) error {
	r.acked = true
	return nil
}

func (r *recordingAck) Nack(_ bool, requeue bool) error {
	r.nacked = true
	r.requeue = requeue
	return nil
}

func TestLedgerEvent_JSONRoundTrip(t *testing.T) {
	e := NewLedgerEvent(EventTransactionCreated, 12, 3)

	body, err := e.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"type":"transaction.created"`)
	assert.Contains(t, string(body), `"transaction_id":12`)

	back, err := LedgerEventFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, e.Type, back.Type)
	assert.Equal(t, e.TransactionID, back.TransactionID)
	assert.Equal(t, e.UserID, back.UserID)
	assert.True(t, e.Timestamp.Equal(back.Timestamp))
}

func TestLedgerEventFromJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown type", `{"type":"transaction.updated","transaction_id":1,"user_id":1}`},
		{"missing transaction", `{"type":"transaction.deleted","user_id":1}`},
		{"missing user", `{"type":"transaction.deleted","transaction_id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LedgerEventFromJSON([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestHandleDelivery(t *testing.T) {
	valid, err := NewLedgerEvent(EventTransactionDeleted, 5, 2).ToJSON()
	require.NoError(t, err)

	t.Run("success acks", func(t *testing.T) {
		ack := &recordingAck{}
		var got LedgerEvent
		handleDelivery(context.Background(), delivery{body: valid, ack: ack}, func(_ context.Context, e LedgerEvent) error {
			got = e
			return nil
		})
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, int64(5), got.TransactionID)
	})

	t.Run("malformed is dropped", func(t *testing.T) {
		ack := &recordingAck{}
		called := false
		handleDelivery(context.Background(), delivery{body: []byte("garbage"), ack: ack}, func(context.Context, LedgerEvent) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})

	t.Run("handler failure requeues", func(t *testing.T) {
		ack := &recordingAck{}
		handleDelivery(context.Background(), delivery{body: valid, ack: ack}, func(context.Context, LedgerEvent) error {
			return errors.New("sheets unavailable")
		})
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})
}

func TestConsume_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp091.Delivery)

	done := make(chan error, 1)
	go func() {
		done <- consume(ctx, msgs, func(context.Context, LedgerEvent) error { return nil })
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consume did not return after cancel")
	}
}

func TestConsume_ClosedChannel(t *testing.T) {
	msgs := make(chan amqp091.Delivery)
	close(msgs)

	err := consume(context.Background(), msgs, func(context.Context, LedgerEvent) error { return nil })
	assert.EqualError(t, err, "message channel closed")
}
