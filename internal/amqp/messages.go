package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventType names a ledger change.
type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionDeleted EventType = "transaction.deleted"
)

// LedgerEvent is published after a committed ledger write. It carries ids
// only; consumers load the row themselves.
type LedgerEvent struct {
	Type          EventType `json:"type"`
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEvent stamps an event with the current time.
func NewLedgerEvent(t EventType, transactionID, userID int64) LedgerEvent {
	return LedgerEvent{
		Type:          t,
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now().UTC(),
	}
}

func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e LedgerEvent) Validate() error {
	switch e.Type {
	case EventTransactionCreated, EventTransactionDeleted:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.TransactionID <= 0 {
		return errors.New("transaction id must be positive")
	}
	if e.UserID <= 0 {
		return errors.New("user id must be positive")
	}
	return nil
}

// LedgerEventFromJSON decodes and validates an event body.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, fmt.Errorf("decode ledger event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return LedgerEvent{}, fmt.Errorf("invalid ledger event: %w", err)
	}
	return e, nil
}
