package sheets

import (
	"context"

	"everydollar/internal/core"
)

// LedgerMirror keeps a spreadsheet copy of committed ledger rows.
type LedgerMirror interface {
	// AppendTransaction adds t unless a row with its id is already present.
	AppendTransaction(ctx context.Context, t core.Transaction) error
	// DeleteTransaction clears the row holding id. A missing row is not an
	// error.
	DeleteTransaction(ctx context.Context, id int64) error
}

// Header is the column layout of a mirrored ledger sheet.
var Header = []string{"id", "user_id", "date", "kind", "category", "amount", "description"}

// Row renders t in Header order.
func Row(t core.Transaction) []any {
	return []any{t.ID, t.UserID, t.Date.String(), string(t.Kind), t.Category, t.Amount.String(), t.Description}
}
