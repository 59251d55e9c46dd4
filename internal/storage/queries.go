package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"everydollar/internal/core"
)

const (
	insertUser = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`

	selectUserColumns = `SELECT id, username, password_hash, created_at FROM users`
	getUserByUsername = selectUserColumns + ` WHERE username = ?`

	insertTransaction = `INSERT INTO transactions (user_id, kind, amount, category, date, description)
VALUES (?, ?, ?, ?, ?, ?)`

	selectTransactionColumns = `SELECT id, user_id, kind, amount, category, date, description FROM transactions`
	getTransaction           = selectTransactionColumns + ` WHERE id = ?`
	listTransactionsInRange  = selectTransactionColumns +
		` WHERE user_id = ? AND date >= ? AND date < ? ORDER BY id ASC`

	deleteTransaction = `DELETE FROM transactions WHERE id = ? AND user_id = ?`
)

// listTransactionsQuery builds the owner-scoped listing with optional kind
// and text filters.
func listTransactionsQuery(userID int64, f core.ListFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(selectTransactionColumns)
	b.WriteString(` WHERE user_id = ?`)
	args := []any{userID}

	if f.Kind != "" {
		b.WriteString(` AND kind = ?`)
		args = append(args, string(f.Kind))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		b.WriteString(` AND (instr(lower(description), lower(?)) > 0 OR instr(lower(category), lower(?)) > 0)`)
		args = append(args, q, q)
	}
	b.WriteString(` ORDER BY id ASC`)
	return b.String(), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (core.User, error) {
	var (
		u         core.User
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt); err != nil {
		return core.User{}, err
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return u, nil
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		t            core.Transaction
		kind, amount string
		date         string
	)
	if err := row.Scan(&t.ID, &t.UserID, &kind, &amount, &t.Category, &date, &t.Description); err != nil {
		return core.Transaction{}, err
	}

	t.Kind = core.Kind(kind)
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode amount of transaction %d: %w", t.ID, err)
	}
	t.Amount = a
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode date of transaction %d: %w", t.ID, err)
	}
	t.Date = d
	return t, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}
