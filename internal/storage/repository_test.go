package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"everydollar/internal/core"
)

type RepositorySuite struct {
	suite.Suite
	repo  *SQLiteRepository
	ctx   context.Context
	alice int64
	bob   int64
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "data", "test.db"))
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()

	s.alice, err = s.repo.CreateUser(s.ctx, "alice", []byte("hash-a"))
	s.Require().NoError(err)
	s.bob, err = s.repo.CreateUser(s.ctx, "bob", []byte("hash-b"))
	s.Require().NoError(err)
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(s.repo.Close())
}

func (s *RepositorySuite) add(userID int64, kind core.Kind, amount, category, date, desc string) int64 {
	d, err := core.ParseDate(date)
	s.Require().NoError(err)
	id, err := s.repo.InsertTransaction(s.ctx, userID, core.NewTransaction{
		Kind:        kind,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Date:        d,
		Description: desc,
	})
	s.Require().NoError(err)
	return id
}

func (s *RepositorySuite) TestCreateUser_Duplicate() {
	_, err := s.repo.CreateUser(s.ctx, "alice", []byte("other"))
	s.ErrorIs(err, core.ErrDuplicateUsername)

	u, err := s.repo.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(s.alice, u.ID)
	s.Equal([]byte("hash-a"), u.PasswordHash)
}

func (s *RepositorySuite) TestGetUser() {
	u, err := s.repo.GetUserByUsername(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(s.bob, u.ID)
	s.False(u.CreatedAt.IsZero())

	_, err = s.repo.GetUserByUsername(s.ctx, "carol")
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *RepositorySuite) TestListTransactions_IsolatedPerUser() {
	a1 := s.add(s.alice, core.KindIncome, "1000", "salary", "2024-03-01", "")
	a2 := s.add(s.alice, core.KindExpense, "12.50", "food", "2024-03-02", "lunch")
	s.add(s.bob, core.KindExpense, "99", "rent", "2024-03-03", "")

	txs, err := s.repo.ListTransactions(s.ctx, s.alice, core.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(txs, 2)
	s.Equal(a1, txs[0].ID)
	s.Equal(a2, txs[1].ID)
	for _, t := range txs {
		s.Equal(s.alice, t.UserID)
	}
	s.True(txs[1].Amount.Equal(decimal.RequireFromString("12.5")))
	s.Equal("lunch", txs[1].Description)
}

func (s *RepositorySuite) TestListTransactions_EmptyIsNotNil() {
	txs, err := s.repo.ListTransactions(s.ctx, s.bob, core.ListFilter{})
	s.Require().NoError(err)
	s.NotNil(txs)
	s.Empty(txs)
}

func (s *RepositorySuite) TestListTransactions_Filters() {
	s.add(s.alice, core.KindIncome, "1000", "Salary", "2024-03-01", "March pay")
	s.add(s.alice, core.KindExpense, "40", "Groceries", "2024-03-02", "weekly shop")
	s.add(s.alice, core.KindExpense, "15", "Transport", "2024-03-03", "bus pass")

	txs, err := s.repo.ListTransactions(s.ctx, s.alice, core.ListFilter{Kind: core.KindExpense})
	s.Require().NoError(err)
	s.Len(txs, 2)

	txs, err = s.repo.ListTransactions(s.ctx, s.alice, core.ListFilter{Query: "GROC"})
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.Equal("Groceries", txs[0].Category)

	txs, err = s.repo.ListTransactions(s.ctx, s.alice, core.ListFilter{Kind: core.KindIncome, Query: "pay"})
	s.Require().NoError(err)
	s.Len(txs, 1)

	txs, err = s.repo.ListTransactions(s.ctx, s.alice, core.ListFilter{Kind: core.KindIncome, Query: "bus"})
	s.Require().NoError(err)
	s.Empty(txs)
}

func (s *RepositorySuite) TestDateRoundTrip() {
	id := s.add(s.alice, core.KindExpense, "1", "misc", "2024-05-10", "")

	t, err := s.repo.GetTransaction(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("2024-05-10", t.Date.String())
	s.Equal(10, t.Date.Day())
}

func (s *RepositorySuite) TestListTransactionsInRange() {
	s.add(s.alice, core.KindExpense, "10", "food", "2024-02-29", "")
	in := s.add(s.alice, core.KindExpense, "20", "food", "2024-03-01", "")
	last := s.add(s.alice, core.KindExpense, "30", "food", "2024-03-31", "")
	s.add(s.alice, core.KindExpense, "40", "food", "2024-04-01", "")
	s.add(s.bob, core.KindExpense, "50", "food", "2024-03-15", "")

	from, to := core.NewDate(2024, 3, 15).MonthWindow()
	txs, err := s.repo.ListTransactionsInRange(s.ctx, s.alice, from, to)
	s.Require().NoError(err)
	s.Require().Len(txs, 2)
	s.Equal(in, txs[0].ID)
	s.Equal(last, txs[1].ID)
}

func (s *RepositorySuite) TestDeleteTransaction() {
	id := s.add(s.alice, core.KindExpense, "5", "coffee", "2024-03-01", "")

	s.Require().NoError(s.repo.DeleteTransaction(s.ctx, s.alice, id))

	_, err := s.repo.GetTransaction(s.ctx, id)
	s.ErrorIs(err, core.ErrNotFound)

	s.ErrorIs(s.repo.DeleteTransaction(s.ctx, s.alice, id), core.ErrNotFound)
}

func (s *RepositorySuite) TestDeleteTransaction_ForeignRowIsNotFound() {
	id := s.add(s.alice, core.KindExpense, "5", "coffee", "2024-03-01", "")

	err := s.repo.DeleteTransaction(s.ctx, s.bob, id)
	s.ErrorIs(err, core.ErrNotFound)

	txs, err := s.repo.ListTransactions(s.ctx, s.alice, core.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.Equal(id, txs[0].ID)
}

func (s *RepositorySuite) TestInsertTransaction_UnknownUserViolatesForeignKey() {
	_, err := s.repo.InsertTransaction(s.ctx, 4242, core.NewTransaction{
		Kind:     core.KindIncome,
		Amount:   decimal.NewFromInt(1),
		Category: "x",
		Date:     core.NewDate(2024, 1, 1),
	})
	s.Error(err)
}

func (s *RepositorySuite) TestPing() {
	s.NoError(s.repo.Ping(s.ctx))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "m.db") + dsnPragmas
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("second run: %v", err)
	}
}
