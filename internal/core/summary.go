package core

import "github.com/shopspring/decimal"

// Totals is the income/expense/balance triple of a summary.
type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// Summary is the analytics view of one calendar month of a user's ledger.
// Category maps only hold categories that occur in the window.
type Summary struct {
	From              Date                       `json:"from"`
	To                Date                       `json:"to"`
	Totals            Totals                     `json:"summary"`
	IncomeCategories  map[string]decimal.Decimal `json:"income_categories"`
	ExpenseCategories map[string]decimal.Decimal `json:"expense_categories"`
}

// Summarize aggregates the transactions dated in asOf's calendar month.
// Transactions outside the window are ignored.
func Summarize(txs []Transaction, asOf Date) Summary {
	from, to := asOf.MonthWindow()
	s := Summary{
		From: from,
		To:   to,
		Totals: Totals{
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
			Balance:  decimal.Zero,
		},
		IncomeCategories:  map[string]decimal.Decimal{},
		ExpenseCategories: map[string]decimal.Decimal{},
	}

	for _, t := range txs {
		if !t.Date.Within(from, to) {
			continue
		}
		switch t.Kind {
		case KindIncome:
			s.Totals.Income = s.Totals.Income.Add(t.Amount)
			s.IncomeCategories[t.Category] = s.IncomeCategories[t.Category].Add(t.Amount)
		case KindExpense:
			s.Totals.Expenses = s.Totals.Expenses.Add(t.Amount)
			s.ExpenseCategories[t.Category] = s.ExpenseCategories[t.Category].Add(t.Amount)
		}
	}
	s.Totals.Balance = s.Totals.Income.Sub(s.Totals.Expenses)
	return s
}
