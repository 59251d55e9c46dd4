package core

import "github.com/shopspring/decimal"

const (
	TierNoData       Tier = "no_data"
	TierExcellent    Tier = "excellent"
	TierGood         Tier = "good"
	TierMinimal      Tier = "minimal"
	TierOverspending Tier = "overspending"
)

var (
	excellentRate = decimal.RequireFromString("0.20")
	goodRate      = decimal.RequireFromString("0.10")
)

var tierMessages = map[Tier]string{
	TierNoData:       "No income data available for savings suggestions.",
	TierExcellent:    "Great job! You're saving more than 20% of your income.",
	TierGood:         "Good progress! Try increasing savings to 20% of income.",
	TierMinimal:      "Consider saving at least 10% of your income.",
	TierOverspending: "Warning: You're spending more than you earn. Review expenses.",
}

type Tier string

// Message returns the user-facing text of the tier.
func (t Tier) Message() string {
	return tierMessages[t]
}

// Suggestion is a savings-rate band with its message. Rate is nil when no
// income is known.
type Suggestion struct {
	Tier    Tier             `json:"tier"`
	Rate    *decimal.Decimal `json:"rate,omitempty"`
	Message string           `json:"suggestion"`
}

// SuggestSavings classifies the savings rate (income-expenses)/income.
// Lower bounds are inclusive: >=0.20 excellent, >=0.10 good, >0 minimal,
// anything else overspending. Zero income yields the no-data tier.
//
// The tier is picked by comparing savings against rate*income so no
// rounding from the division can move a value across a boundary.
func SuggestSavings(income, expenses decimal.Decimal) Suggestion {
	if income.IsZero() {
		return Suggestion{Tier: TierNoData, Message: TierNoData.Message()}
	}

	savings := income.Sub(expenses)
	// rate >= r  <=>  savings >= r*income for positive income; flipped otherwise.
	atLeast := func(r decimal.Decimal) bool {
		cmp := savings.Cmp(r.Mul(income))
		if income.IsNegative() {
			return cmp <= 0
		}
		return cmp >= 0
	}
	positive := savings.Sign() != 0 && savings.Sign() == income.Sign()

	var tier Tier
	switch {
	case atLeast(excellentRate):
		tier = TierExcellent
	case atLeast(goodRate):
		tier = TierGood
	case positive:
		tier = TierMinimal
	default:
		tier = TierOverspending
	}
	rate := savings.Div(income)
	return Suggestion{Tier: tier, Rate: &rate, Message: tier.Message()}
}

// SuggestFromSummary derives the suggestion from a ledger summary.
func SuggestFromSummary(s Summary) Suggestion {
	return SuggestSavings(s.Totals.Income, s.Totals.Expenses)
}
