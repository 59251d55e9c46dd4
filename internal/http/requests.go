package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"everydollar/internal/core"
)

// flexAmount accepts an amount given either as a JSON number or a string.
type flexAmount string

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	switch {
	case string(b) == "null":
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = flexAmount(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*a = flexAmount(n)
	}
	return nil
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r RegisterRequest) Validate() error {
	if err := core.ValidateCredentials(r.Username, r.Password); err != nil {
		return err
	}
	if r.Password != r.ConfirmPassword {
		return core.ErrPasswordMismatch
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return fmt.Errorf("%w: username and password required", core.ErrInvalidInput)
	}
	return nil
}

type TransactionRequest struct {
	Type        string     `json:"type"`
	Amount      flexAmount `json:"amount"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
}

// ToNewTransaction parses and validates the request into a ledger insert.
func (r TransactionRequest) ToNewTransaction() (core.NewTransaction, error) {
	kind, err := core.ParseKind(r.Type)
	if err != nil {
		return core.NewTransaction{}, err
	}
	amount, err := core.ParseAmount(string(r.Amount))
	if err != nil {
		return core.NewTransaction{}, err
	}
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.NewTransaction{}, err
	}

	t := core.NewTransaction{
		Kind:        kind,
		Amount:      amount,
		Category:    strings.TrimSpace(r.Category),
		Date:        date,
		Description: strings.TrimSpace(r.Description),
	}
	return t, t.Validate()
}

// SuggestionRequest carries caller-supplied figures. Missing fields are zero.
type SuggestionRequest struct {
	Income   flexAmount `json:"income"`
	Expenses flexAmount `json:"expenses"`
}

func (r SuggestionRequest) Parse() (income, expenses decimal.Decimal, err error) {
	if income, err = parseFigure(string(r.Income), "income"); err != nil {
		return
	}
	expenses, err = parseFigure(string(r.Expenses), "expenses")
	return
}

func parseFigure(s, field string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := core.ParseSignedAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", core.ErrInvalidInput, field)
	}
	return d, nil
}
