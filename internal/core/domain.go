package core

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

const (
	// DateLayout is the wire and storage format of a transaction date.
	DateLayout = "2006-01-02"

	MaxUsernameLength    = 80
	MaxCategoryLength    = 100
	MaxDescriptionLength = 200

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

type (
	Kind string

	// Date is a calendar date. The wrapped time is always midnight UTC so a
	// stored date reads back as the same day regardless of the host zone.
	Date struct {
		time.Time
	}

	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		PasswordHash []byte    `json:"-"`
		CreatedAt    time.Time `json:"created_at"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		UserID      int64           `json:"user_id"`
		Kind        Kind            `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
	}

	// NewTransaction holds the caller-supplied fields of a ledger insert.
	NewTransaction struct {
		Kind        Kind
		Amount      decimal.Decimal
		Category    string
		Date        Date
		Description string
	}

	// ListFilter narrows a ledger listing. The zero value matches everything.
	ListFilter struct {
		Kind  Kind
		Query string
	}
)

// ParseKind validates a transaction kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case KindIncome, KindExpense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthWindow returns the half-open range [first day of d's month, first day
// of the next month).
func (d Date) MonthWindow() (from, to Date) {
	from = NewDate(d.Year(), int(d.Month()), 1)
	to = Date{Time: from.AddDate(0, 1, 0)}
	return from, to
}

// Within reports whether d falls in [from, to).
func (d Date) Within(from, to Date) bool {
	return !d.Before(from.Time) && d.Before(to.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidateCredentials checks the fields every registration needs.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (t NewTransaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if utf8.RuneCountInString(t.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	return t.Date.Validate()
}

func (f ListFilter) Validate() error {
	if f.Kind == "" {
		return nil
	}
	return f.Kind.Validate()
}

// Match reports whether t passes the filter. Query matches description or
// category, case-insensitively.
func (f ListFilter) Match(t Transaction) bool {
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.Category), q)
}
