package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date format used for Transaction.Date.
const DateLayout = "2006-01-02"

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Types lists every transaction type in display order.
var Types = []Type{TypeIncome, TypeExpense}

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Label returns the capitalized type name, e.g. "Income".
func (t Type) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// ParseType accepts a type name in any case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: type must be income or expense, got %q", ErrValidation, s)
	}
	return t, nil
}

type Transaction struct {
	ID               int64           `json:"id"`
	CustomerSupplier string          `json:"customer_supplier"`
	Type             Type            `json:"type"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	VAT              decimal.Decimal `json:"vat"`
	Total            decimal.Decimal `json:"total"`
	Date             string          `json:"date"`
	Category         string          `json:"category"`
}

// Validate checks the record invariants: a known type, non-negative amounts,
// total equal to price + vat and an ISO date when one is set.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense, got %q", ErrValidation, t.Type)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if t.VAT.IsNegative() {
		return fmt.Errorf("%w: vat must not be negative", ErrValidation)
	}
	if want := t.Price.Add(t.VAT); !want.Equal(t.Total) {
		return fmt.Errorf("%w: total %s does not equal price + vat (%s)", ErrValidation, t.Total, want)
	}
	if t.Date != "" {
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, t.Date)
		}
	}
	return nil
}

// Summary is the income/expense/balance report shown by both front ends.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// TypeTotal is one bar of the income vs expense chart.
type TypeTotal struct {
	Type   Type            `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}
