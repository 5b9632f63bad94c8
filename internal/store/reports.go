package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

// SumByType returns the sum of total over transactions of the given type.
// It is zero when nothing matches.
func (s *Store) SumByType(ctx context.Context, typ ledger.Type) (decimal.Decimal, error) {
	if !typ.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown type %q", ledger.ErrValidation, typ)
	}

	rows, err := s.reader.QueryContext(ctx, `SELECT total FROM transactions WHERE type = ?`, string(typ))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum by type: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var total decimal.Decimal
		if err := rows.Scan(&total); err != nil {
			return decimal.Zero, fmt.Errorf("scan total: %w", err)
		}
		sum = sum.Add(readAmount(total))
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Summary returns income, expense and balance computed from a single read,
// so the three figures are always consistent with each other.
func (s *Store) Summary(ctx context.Context) (*ledger.Summary, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT type, total FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}
	defer rows.Close()

	sum := &ledger.Summary{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for rows.Next() {
		var typ string
		var total decimal.Decimal
		if err := rows.Scan(&typ, &total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		switch ledger.Type(typ) {
		case ledger.TypeIncome:
			sum.Income = sum.Income.Add(readAmount(total))
		case ledger.TypeExpense:
			sum.Expense = sum.Expense.Add(readAmount(total))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sum.Balance = sum.Income.Sub(sum.Expense)
	return sum, nil
}

// Balance is income minus expense.
func (s *Store) Balance(ctx context.Context) (decimal.Decimal, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return sum.Balance, nil
}

// TotalsByType returns one entry per transaction type, in ledger.Types
// order, with zero for types that have no records.
func (s *Store) TotalsByType(ctx context.Context) ([]ledger.TypeTotal, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return []ledger.TypeTotal{
		{Type: ledger.TypeIncome, Amount: sum.Income},
		{Type: ledger.TypeExpense, Amount: sum.Expense},
	}, nil
}
