package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

// amountScale is the number of decimal places kept when reading a REAL
// column, which drops float64 noise such as 23.3358999999999998.
const amountScale = 10

// totalTolerance bounds how far a stored total may drift from price + vat
// and still be read back as exactly price + vat.
var totalTolerance = decimal.New(1, -9)

const selectTransactions = `SELECT id, customer_supplier, type, description, price, vat, total, date, category FROM transactions`

// Append parses the draft, validates it and stores it. It returns the new
// record's id. Invalid drafts fail with ledger.ErrValidation and nothing is
// written.
func (s *Store) Append(ctx context.Context, d ledger.Draft) (int64, error) {
	txn, err := d.Parse()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("rejected draft")
		return 0, err
	}
	return s.insert(ctx, txn)
}

// Insert stores an already parsed transaction and sets its ID.
func (s *Store) Insert(ctx context.Context, txn *ledger.Transaction) (int64, error) {
	if err := txn.Validate(); err != nil {
		return 0, err
	}
	return s.insert(ctx, txn)
}

func (s *Store) insert(ctx context.Context, txn *ledger.Transaction) (int64, error) {
	l := zerolog.Ctx(ctx)

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Msg("begin tx")
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (customer_supplier, type, description, price, vat, total, date, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.CustomerSupplier, string(txn.Type), txn.Description,
		txn.Price.InexactFloat64(), txn.VAT.InexactFloat64(), txn.Total.InexactFloat64(),
		txn.Date, txn.Category,
	)
	if err != nil {
		l.Error().Err(err).Msg("insert transaction")
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	txn.ID = id
	l.Debug().Int64("id", id).Str("type", string(txn.Type)).Str("total", txn.Total.String()).Msg("transaction appended")
	return id, nil
}

// Get returns the transaction with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*ledger.Transaction, error) {
	row := s.reader.QueryRowContext(ctx, selectTransactions+` WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return txn, nil
}

// ListAll returns every transaction, most recently added first.
func (s *Store) ListAll(ctx context.Context) ([]ledger.Transaction, error) {
	return s.List(ctx, TxnFilter{})
}

// List returns transactions matching the filter, most recently added first.
func (s *Store) List(ctx context.Context, filter TxnFilter) ([]ledger.Transaction, error) {
	query := selectTransactions + ` WHERE 1=1`
	args := []any{}

	if filter.Type != "" {
		if !filter.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown type %q", ledger.ErrValidation, filter.Type)
		}
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}

	query += ` ORDER BY id DESC`

	switch {
	case filter.Limit > 0:
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	case filter.Offset > 0:
		query += fmt.Sprintf(` LIMIT -1 OFFSET %d`, filter.Offset)
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []ledger.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

// Count returns the number of stored transactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*ledger.Transaction, error) {
	var txn ledger.Transaction
	var customer, typ, description, date, category sql.NullString

	err := row.Scan(&txn.ID, &customer, &typ, &description, &txn.Price, &txn.VAT, &txn.Total, &date, &category)
	if err != nil {
		return nil, err
	}

	txn.Price = readAmount(txn.Price)
	txn.VAT = readAmount(txn.VAT)
	txn.Total = readAmount(txn.Total)

	// Rows written with float arithmetic can still differ from price + vat
	// in the last kept place.
	if sum := txn.Price.Add(txn.VAT); sum.Sub(txn.Total).Abs().LessThanOrEqual(totalTolerance) {
		txn.Total = sum
	}

	txn.CustomerSupplier = customer.String
	txn.Type = ledger.Type(typ.String)
	txn.Description = description.String
	txn.Date = date.String
	txn.Category = category.String
	return &txn, nil
}

func readAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(amountScale)
}
