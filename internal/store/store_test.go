package store

import (
	"bytes"
	"context"
	"database/sql"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/ledgerbook/internal/csvio"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

var equateDecimals = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func incomeDraft() ledger.Draft {
	return ledger.Draft{
		CustomerSupplier: "ACME",
		Type:             "income",
		Description:      "Consulting",
		Price:            "100",
		VAT:              "19",
		Total:            "119",
		Date:             "2024-03-01",
		Category:         "services",
	}
}

func expenseDraft() ledger.Draft {
	return ledger.Draft{
		CustomerSupplier: "Office Depot",
		Type:             "expense",
		Description:      "Paper",
		Price:            "50",
		VAT:              "4.5",
		Total:            "54.5",
		Date:             "2024-03-02",
		Category:         "office",
	}
}

func TestAppendThenListAll(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	id1, err := st.Append(ctx, incomeDraft())
	require.NoError(t, err)
	id2, err := st.Append(ctx, expenseDraft())
	require.NoError(t, err)
	require.Greater(t, id2, id1)

	txns, err := st.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	want := []ledger.Transaction{
		{
			ID:               id2,
			CustomerSupplier: "Office Depot",
			Type:             ledger.TypeExpense,
			Description:      "Paper",
			Price:            decimal.NewFromInt(50),
			VAT:              decimal.RequireFromString("4.5"),
			Total:            decimal.RequireFromString("54.5"),
			Date:             "2024-03-02",
			Category:         "office",
		},
		{
			ID:               id1,
			CustomerSupplier: "ACME",
			Type:             ledger.TypeIncome,
			Description:      "Consulting",
			Price:            decimal.NewFromInt(100),
			VAT:              decimal.NewFromInt(19),
			Total:            decimal.NewFromInt(119),
			Date:             "2024-03-01",
			Category:         "services",
		},
	}
	if diff := cmp.Diff(want, txns, equateDecimals); diff != "" {
		t.Errorf("ListAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestBalanceExample(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Append(ctx, incomeDraft())
	require.NoError(t, err)
	_, err = st.Append(ctx, expenseDraft())
	require.NoError(t, err)

	balance, err := st.Balance(ctx)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("64.5")), "balance = %s", balance)

	txns, err := st.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, ledger.TypeExpense, txns[0].Type)
	require.Equal(t, ledger.TypeIncome, txns[1].Type)
}

func TestAppendValidationLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Append(ctx, incomeDraft())
	require.NoError(t, err)

	testCases := []struct {
		name   string
		mutate func(d *ledger.Draft)
	}{
		{name: "EmptyPrice", mutate: func(d *ledger.Draft) { d.Price = "" }},
		{name: "NonNumericVAT", mutate: func(d *ledger.Draft) { d.VAT = "abc" }},
		{name: "MissingType", mutate: func(d *ledger.Draft) { d.Type = "" }},
		{name: "TotalMismatch", mutate: func(d *ledger.Draft) { d.Total = "1" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := incomeDraft()
			tc.mutate(&d)

			id, err := st.Append(ctx, d)
			require.ErrorIs(t, err, ledger.ErrValidation)
			require.Zero(t, id)

			txns, err := st.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, txns, 1)
		})
	}
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	txn := &ledger.Transaction{
		Type:  ledger.TypeExpense,
		Price: decimal.NewFromInt(10),
		VAT:   decimal.NewFromInt(1),
		Total: decimal.NewFromInt(11),
	}
	id, err := st.Insert(ctx, txn)
	require.NoError(t, err)
	require.Equal(t, id, txn.ID)

	bad := &ledger.Transaction{Type: "gift", Price: decimal.NewFromInt(1), Total: decimal.NewFromInt(1)}
	_, err = st.Insert(ctx, bad)
	require.ErrorIs(t, err, ledger.ErrValidation)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSumByTypeEmptyIsZero(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	for _, typ := range ledger.Types {
		sum, err := st.SumByType(ctx, typ)
		require.NoError(t, err)
		require.True(t, sum.IsZero())
		require.Equal(t, "0", sum.String())
	}

	_, err := st.Append(ctx, incomeDraft())
	require.NoError(t, err)

	sum, err := st.SumByType(ctx, ledger.TypeExpense)
	require.NoError(t, err)
	require.True(t, sum.IsZero())

	_, err = st.SumByType(ctx, "refund")
	require.ErrorIs(t, err, ledger.ErrValidation)
}

func TestSumsAreExactDecimals(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	for _, total := range []string{"0.1", "0.2"} {
		_, err := st.Append(ctx, ledger.Draft{Type: "income", Price: total, VAT: "0", Total: total})
		require.NoError(t, err)
	}

	sum, err := st.SumByType(ctx, ledger.TypeIncome)
	require.NoError(t, err)
	require.Equal(t, "0.3", sum.String())
}

func TestBalanceMatchesSumByType(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 40; i++ {
		price := decimal.New(rng.Int63n(100_000), -2)
		rate := ledger.VATRates[rng.Intn(len(ledger.VATRates))]
		vat, total, err := ledger.ComputeVAT(price, rate)
		require.NoError(t, err)

		typ := ledger.Types[rng.Intn(len(ledger.Types))]
		_, err = st.Insert(ctx, &ledger.Transaction{Type: typ, Price: price, VAT: vat, Total: total})
		require.NoError(t, err)

		income, err := st.SumByType(ctx, ledger.TypeIncome)
		require.NoError(t, err)
		expense, err := st.SumByType(ctx, ledger.TypeExpense)
		require.NoError(t, err)
		balance, err := st.Balance(ctx)
		require.NoError(t, err)

		require.True(t, balance.Equal(income.Sub(expense)), "step %d: %s != %s - %s", i, balance, income, expense)
	}
}

func TestSummaryAndTotalsByType(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Append(ctx, incomeDraft())
	require.NoError(t, err)
	_, err = st.Append(ctx, expenseDraft())
	require.NoError(t, err)
	_, err = st.Append(ctx, incomeDraft())
	require.NoError(t, err)

	sum, err := st.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "238", sum.Income.String())
	require.Equal(t, "54.5", sum.Expense.String())
	require.Equal(t, "183.5", sum.Balance.String())

	totals, err := st.TotalsByType(ctx)
	require.NoError(t, err)
	want := []ledger.TypeTotal{
		{Type: ledger.TypeIncome, Amount: decimal.NewFromInt(238)},
		{Type: ledger.TypeExpense, Amount: decimal.RequireFromString("54.5")},
	}
	if diff := cmp.Diff(want, totals, equateDecimals); diff != "" {
		t.Errorf("TotalsByType() mismatch (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	id, err := st.Append(ctx, incomeDraft())
	require.NoError(t, err)

	txn, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "ACME", txn.CustomerSupplier)
	require.True(t, txn.Total.Equal(decimal.NewFromInt(119)))

	_, err = st.Get(ctx, id+100)
	require.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestListFilter(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := st.Append(ctx, incomeDraft())
		require.NoError(t, err)
		_, err = st.Append(ctx, expenseDraft())
		require.NoError(t, err)
	}

	incomes, err := st.List(ctx, TxnFilter{Type: ledger.TypeIncome})
	require.NoError(t, err)
	require.Len(t, incomes, 3)
	for _, txn := range incomes {
		require.Equal(t, ledger.TypeIncome, txn.Type)
	}

	page, err := st.List(ctx, TxnFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, int64(5), page[0].ID)

	rest, err := st.List(ctx, TxnFilter{Offset: 4})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	require.Equal(t, int64(2), rest[0].ID)
	require.Equal(t, int64(1), rest[1].ID)

	_, err = st.List(ctx, TxnFilter{Type: "bogus"})
	require.ErrorIs(t, err, ledger.ErrValidation)
}

func TestListAllEmpty(t *testing.T) {
	txns, err := newTestStore(t).ListAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, txns)
	require.Empty(t, txns)
}

func TestInitializeIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Append(ctx, incomeDraft())
	require.NoError(t, err)

	schemaBefore := readSchema(t, st)

	require.NoError(t, st.Initialize(ctx))
	require.NoError(t, st.Initialize(ctx))

	require.Equal(t, schemaBefore, readSchema(t, st))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var versions int
	require.NoError(t, st.reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&versions))
	require.Equal(t, 1, versions)
}

func TestOpenExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounting.db")

	// A database written before schema_version existed.
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE transactions (
		id INTEGER PRIMARY KEY,
		customer_supplier TEXT,
		type TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		vat REAL NOT NULL,
		total REAL NOT NULL,
		date TEXT,
		category TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO transactions (customer_supplier, type, description, price, vat, total, date, category)
		VALUES ('Old', 'income', 'Legacy', 10.0, 1.9, 11.9, '2023-12-31', NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	txns, err := st.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.Equal(t, "Old", txns[0].CustomerSupplier)
	require.Empty(t, txns[0].Category)
	require.Equal(t, "11.9", txns[0].Total.String())
}

// Rows written with float64 arithmetic (vat = price * rate, total = price +
// vat) read back as exact records that survive an export and re-import.
func TestFloatRowsSurviveExportImport(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	rates := []float64{0.19, 0.09, 0}
	const rows = 300
	for cents := 1; cents <= rows; cents++ {
		price := float64(cents*7) / 100
		vat := price * rates[cents%len(rates)]
		total := price + vat
		_, err := st.writer.ExecContext(ctx,
			`INSERT INTO transactions (customer_supplier, type, description, price, vat, total, date, category)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			"Legacy", "income", "", price, vat, total, "2023-06-01", "")
		require.NoError(t, err)
	}

	txns, err := st.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, txns, rows)
	for _, txn := range txns {
		require.NoError(t, txn.Validate(), "id %d", txn.ID)
	}

	// 1.47 + 0.2793 is stored as 1.7492999999999999.
	got, err := st.Get(ctx, 21)
	require.NoError(t, err)
	require.Equal(t, "1.47", got.Price.String())
	require.Equal(t, "0.2793", got.VAT.String())
	require.Equal(t, "1.7493", got.Total.String())

	var buf bytes.Buffer
	require.NoError(t, csvio.WriteTransactions(&buf, txns))

	drafts, errs := csvio.ReadDrafts(&buf)
	require.Empty(t, errs)
	require.Len(t, drafts, rows)
}

func TestOpenUnavailable(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	require.ErrorIs(t, err, ledger.ErrStorageUnavailable)
}

func readSchema(t *testing.T, st *Store) []string {
	t.Helper()

	rows, err := st.reader.Query(`SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		out = append(out, s)
	}
	require.NoError(t, rows.Err())
	return out
}
