package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

func TestReadDraftsValid(t *testing.T) {
	content := `customer_supplier,type,description,price,vat,total,date,category
ACME,income,Consulting,100,19,119,2024-03-01,services
Office Depot,Expense,Paper,50,4.5,54.5,2024-03-02,office`

	drafts, errs := ReadDrafts(strings.NewReader(content))
	require.Empty(t, errs)
	require.Len(t, drafts, 2)

	assert.Equal(t, "ACME", drafts[0].CustomerSupplier)
	assert.Equal(t, "119", drafts[0].Total)
	assert.Equal(t, "Expense", drafts[1].Type)

	txn, err := drafts[1].Parse()
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeExpense, txn.Type)
}

func TestReadDraftsWhitespaceAndOrder(t *testing.T) {
	content := ` Total , Price , VAT , Type
 119 , 100 , 19 , income `

	drafts, errs := ReadDrafts(strings.NewReader(content))
	require.Empty(t, errs)
	require.Len(t, drafts, 1)
	assert.Equal(t, "100", drafts[0].Price)
	assert.Equal(t, "income", drafts[0].Type)
}

func TestReadDraftsRate(t *testing.T) {
	content := `type,price,rate,date
expense,50,9,2024-03-02`

	drafts, errs := ReadDrafts(strings.NewReader(content))
	require.Empty(t, errs)
	require.Len(t, drafts, 1)
	assert.Equal(t, "4.5", drafts[0].VAT)
	assert.Equal(t, "54.5", drafts[0].Total)
}

func TestReadDraftsRowErrors(t *testing.T) {
	content := `type,price,vat,total,date
income,100,19,119,2024-03-01
income,,19,119,2024-03-01
gift,1,0,1,
expense,10,1,12,
expense,10
income,10,0,10,03/01/2024`

	drafts, errs := ReadDrafts(strings.NewReader(content))
	require.Len(t, drafts, 1)
	require.Len(t, errs, 5)

	assert.Contains(t, errs[0], "row 3")
	assert.Contains(t, errs[0], "price is required")
	assert.Contains(t, errs[1], "row 4")
	assert.Contains(t, errs[2], "does not equal price + vat")
	assert.Equal(t, "row 6: not enough fields", errs[3])
	assert.Contains(t, errs[4], "is not YYYY-MM-DD")
}

func TestReadDraftsEmpty(t *testing.T) {
	drafts, errs := ReadDrafts(strings.NewReader("type,price,vat,total\n"))
	require.Empty(t, errs)
	require.Empty(t, drafts)

	_, errs = ReadDrafts(strings.NewReader("type,price\n\"unterminated"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "failed to read CSV")
}

func TestWriteThenRead(t *testing.T) {
	txns := []ledger.Transaction{
		{
			ID: 2, CustomerSupplier: "Office Depot, Inc.", Type: ledger.TypeExpense, Description: "Paper",
			Price: decimal.NewFromInt(50), VAT: decimal.RequireFromString("4.5"), Total: decimal.RequireFromString("54.5"),
			Date: "2024-03-02", Category: "office",
		},
		{
			ID: 1, CustomerSupplier: "ACME", Type: ledger.TypeIncome,
			Price: decimal.RequireFromString("33.33"), VAT: decimal.RequireFromString("6.3327"), Total: decimal.RequireFromString("39.6627"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Columns, ","), lines[0])
	assert.Equal(t, `2,"Office Depot, Inc.",expense,Paper,50,4.5,54.5,2024-03-02,office`, lines[1])

	drafts, errs := ReadDrafts(&buf)
	require.Empty(t, errs)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Office Depot, Inc.", drafts[0].CustomerSupplier)
	assert.Equal(t, "39.6627", drafts[1].Total)
}
