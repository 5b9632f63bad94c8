package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVATCommand(t *testing.T) {
	out, err := run(t, "vat", "--price", "100", "--rate", "19")
	require.NoError(t, err)
	assert.Contains(t, out, "Price: 100.00")
	assert.Contains(t, out, "VAT (19%): 19.00")
	assert.Contains(t, out, "Total: 119.00")

	_, err = run(t, "vat", "--price", "abc", "--rate", "19")
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestTransactionCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.db")

	out, err := run(t, "--db", db, "transaction", "add",
		"--customer", "ACME", "--type", "income", "--description", "consulting",
		"--price", "100", "--rate", "19", "--date", "2024-01-05", "--category", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Income added successfully!")

	out, err = run(t, "--db", db, "txn", "add",
		"--customer", "Shop", "--type", "expense", "--description", "paper",
		"--price", "50", "--rate", "9", "--date", "2024-01-06", "--category", "office")
	require.NoError(t, err)
	assert.Contains(t, out, "Expense added successfully!")

	out, err = run(t, "--db", db, "balance")
	require.NoError(t, err)
	assert.Equal(t, "Current Balance: $64.50\n", out)

	out, err = run(t, "--db", db, "transaction", "list", "--type", "income", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "119.00")
	assert.NotContains(t, out, "Shop")

	out, err = run(t, "--db", db, "transaction", "get", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:             54.50")

	_, err = run(t, "--db", db, "transaction", "get", "99")
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)

	export := filepath.Join(dir, "out.csv")
	_, err = run(t, "--db", db, "transaction", "export", export)
	require.NoError(t, err)
	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,customer_supplier,type,description,price,vat,total,date,category\n")
	assert.Contains(t, string(data), "1,ACME,income,consulting,100,19,119,2024-01-05,work\n")

	// Re-importing the export doubles the ledger.
	out, err = run(t, "--db", db, "transaction", "import", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 transactions")

	out, err = run(t, "--db", db, "balance")
	require.NoError(t, err)
	assert.Equal(t, "Current Balance: $129.00\n", out)
}

func TestTransactionAddRejectsBadType(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := run(t, "--db", db, "transaction", "add",
		"--customer", "x", "--type", "refund", "--description", "",
		"--price", "10", "--rate", "19", "--date", "2024-01-01", "--category", "")
	assert.ErrorIs(t, err, ledger.ErrValidation)

	out, err := run(t, "--db", db, "balance")
	require.NoError(t, err)
	assert.Equal(t, "Current Balance: $0.00\n", out)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "ACME", clip("ACME", 20))

	got := clip("Müller & Söhne Bäckerei GmbH", 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
	assert.Equal(t, "Müller & Söhne Bäc..", got)
}

// Runs last: --vat stays marked as changed on the shared command.
func TestTransactionAddExplicitVAT(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := run(t, "--db", db, "transaction", "add",
		"--customer", "x", "--type", "expense", "--description", "",
		"--price", "ten", "--vat", "1", "--date", "2024-01-01", "--category", "")
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = run(t, "--db", db, "transaction", "add",
		"--customer", "x", "--type", "expense", "--description", "",
		"--price", "10", "--vat", "x", "--date", "2024-01-01", "--category", "")
	assert.ErrorIs(t, err, ledger.ErrValidation)

	out, err := run(t, "--db", db, "transaction", "add",
		"--customer", "x", "--type", "expense", "--description", "",
		"--price", "10", "--vat", "1.5", "--date", "2024-01-01", "--category", "")
	require.NoError(t, err)
	assert.Contains(t, out, "total 11.50")
}
