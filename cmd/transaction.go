package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/client"
	"github.com/simonvc/ledgerbook/internal/csvio"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

var transactionCmd = &cobra.Command{
	Use:     "transaction",
	Aliases: []string{"txn"},
	Short:   "Manage transactions",
}

// transaction add
var (
	txnCustomer    string
	txnType        string
	txnDescription string
	txnPrice       string
	txnRate        string
	txnVAT         string
	txnDate        string
	txnCategory    string
)

var transactionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an income or expense",
	Long: "Record a transaction. VAT and total are computed from --price and --rate " +
		"unless --vat is given, in which case total is price + vat.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := draftFromFlags(cmd)
		if err != nil {
			return err
		}

		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		created, err := c.CreateTransaction(context.Background(), d)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s added successfully! (id %d, total %s)\n",
			created.Type.Label(), created.ID, ledger.FormatAmount(created.Total))
		return nil
	},
}

func draftFromFlags(cmd *cobra.Command) (ledger.Draft, error) {
	d := ledger.Draft{
		CustomerSupplier: txnCustomer,
		Type:             txnType,
		Description:      txnDescription,
		Date:             txnDate,
		Category:         txnCategory,
	}
	if d.Date == "" {
		d.Date = time.Now().Format(ledger.DateLayout)
	}

	if cmd.Flags().Changed("vat") {
		price, err := decimal.NewFromString(txnPrice)
		if err != nil {
			return d, fmt.Errorf("%w: price %q is not a number", ledger.ErrValidation, txnPrice)
		}
		vat, err := decimal.NewFromString(txnVAT)
		if err != nil {
			return d, fmt.Errorf("%w: vat %q is not a number", ledger.ErrValidation, txnVAT)
		}
		d.Price = price.String()
		d.VAT = vat.String()
		d.Total = price.Add(vat).String()
		return d, nil
	}

	rate := txnRate
	if rate == "" {
		r, err := defaultRate()
		if err != nil {
			return d, err
		}
		rate = r.String()
	}
	q, err := ledger.QuoteVAT(txnPrice, rate)
	if err != nil {
		return d, err
	}
	return d.WithQuote(q), nil
}

// transaction list
var (
	txnListType  string
	txnListLimit int
)

var transactionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var typ ledger.Type
		if txnListType != "" {
			t, err := ledger.ParseType(txnListType)
			if err != nil {
				return err
			}
			typ = t
		}

		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		txns, err := c.ListTransactions(context.Background(), typ, txnListLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(txns) == 0 {
			fmt.Fprintln(out, "No transactions found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s %-20s %-8s %-24s %10s %9s %10s %-10s %s\n",
			"ID", "CUSTOMER/SUPPLIER", "TYPE", "DESCRIPTION", "PRICE", "VAT", "TOTAL", "DATE", "CATEGORY")
		fmt.Fprintf(out, "%-5s %-20s %-8s %-24s %10s %9s %10s %-10s %s\n",
			"--", "-----------------", "----", "-----------", "-----", "---", "-----", "----", "--------")
		for _, t := range txns {
			fmt.Fprintf(out, "%-5d %-20s %-8s %-24s %10s %9s %10s %-10s %s\n",
				t.ID,
				clip(t.CustomerSupplier, 20),
				t.Type.Label(),
				clip(t.Description, 24),
				ledger.FormatAmount(t.Price),
				ledger.FormatAmount(t.VAT),
				ledger.FormatAmount(t.Total),
				t.Date,
				t.Category,
			)
		}
		return nil
	},
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-2]) + ".."
	}
	return s
}

// transaction get
var transactionGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get transaction details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}

		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		txn, err := c.GetTransaction(context.Background(), id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:                %d\n", txn.ID)
		fmt.Fprintf(out, "Customer/Supplier: %s\n", txn.CustomerSupplier)
		fmt.Fprintf(out, "Type:              %s\n", txn.Type.Label())
		fmt.Fprintf(out, "Description:       %s\n", txn.Description)
		fmt.Fprintf(out, "Price:             %s\n", ledger.FormatAmount(txn.Price))
		fmt.Fprintf(out, "VAT:               %s\n", ledger.FormatAmount(txn.VAT))
		fmt.Fprintf(out, "Total:             %s\n", ledger.FormatAmount(txn.Total))
		fmt.Fprintf(out, "Date:              %s\n", txn.Date)
		fmt.Fprintf(out, "Category:          %s\n", txn.Category)
		return nil
	},
}

// transaction import
var transactionImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Append every valid row of a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		drafts, rowErrs := csvio.ReadDrafts(f)

		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		ctx := context.Background()
		out := cmd.OutOrStdout()
		imported := 0
		for i, d := range drafts {
			if _, err := c.CreateTransaction(ctx, d); err != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("record %d: %v", i+1, err))
				continue
			}
			imported++
		}

		fmt.Fprintf(out, "Imported %d transactions\n", imported)
		if len(rowErrs) > 0 {
			fmt.Fprintf(out, "Skipped %d rows:\n", len(rowErrs))
			for _, e := range rowErrs {
				fmt.Fprintf(out, "  %s\n", e)
			}
		}
		return nil
	},
}

// transaction export
var transactionExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write all transactions as CSV (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		txns, err := c.ListTransactions(context.Background(), "", 0)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		return csvio.WriteTransactions(w, txns)
	},
}

// clientLister lets a backup read through the API client.
type clientLister struct {
	c *client.Client
}

func (l clientLister) ListAll(ctx context.Context) ([]ledger.Transaction, error) {
	return l.c.ListTransactions(ctx, "", 0)
}

func init() {
	transactionAddCmd.Flags().StringVar(&txnCustomer, "customer", "", "Customer or supplier")
	transactionAddCmd.Flags().StringVar(&txnType, "type", "", "income or expense")
	transactionAddCmd.Flags().StringVar(&txnDescription, "description", "", "Description")
	transactionAddCmd.Flags().StringVar(&txnPrice, "price", "", "Net price")
	transactionAddCmd.Flags().StringVar(&txnRate, "rate", "", "VAT rate in percent (default: configured rate)")
	transactionAddCmd.Flags().StringVar(&txnVAT, "vat", "", "VAT amount, overriding --rate")
	transactionAddCmd.Flags().StringVar(&txnDate, "date", "", "Date as YYYY-MM-DD (default: today)")
	transactionAddCmd.Flags().StringVar(&txnCategory, "category", "", "Category")
	transactionAddCmd.MarkFlagRequired("type")
	transactionAddCmd.MarkFlagRequired("price")

	transactionListCmd.Flags().StringVar(&txnListType, "type", "", "Filter by type (income or expense)")
	transactionListCmd.Flags().IntVar(&txnListLimit, "limit", 0, "Maximum number of transactions")

	transactionCmd.AddCommand(transactionAddCmd)
	transactionCmd.AddCommand(transactionListCmd)
	transactionCmd.AddCommand(transactionGetCmd)
	transactionCmd.AddCommand(transactionImportCmd)
	transactionCmd.AddCommand(transactionExportCmd)

	rootCmd.AddCommand(transactionCmd)
}
