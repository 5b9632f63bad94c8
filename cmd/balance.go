package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show current balance (income minus expense)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		bal, err := c.Balance(context.Background())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Current Balance: %s\n", ledger.FormatMoney(bal))
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total income, total expense and balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		sum, err := c.Summary(context.Background())
		if err != nil {
			return err
		}

		printSummary(cmd, sum)
		return nil
	},
}

func printSummary(cmd *cobra.Command, sum *ledger.Summary) {
	out := cmd.OutOrStdout()
	w := 40

	fmt.Fprintln(out)
	fmt.Fprintln(out, center("FINANCIAL SUMMARY", w))
	fmt.Fprintln(out, center(strings.Repeat("=", 20), w))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-*s%15s\n", w-15, "Total Income", ledger.FormatMoney(sum.Income))
	fmt.Fprintf(out, "%-*s%15s\n", w-15, "Total Expense", ledger.FormatMoney(sum.Expense))
	fmt.Fprintf(out, "%*s%s\n", w-15, "", "─────────────")
	fmt.Fprintf(out, "%-*s%15s\n", w-15, "Current Balance", ledger.FormatMoney(sum.Balance))
}

func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	pad := (w - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(summaryCmd)
}
