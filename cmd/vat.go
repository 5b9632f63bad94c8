package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

var (
	vatPrice string
	vatRate  string
)

var vatCmd = &cobra.Command{
	Use:   "vat",
	Short: "Compute VAT and total for a price",
	RunE: func(cmd *cobra.Command, args []string) error {
		rate := vatRate
		if rate == "" {
			r, err := defaultRate()
			if err != nil {
				return err
			}
			rate = r.String()
		}

		q, err := ledger.QuoteVAT(vatPrice, rate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Price: %s\n", ledger.FormatAmount(q.Price))
		fmt.Fprintf(out, "VAT (%s): %s\n", ledger.FormatRate(q.Rate), ledger.FormatAmount(q.VAT))
		fmt.Fprintf(out, "Total: %s\n", ledger.FormatAmount(q.Total))
		return nil
	},
}

// defaultRate is the configured VAT rate preselected by the forms.
func defaultRate() (decimal.Decimal, error) {
	if cfg.DefaultVATRate == "" {
		return ledger.DefaultVATRate, nil
	}
	r, err := decimal.NewFromString(cfg.DefaultVATRate)
	if err != nil || r.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: DEFAULT_VAT_RATE %q", ledger.ErrInvalidInput, cfg.DefaultVATRate)
	}
	return r, nil
}

func init() {
	vatCmd.Flags().StringVar(&vatPrice, "price", "", "Net price")
	vatCmd.Flags().StringVar(&vatRate, "rate", "", "VAT rate in percent (default: configured rate)")
	vatCmd.MarkFlagRequired("price")
	rootCmd.AddCommand(vatCmd)
}
