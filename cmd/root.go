package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/config"
	"github.com/simonvc/ledgerbook/internal/logging"
)

var (
	flagServer    string
	flagDB        string
	flagConfigDir string

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ledgerbook",
	Short: "Single-user income and expense ledger with VAT",
	Long: "A bookkeeping ledger backed by SQLite. Records income and expense " +
		"transactions with VAT, reports totals and balance, and offers a terminal " +
		"form and a web dashboard.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfigDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if !cmd.Flags().Changed("db") {
			flagDB = cfg.DBPath
		}
		logger = logging.New(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Server address (default: run an embedded server on the local database)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "accounting.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", ".", "Directory containing app.env")
}

func Execute() error {
	return rootCmd.Execute()
}
