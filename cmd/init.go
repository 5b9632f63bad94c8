package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and schema if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(flagDB)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database ready: %s (%d transactions)\n", st.Path(), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
