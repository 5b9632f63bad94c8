package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/store"
	"github.com/simonvc/ledgerbook/internal/web"
)

var webAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := defaultRate()
		if err != nil {
			return err
		}

		st, err := store.Open(flagDB)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		addr := webAddr
		if !cmd.Flags().Changed("addr") {
			addr = cfg.WebAddress
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ledgerbook dashboard: http://%s\n", addr)

		webSrv := web.NewServer(addr, st, logger, rate)
		return webSrv.ListenAndServe()
	},
}

func init() {
	webCmd.Flags().StringVar(&webAddr, "addr", "localhost:8833", "Listen address for the dashboard")
	rootCmd.AddCommand(webCmd)
}
