package cmd

import (
	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/server"
	"github.com/simonvc/ledgerbook/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(flagDB)
		if err != nil {
			return err
		}
		defer st.Close()

		addr := serveAddr
		if !cmd.Flags().Changed("addr") {
			addr = cfg.ServerAddress
		}

		srv := server.New(st, addr, logger)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8888", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
