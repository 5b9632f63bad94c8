package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/backup"
)

var backupContainer string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a CSV export of the ledger to Azure Blob Storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		container := backupContainer
		if !cmd.Flags().Changed("container") {
			container = cfg.BlobContainer
		}

		blobs, err := backup.NewBlobStore(cfg.BlobServiceURL)
		if err != nil {
			return fmt.Errorf("blob storage (set LEDGER_BLOB_SERVICE_URL): %w", err)
		}

		c, done, err := connect(cmd, logger)
		if err != nil {
			return err
		}
		defer done()

		ctx := logger.WithContext(context.Background())
		name, n, err := backup.Run(ctx, clientLister{c}, blobs, container, time.Now())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d transactions to %s/%s\n", n, container, name)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupContainer, "container", "ledger-backups", "Blob container name")
	rootCmd.AddCommand(backupCmd)
}
