// Package backup exports the ledger as CSV and uploads it to blob storage.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/simonvc/ledgerbook/internal/csvio"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

// Lister is the part of the store a backup reads.
type Lister interface {
	ListAll(ctx context.Context) ([]ledger.Transaction, error)
}

// Uploader stores a finished backup.
type Uploader interface {
	Upload(ctx context.Context, container, blobName string, data []byte) error
}

// BlobName returns the backup name for t, e.g. ledger-20240301T120000Z.csv.
func BlobName(t time.Time) string {
	return "ledger-" + t.UTC().Format("20060102T150405Z") + ".csv"
}

// Run writes every transaction as CSV and uploads it. It returns the blob
// name and the number of transactions backed up.
func Run(ctx context.Context, src Lister, dst Uploader, container string, now time.Time) (string, int, error) {
	txns, err := src.ListAll(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("list transactions: %w", err)
	}

	var buf bytes.Buffer
	if err := csvio.WriteTransactions(&buf, txns); err != nil {
		return "", 0, fmt.Errorf("encode csv: %w", err)
	}

	name := BlobName(now)
	if err := dst.Upload(ctx, container, name, buf.Bytes()); err != nil {
		return "", 0, err
	}
	return name, len(txns), nil
}
