// Package csvio reads and writes ledger transactions as CSV, using the
// transactions table column names as headers.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

// Columns is the header row written by WriteTransactions, in table order.
var Columns = []string{
	"id", "customer_supplier", "type", "description",
	"price", "vat", "total", "date", "category",
}

// ReadDrafts parses one draft per data row. Rows that would not make a valid
// transaction are skipped and described in the returned messages. A "rate"
// column may stand in for vat and total, which are then computed from price.
func ReadDrafts(r io.Reader) ([]ledger.Draft, []string) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, []string{fmt.Sprintf("failed to read CSV: %v", err)}
	}

	if len(records) < 2 {
		return []ledger.Draft{}, nil
	}

	headers := parseHeaders(records[0])
	drafts := []ledger.Draft{}
	var errs []string

	for i, record := range records[1:] {
		rowNum := i + 2
		if len(record) < len(headers) {
			errs = append(errs, fmt.Sprintf("row %d: not enough fields", rowNum))
			continue
		}

		row := make(map[string]string, len(headers))
		for j, h := range headers {
			row[h] = strings.TrimSpace(record[j])
		}

		d, err := mapToDraft(row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		drafts = append(drafts, d)
	}

	return drafts, errs
}

func parseHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return headers
}

func mapToDraft(row map[string]string) (ledger.Draft, error) {
	d := ledger.Draft{
		CustomerSupplier: row["customer_supplier"],
		Type:             row["type"],
		Description:      row["description"],
		Price:            row["price"],
		VAT:              row["vat"],
		Total:            row["total"],
		Date:             row["date"],
		Category:         row["category"],
	}

	if rate := row["rate"]; rate != "" && d.VAT == "" && d.Total == "" {
		q, err := ledger.QuoteVAT(d.Price, rate)
		if err != nil {
			return d, err
		}
		d = d.WithQuote(q)
	}

	if _, err := d.Parse(); err != nil {
		return d, err
	}
	return d, nil
}

// WriteTransactions writes a header row then one row per transaction.
// Amounts are written exactly so a re-import keeps total = price + vat.
func WriteTransactions(w io.Writer, txns []ledger.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range txns {
		rec := []string{
			strconv.FormatInt(t.ID, 10),
			t.CustomerSupplier,
			string(t.Type),
			t.Description,
			t.Price.String(),
			t.VAT.String(),
			t.Total.String(),
			t.Date,
			t.Category,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write transaction %d: %w", t.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
