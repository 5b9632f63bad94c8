package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// VATRates are the rates offered by the entry forms, in percent.
var VATRates = []decimal.Decimal{
	decimal.NewFromInt(19),
	decimal.NewFromInt(9),
	decimal.Zero,
}

// DefaultVATRate is preselected in the entry forms.
var DefaultVATRate = decimal.NewFromInt(19)

// Quote is the result of a VAT computation.
type Quote struct {
	Price decimal.Decimal `json:"price"`
	Rate  decimal.Decimal `json:"rate"`
	VAT   decimal.Decimal `json:"vat"`
	Total decimal.Decimal `json:"total"`
}

// ComputeVAT returns vat = price * rate / 100 and total = price + vat.
func ComputeVAT(price, ratePercent decimal.Decimal) (vat, total decimal.Decimal, err error) {
	if price.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if ratePercent.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: rate must not be negative", ErrInvalidInput)
	}
	vat = price.Mul(ratePercent).Shift(-2)
	return vat, price.Add(vat), nil
}

// ComputeVATFloat is ComputeVAT for float inputs; NaN and infinities are
// rejected.
func ComputeVATFloat(price, ratePercent float64) (vat, total float64, err error) {
	if !finiteNonNegative(price) {
		return 0, 0, fmt.Errorf("%w: price %v", ErrInvalidInput, price)
	}
	if !finiteNonNegative(ratePercent) {
		return 0, 0, fmt.Errorf("%w: rate %v", ErrInvalidInput, ratePercent)
	}
	vat = price * (ratePercent / 100)
	return vat, price + vat, nil
}

func finiteNonNegative(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// QuoteVAT parses a price and a rate as typed by a user and computes the
// quote.
func QuoteVAT(price, ratePercent string) (Quote, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return Quote{}, fmt.Errorf("%w: price %q is not a number", ErrInvalidInput, price)
	}
	r, err := decimal.NewFromString(strings.TrimSpace(ratePercent))
	if err != nil {
		return Quote{}, fmt.Errorf("%w: rate %q is not a number", ErrInvalidInput, ratePercent)
	}
	vat, total, err := ComputeVAT(p, r)
	if err != nil {
		return Quote{}, err
	}
	return Quote{Price: p, Rate: r, VAT: vat, Total: total}, nil
}
