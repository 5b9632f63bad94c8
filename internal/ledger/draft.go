package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Draft is a transaction as typed into a form, a flag set, a JSON body or a
// CSV row. Every field is raw text until Parse.
type Draft struct {
	CustomerSupplier string `json:"customer_supplier"`
	Type             string `json:"type" validate:"required,oneof=income expense"`
	Description      string `json:"description"`
	Price            string `json:"price" validate:"required"`
	VAT              string `json:"vat" validate:"required"`
	Total            string `json:"total" validate:"required"`
	Date             string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Category         string `json:"category"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// WithQuote fills price, vat and total from a calculator quote.
func (d Draft) WithQuote(q Quote) Draft {
	d.Price = q.Price.String()
	d.VAT = q.VAT.String()
	d.Total = q.Total.String()
	return d
}

// Parse validates the draft and converts it to a Transaction. All failures
// wrap ErrValidation.
func (d Draft) Parse() (*Transaction, error) {
	d = d.normalize()

	if err := validate.Struct(d); err != nil {
		return nil, validationError(err)
	}

	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q is not a number", ErrValidation, d.Price)
	}
	vat, err := decimal.NewFromString(d.VAT)
	if err != nil {
		return nil, fmt.Errorf("%w: vat %q is not a number", ErrValidation, d.VAT)
	}
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: total %q is not a number", ErrValidation, d.Total)
	}

	txn := &Transaction{
		CustomerSupplier: d.CustomerSupplier,
		Type:             Type(d.Type),
		Description:      d.Description,
		Price:            price,
		VAT:              vat,
		Total:            total,
		Date:             d.Date,
		Category:         d.Category,
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	return txn, nil
}

func (d Draft) normalize() Draft {
	return Draft{
		CustomerSupplier: strings.TrimSpace(d.CustomerSupplier),
		Type:             strings.ToLower(strings.TrimSpace(d.Type)),
		Description:      strings.TrimSpace(d.Description),
		Price:            strings.TrimSpace(d.Price),
		VAT:              strings.TrimSpace(d.VAT),
		Total:            strings.TrimSpace(d.Total),
		Date:             strings.TrimSpace(d.Date),
		Category:         strings.TrimSpace(d.Category),
	}
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s %q is not YYYY-MM-DD", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
