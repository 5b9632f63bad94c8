package ledger

import "errors"

var (
	ErrValidation          = errors.New("invalid transaction")
	ErrInvalidInput        = errors.New("invalid price or VAT rate")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrTransactionNotFound = errors.New("transaction not found")
)
