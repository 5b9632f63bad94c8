package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

// Error codes let clients tell apart failures that share a status.
const (
	CodeValidation         = "validation"
	CodeInvalidInput       = "invalid_input"
	CodeNotFound           = "not_found"
	CodeStorageUnavailable = "storage_unavailable"
	CodeInternal           = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// respondErr maps err to a status and writes it. Server-side failures are
// logged with the request's logger.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := MapError(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, ErrorCode(err), err.Error())
}

// MapError returns the HTTP status for a ledger error.
func MapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the error code sent alongside MapError's status.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return CodeNotFound
	case errors.Is(err, ledger.ErrValidation):
		return CodeValidation
	case errors.Is(err, ledger.ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ledger.ErrStorageUnavailable):
		return CodeStorageUnavailable
	default:
		return CodeInternal
	}
}
