package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simonvc/ledgerbook/internal/ledger"
	"github.com/simonvc/ledgerbook/internal/store"
)

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var d ledger.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}

	id, err := s.store.Append(r.Context(), d)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	created, err := s.store.Get(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if s.onAppend != nil {
		s.onAppend(created)
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter := store.TxnFilter{}
	q := r.URL.Query()

	if t := q.Get("type"); t != "" {
		typ, err := ledger.ParseType(t)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		filter.Type = typ
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, CodeValidation, fmt.Sprintf("%s must be a non-negative integer", name))
			return
		}
		*dst = n
	}

	txns, err := s.store.List(r.Context(), filter)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "invalid transaction id")
		return
	}

	txn, err := s.store.Get(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}
