package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

type amountResponse struct {
	Type   ledger.Type     `json:"type,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Count(r.Context()); err != nil {
		respondErr(w, r, ledger.ErrStorageUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.store.Summary(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	bal, err := s.store.Balance(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: bal})
}

func (s *Server) totalsByType(w http.ResponseWriter, r *http.Request) {
	totals, err := s.store.TotalsByType(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) sumByType(w http.ResponseWriter, r *http.Request) {
	typ, err := ledger.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	sum, err := s.store.SumByType(r.Context(), typ)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Type: typ, Amount: sum})
}

func (s *Server) quoteVAT(w http.ResponseWriter, r *http.Request) {
	rate := r.URL.Query().Get("rate")
	if rate == "" {
		rate = ledger.DefaultVATRate.String()
	}

	q, err := ledger.QuoteVAT(r.URL.Query().Get("price"), rate)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
