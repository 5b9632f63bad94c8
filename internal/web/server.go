package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simonvc/ledgerbook/internal/ledger"
	"github.com/simonvc/ledgerbook/internal/server"
	"github.com/simonvc/ledgerbook/internal/store"
)

// Server serves the browser dashboard and, under /api/v1, the JSON API.
type Server struct {
	addr        string
	store       *store.Store
	hub         *Hub
	router      chi.Router
	logger      zerolog.Logger
	defaultRate decimal.Decimal
}

// NewServer creates a dashboard server backed by st.
func NewServer(addr string, st *store.Store, logger zerolog.Logger, defaultRate decimal.Decimal) *Server {
	r := chi.NewRouter()
	r.Use(server.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		addr:        addr,
		store:       st,
		hub:         NewHub(),
		router:      r,
		logger:      logger,
		defaultRate: defaultRate,
	}

	api := server.New(st, addr, logger)
	api.OnAppend(func(txn *ledger.Transaction) {
		s.broadcast(logger.WithContext(context.Background()), txn)
	})
	api.Routes(r)

	r.Get("/", s.handleIndex)
	r.Post("/transactions", s.handleCreate)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the dashboard server.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.addr).Msg("web dashboard listening")
	return http.ListenAndServe(s.addr, s.router)
}
