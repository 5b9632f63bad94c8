package server

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/simonvc/ledgerbook/internal/ledger"
	"github.com/simonvc/ledgerbook/internal/store"
)

// AppendHook is called after a transaction has been stored.
type AppendHook func(txn *ledger.Transaction)

type Server struct {
	store  *store.Store
	router chi.Router
	addr   string
	logger zerolog.Logger

	onAppend AppendHook
}

func New(st *store.Store, addr string, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{store: st, router: r, addr: addr, logger: logger}
	s.Routes(r)

	return s
}

// Routes registers the /api/v1 endpoints on r. The web dashboard mounts them
// on its own router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.health)

		// Transactions
		r.Post("/transactions", s.createTransaction)
		r.Get("/transactions", s.listTransactions)
		r.Get("/transactions/{id}", s.getTransaction)

		// Reports
		r.Get("/reports/summary", s.summary)
		r.Get("/reports/balance", s.balance)
		r.Get("/reports/totals", s.totalsByType)
		r.Get("/reports/sum/{type}", s.sumByType)

		// Tax calculator
		r.Get("/vat", s.quoteVAT)
	})
}

// OnAppend registers fn to run after every successful append.
func (s *Server) OnAppend(fn AppendHook) {
	s.onAppend = fn
}

func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.addr).Msg("ledgerbook api listening")
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("ledgerbook api listening")
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
