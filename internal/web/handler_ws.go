package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

type refreshMsg struct {
	Type        string              `json:"type"`
	Summary     *ledger.Summary     `json:"summary"`
	Transaction *ledger.Transaction `json:"transaction,omitempty"`
}

// handleWebSocket streams refresh messages to the dashboard until either side
// goes away. Anything the browser sends is ignored.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	msgs, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				l.Debug().Err(err).Msg("websocket write")
				return
			}
		}
	}
}

// broadcast tells every open dashboard that the ledger changed.
func (s *Server) broadcast(ctx context.Context, txn *ledger.Transaction) {
	sum, err := s.store.Summary(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("summary for refresh")
		return
	}

	data, err := json.Marshal(refreshMsg{Type: "refresh", Summary: sum, Transaction: txn})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("marshal refresh")
		return
	}
	s.hub.Publish(data)
}
