package cmd

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/client"
	"github.com/simonvc/ledgerbook/internal/server"
	"github.com/simonvc/ledgerbook/internal/store"
)

// connect returns a client for --server when it was given. Otherwise it opens
// the local database, serves the API on a loopback port and returns a client
// for that. The returned func releases everything.
func connect(cmd *cobra.Command, log zerolog.Logger) (*client.Client, func(), error) {
	if cmd.Flags().Changed("server") {
		return client.New(flagServer), func() {}, nil
	}

	st, err := store.Open(flagDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("listen: %w", err)
	}

	// Per-request info lines would clutter one-shot command output.
	if !cfg.Development() {
		log = log.Level(zerolog.WarnLevel)
	}

	srv := server.New(st, ln.Addr().String(), log)
	go func() {
		if err := srv.Serve(ln); err != nil {
			log.Debug().Err(err).Msg("embedded server stopped")
		}
	}()

	c := client.New("http://" + ln.Addr().String())
	if err := waitReady(c); err != nil {
		ln.Close()
		st.Close()
		return nil, nil, err
	}

	return c, func() {
		ln.Close()
		st.Close()
	}, nil
}

func waitReady(c *client.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		if err := c.Ping(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("timeout waiting for embedded server")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
