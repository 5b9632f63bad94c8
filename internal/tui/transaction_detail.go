package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/ledgerbook/internal/client"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

type txnDetailLoadedMsg struct {
	txn *ledger.Transaction
	err error
}

type txnDetailModel struct {
	txn     *ledger.Transaction
	loading bool
	err     error
	width   int
}

func (m *txnDetailModel) init(c *client.Client, id int64) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		txn, err := c.GetTransaction(context.Background(), id)
		return txnDetailLoadedMsg{txn: txn, err: err}
	}
}

func (m txnDetailModel) update(msg tea.Msg) (txnDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnDetailLoadedMsg:
		m.loading = false
		m.txn = msg.txn
		m.err = msg.err
	}
	return m, nil
}

func (m *txnDetailModel) view() string {
	if m.loading {
		return "Loading transaction..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.txn == nil {
		return ""
	}

	t := m.txn
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Transaction #%d", t.ID)))
	b.WriteString("\n")

	var body strings.Builder
	field := func(label, value string) {
		body.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label), value))
	}
	field("Customer:", t.CustomerSupplier)
	field("Type:", typeStyle(t.Type).Render(t.Type.Label()))
	field("Description:", t.Description)
	field("Price:", ledger.FormatMoney(t.Price))
	field("VAT:", ledger.FormatMoney(t.VAT))
	field("Total:", ledger.FormatMoney(t.Total))
	field("Date:", t.Date)
	field("Category:", t.Category)

	b.WriteString(boxStyle.Render(strings.TrimRight(body.String(), "\n")))
	b.WriteString("\n\n" + dimStyle.Render("  Press ESC to go back"))
	return b.String()
}
