package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonvc/ledgerbook/internal/client"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

type txnsLoadedMsg struct {
	txns []ledger.Transaction
	err  error
}

type txnListModel struct {
	txns    []ledger.Transaction
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *txnListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		txns, err := c.ListTransactions(context.Background(), "", 0)
		return txnsLoadedMsg{txns: txns, err: err}
	}
}

func (m txnListModel) update(msg tea.Msg) (txnListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnsLoadedMsg:
		m.loading = false
		m.txns = msg.txns
		m.err = msg.err
		if m.cursor >= len(m.txns) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.txns)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *txnListModel) selectedID() int64 {
	if m.cursor >= 0 && m.cursor < len(m.txns) {
		return m.txns[m.cursor].ID
	}
	return 0
}

func typeStyle(t ledger.Type) lipgloss.Style {
	if t == ledger.TypeExpense {
		return expenseStyle
	}
	return incomeStyle
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-2] + ".."
	}
	return s
}

func (m *txnListModel) view() string {
	if m.loading {
		return "Loading transactions..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.txns) == 0 {
		return dimStyle.Render("No transactions yet.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Transaction History"))
	b.WriteString("\n")

	// Same column order as the transactions table.
	header := fmt.Sprintf("  %-5s %-18s %-8s %-22s %10s %9s %10s %-10s %s",
		"ID", "CUSTOMER/SUPPLIER", "TYPE", "DESCRIPTION", "PRICE", "VAT", "TOTAL", "DATE", "CATEGORY")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.txns) && i < start+maxRows; i++ {
		t := m.txns[i]
		line := fmt.Sprintf("  %-5d %-18s %-8s %-22s %10s %9s %10s %-10s %s",
			t.ID,
			truncate(t.CustomerSupplier, 18),
			t.Type.Label(),
			truncate(t.Description, 22),
			ledger.FormatAmount(t.Price),
			ledger.FormatAmount(t.VAT),
			ledger.FormatAmount(t.Total),
			t.Date,
			truncate(t.Category, 14),
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(typeStyle(t.Type).Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d transactions", len(m.txns)))
	return b.String()
}
