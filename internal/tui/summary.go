package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/simonvc/ledgerbook/internal/client"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

type summaryLoadedMsg struct {
	sum *ledger.Summary
	err error
}

type summaryModel struct {
	sum     *ledger.Summary
	loading bool
	err     error
	width   int
	height  int
}

func loadSummary(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		sum, err := c.Summary(context.Background())
		return summaryLoadedMsg{sum: sum, err: err}
	}
}

func (m *summaryModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return loadSummary(c)
}

func (m summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		m.loading = false
		m.sum = msg.sum
		m.err = msg.err
	}
	return m, nil
}

func (m *summaryModel) view() string {
	if m.loading {
		return "Loading summary..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.sum == nil {
		return dimStyle.Render("No data available.")
	}

	w := m.width
	if w < 40 {
		w = 80
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Financial Summary"))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  %s %14s\n", labelStyle.Render("Total Income:"), incomeStyle.Render(ledger.FormatMoney(m.sum.Income))))
	b.WriteString(fmt.Sprintf("  %s %14s\n", labelStyle.Render("Total Expense:"), expenseStyle.Render(ledger.FormatMoney(m.sum.Expense))))
	b.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("─", 32)))

	balStyle := incomeStyle
	if m.sum.Balance.IsNegative() {
		balStyle = expenseStyle
	}
	b.WriteString(fmt.Sprintf("  %s %14s\n", labelStyle.Render("Balance:"), balStyle.Render(ledger.FormatMoney(m.sum.Balance))))
	b.WriteString("\n")

	b.WriteString("  " + headerStyle.Render("Income vs Expense") + "\n")
	bars := barChart([]ledger.TypeTotal{
		{Type: ledger.TypeIncome, Amount: m.sum.Income},
		{Type: ledger.TypeExpense, Amount: m.sum.Expense},
	}, w-32)
	for i, line := range bars {
		style := incomeStyle
		if i == 1 {
			style = expenseStyle
		}
		b.WriteString("  " + style.Render(line) + "\n")
	}

	return b.String()
}

// barChart renders one horizontal bar per total, scaled so the largest one
// is maxWidth cells wide.
func barChart(totals []ledger.TypeTotal, maxWidth int) []string {
	if maxWidth < 10 {
		maxWidth = 10
	}

	peak := decimal.Zero
	for _, t := range totals {
		if t.Amount.GreaterThan(peak) {
			peak = t.Amount
		}
	}

	lines := make([]string, 0, len(totals))
	for _, t := range totals {
		n := 0
		if peak.IsPositive() && t.Amount.IsPositive() {
			n = int(t.Amount.Mul(decimal.NewFromInt(int64(maxWidth))).Div(peak).IntPart())
			if n == 0 {
				n = 1
			}
		}
		lines = append(lines, fmt.Sprintf("%-8s %s %s",
			t.Type.Label(), strings.Repeat("█", n), ledger.FormatMoney(t.Amount)))
	}
	return lines
}
