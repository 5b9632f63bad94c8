package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/simonvc/ledgerbook/internal/client"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

type mode int

const (
	modeNew mode = iota
	modeHistory
	modeTransactionDetail
	modeSummary
)

var tabModes = []mode{modeNew, modeHistory, modeSummary}

func tabLabel(m mode) string {
	switch m {
	case modeNew:
		return "New"
	case modeHistory:
		return "History"
	case modeSummary:
		return "Summary"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string

	// balance is shown in the header on every screen.
	balance    decimal.Decimal
	balanceErr error

	form      entryFormModel
	txnList   txnListModel
	txnDetail txnDetailModel
	summary   summaryModel
}

func NewApp(c *client.Client, defaultRate decimal.Decimal) *App {
	return &App{
		client: c,
		mode:   modeNew,
		form:   newEntryForm(defaultRate, time.Now()),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.txnList.init(a.client),
		a.summary.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.form.width = msg.Width
		a.txnList.width = msg.Width
		a.txnList.height = msg.Height - 8
		a.txnDetail.width = msg.Width
		a.summary.width = msg.Width
		a.summary.height = msg.Height - 8
		return a, nil

	// Loaded messages go to their model whatever the active mode.
	case txnsLoadedMsg:
		var cmd tea.Cmd
		a.txnList, cmd = a.txnList.update(msg)
		return a, cmd
	case txnDetailLoadedMsg:
		var cmd tea.Cmd
		a.txnDetail, cmd = a.txnDetail.update(msg)
		return a, cmd
	case summaryLoadedMsg:
		if msg.err == nil && msg.sum != nil {
			a.balance = msg.sum.Balance
		}
		a.balanceErr = msg.err
		var cmd tea.Cmd
		a.summary, cmd = a.summary.update(msg)
		return a, cmd
	case txnCreatedMsg:
		var cmd tea.Cmd
		a.form, cmd = a.form.update(msg, a.client)
		if msg.err != nil {
			a.statusMsg = ""
			return a, cmd
		}
		a.statusMsg = msg.txn.Type.Label() + " added successfully!"
		a.form = a.form.reset()
		return a, tea.Batch(cmd, a.refresh())
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.ForceQuit):
			return a, tea.Quit

		case key.Matches(msg, keys.Quit) && a.mode != modeNew:
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			if a.mode == modeTransactionDetail {
				a.mode = modeHistory
			}
			return a, nil

		case key.Matches(msg, keys.Refresh) && a.mode != modeNew:
			return a, a.refresh()

		case key.Matches(msg, keys.Enter) && a.mode == modeHistory:
			if id := a.txnList.selectedID(); id != 0 {
				a.mode = modeTransactionDetail
				return a, a.txnDetail.init(a.client, id)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.mode {
	case modeNew:
		a.form, cmd = a.form.update(msg, a.client)
	case modeHistory:
		a.txnList, cmd = a.txnList.update(msg)
	case modeTransactionDetail:
		a.txnDetail, cmd = a.txnDetail.update(msg)
	case modeSummary:
		a.summary, cmd = a.summary.update(msg)
	}
	return a, cmd
}

// refresh reloads everything derived from the ledger.
func (a *App) refresh() tea.Cmd {
	return tea.Batch(
		a.txnList.init(a.client),
		a.summary.init(a.client),
	)
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeHistory:
		return a.txnList.init(a.client)
	case modeSummary:
		return a.summary.init(a.client)
	}
	return loadSummary(a.client)
}

func (a *App) header() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	bal := "Current Balance: " + ledger.FormatMoney(a.balance)
	if a.balanceErr != nil {
		bal = "Current Balance: unavailable"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs, "   ", balanceStyle.Render(bal))
}

func (a *App) View() string {
	var content string
	switch a.mode {
	case modeNew:
		content = a.form.view()
	case modeHistory:
		content = a.txnList.view()
	case modeTransactionDetail:
		content = a.txnDetail.view()
	case modeSummary:
		content = a.summary.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}
	if a.balanceErr != nil {
		status = errorStyle.Render(a.balanceErr.Error())
	}

	helpText := "tab:switch  enter:select  esc:back  r:refresh  q:quit"
	if a.mode == modeNew {
		helpText = "tab:switch  up/down:field  left/right:option  enter:next  ctrl+s:save  ctrl+c:quit"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header(),
		"",
		content,
		"",
		status,
		dimStyle.Render(helpText),
	)
}
