package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/simonvc/ledgerbook/internal/client"
	"github.com/simonvc/ledgerbook/internal/ledger"
)

type formField int

const (
	fieldCustomer formField = iota
	fieldType
	fieldDescription
	fieldPrice
	fieldRate
	fieldDate
	fieldCategory
	fieldSubmit
)

const numFormFields = int(fieldSubmit) + 1

type txnCreatedMsg struct {
	txn *ledger.Transaction
	err error
}

type entryFormModel struct {
	focus formField

	customer    textinput.Model
	description textinput.Model
	price       textinput.Model
	date        textinput.Model
	category    textinput.Model

	typeIdx int
	rateIdx int
	rates   []decimal.Decimal

	submitting bool
	err        error
	width      int
}

func newEntryForm(defaultRate decimal.Decimal, today time.Time) entryFormModel {
	newInput := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		return ti
	}

	m := entryFormModel{
		customer:    newInput("e.g. ACME Ltd", 100),
		description: newInput("e.g. Consulting, March", 200),
		price:       newInput("e.g. 100.00", 20),
		date:        newInput(ledger.DateLayout, 10),
		category:    newInput("e.g. services", 50),
		rates:       ledger.VATRates,
	}
	m.date.SetValue(today.Format(ledger.DateLayout))

	for i, r := range m.rates {
		if r.Equal(defaultRate) {
			m.rateIdx = i
			break
		}
	}

	m.setFocus(fieldCustomer)
	return m
}

func (m *entryFormModel) inputs() map[formField]*textinput.Model {
	return map[formField]*textinput.Model{
		fieldCustomer:    &m.customer,
		fieldDescription: &m.description,
		fieldPrice:       &m.price,
		fieldDate:        &m.date,
		fieldCategory:    &m.category,
	}
}

func (m *entryFormModel) setFocus(f formField) {
	m.focus = f
	for field, in := range m.inputs() {
		if field == f {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *entryFormModel) txnType() ledger.Type {
	return ledger.Types[m.typeIdx]
}

func (m *entryFormModel) rate() decimal.Decimal {
	return m.rates[m.rateIdx]
}

// quote recomputes VAT and total from the price field and the selected rate.
func (m *entryFormModel) quote() (ledger.Quote, error) {
	return ledger.QuoteVAT(m.price.Value(), m.rate().String())
}

// draft builds the transaction to submit. Date is required here even though
// the store accepts records without one.
func (m *entryFormModel) draft() (ledger.Draft, error) {
	if strings.TrimSpace(m.price.Value()) == "" {
		return ledger.Draft{}, fmt.Errorf("%w: price is required", ledger.ErrValidation)
	}
	if strings.TrimSpace(m.date.Value()) == "" {
		return ledger.Draft{}, fmt.Errorf("%w: date is required", ledger.ErrValidation)
	}

	q, err := m.quote()
	if err != nil {
		return ledger.Draft{}, err
	}

	d := ledger.Draft{
		CustomerSupplier: m.customer.Value(),
		Type:             string(m.txnType()),
		Description:      m.description.Value(),
		Date:             m.date.Value(),
		Category:         m.category.Value(),
	}
	return d.WithQuote(q), nil
}

func (m entryFormModel) update(msg tea.Msg, c *client.Client) (entryFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnCreatedMsg:
		m.submitting = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.FieldUp):
			m.setFocus(formField((int(m.focus) - 1 + numFormFields) % numFormFields))
			return m, nil
		case key.Matches(msg, keys.FieldDown):
			m.setFocus(formField((int(m.focus) + 1) % numFormFields))
			return m, nil
		case key.Matches(msg, keys.Submit):
			return m.submit(c)
		case key.Matches(msg, keys.Enter):
			if m.focus == fieldSubmit {
				return m.submit(c)
			}
			m.setFocus(m.focus + 1)
			return m, nil
		}

		switch m.focus {
		case fieldType:
			if key.Matches(msg, keys.Left, keys.Right, keys.Toggle) {
				m.typeIdx = (m.typeIdx + 1) % len(ledger.Types)
			}
			return m, nil
		case fieldRate:
			switch {
			case key.Matches(msg, keys.Left):
				m.rateIdx = (m.rateIdx - 1 + len(m.rates)) % len(m.rates)
			case key.Matches(msg, keys.Right, keys.Toggle):
				m.rateIdx = (m.rateIdx + 1) % len(m.rates)
			}
			return m, nil
		case fieldSubmit:
			return m, nil
		}

		if in, ok := m.inputs()[m.focus]; ok {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m entryFormModel) submit(c *client.Client) (entryFormModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	d, err := m.draft()
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.submitting = true
	return m, func() tea.Msg {
		created, err := c.CreateTransaction(context.Background(), d)
		return txnCreatedMsg{txn: created, err: err}
	}
}

// reset clears the form after a successful submit, keeping type, rate and
// date so a run of similar entries is quick to type.
func (m entryFormModel) reset() entryFormModel {
	for field, in := range m.inputs() {
		if field != fieldDate {
			in.SetValue("")
		}
	}
	m.err = nil
	m.submitting = false
	m.setFocus(fieldCustomer)
	return m
}

func (m *entryFormModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New Transaction"))
	b.WriteString("\n")

	row := func(f formField, label, value string) {
		prefix := "  "
		l := labelStyle.Render(label)
		if m.focus == f {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + l + " " + value + "\n")
	}

	row(fieldCustomer, "Customer:", m.customer.View())

	var types []string
	for i, t := range ledger.Types {
		if i == m.typeIdx {
			types = append(types, selectedStyle.Render("["+t.Label()+"]"))
		} else {
			types = append(types, dimStyle.Render(" "+t.Label()+" "))
		}
	}
	row(fieldType, "Type:", strings.Join(types, " "))

	row(fieldDescription, "Description:", m.description.View())
	row(fieldPrice, "Price:", m.price.View())

	var rates []string
	for i, r := range m.rates {
		if i == m.rateIdx {
			rates = append(rates, selectedStyle.Render("["+ledger.FormatRate(r)+"]"))
		} else {
			rates = append(rates, dimStyle.Render(" "+ledger.FormatRate(r)+" "))
		}
	}
	row(fieldRate, "VAT rate:", strings.Join(rates, " "))

	vat, total := "-", "-"
	if q, err := m.quote(); err == nil {
		vat = ledger.FormatAmount(q.VAT)
		total = ledger.FormatAmount(q.Total)
	}
	b.WriteString("  " + labelStyle.Render("VAT:") + " " + dimStyle.Render(vat) + "\n")
	b.WriteString("  " + labelStyle.Render("Total:") + " " + dimStyle.Render(total) + "\n")

	row(fieldDate, "Date:", m.date.View())
	row(fieldCategory, "Category:", m.category.View())

	b.WriteString("\n")
	button := "[ Add " + m.txnType().Label() + " ]"
	if m.focus == fieldSubmit {
		b.WriteString(selectedStyle.Render("> " + button))
	} else {
		b.WriteString("  " + button)
	}
	b.WriteString("\n")

	if m.submitting {
		b.WriteString("\n" + dimStyle.Render("  Saving..."))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  Error: "+formError(m.err)))
	}

	return b.String()
}

// formError strips the sentinel prefix for display.
func formError(err error) string {
	msg := err.Error()

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	for _, sentinel := range []error{ledger.ErrValidation, ledger.ErrInvalidInput} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}
