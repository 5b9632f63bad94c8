package web

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

//go:embed static/dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"money":  ledger.FormatMoney,
	"amount": ledger.FormatAmount,
}).Parse(dashboardHTML))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type bar struct {
	Label  string
	Amount string
	X, Y   int
	Width  int
	Height int
	Color  string
}

type dashboardView struct {
	Flash string
	Error string

	Types []option
	Rates []option
	Today string

	Summary      ledger.Summary
	Negative     bool
	Transactions []ledger.Transaction
	Bars         []bar
}

const (
	chartHeight = 200
	chartBarTop = 20
	barWidth    = 80
)

// chartBars lays out the income (green) and expense (red) bars of the
// summary chart, scaled to the larger of the two.
func chartBars(sum ledger.Summary) []bar {
	totals := []struct {
		typ    ledger.Type
		amount decimal.Decimal
		color  string
	}{
		{ledger.TypeIncome, sum.Income, "#2e9e44"},
		{ledger.TypeExpense, sum.Expense, "#d64545"},
	}

	peak := decimal.Max(sum.Income, sum.Expense)
	usable := int64(chartHeight - chartBarTop - 20)

	bars := make([]bar, 0, len(totals))
	for i, t := range totals {
		h := 0
		if peak.IsPositive() && t.amount.IsPositive() {
			h = int(t.amount.Mul(decimal.NewFromInt(usable)).Div(peak).IntPart())
			if h == 0 {
				h = 1
			}
		}
		bars = append(bars, bar{
			Label:  t.typ.Label(),
			Amount: ledger.FormatMoney(t.amount),
			X:      40 + i*(barWidth+60),
			Y:      chartHeight - 20 - h,
			Width:  barWidth,
			Height: h,
			Color:  t.color,
		})
	}
	return bars
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sum, err := s.store.Summary(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("load summary")
		http.Error(w, "ledger unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	txns, err := s.store.ListAll(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("load transactions")
		http.Error(w, "ledger unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	view := dashboardView{
		Flash:        r.URL.Query().Get("flash"),
		Error:        r.URL.Query().Get("error"),
		Today:        time.Now().Format(ledger.DateLayout),
		Summary:      *sum,
		Negative:     sum.Balance.IsNegative(),
		Transactions: txns,
		Bars:         chartBars(*sum),
	}
	for i, t := range ledger.Types {
		view.Types = append(view.Types, option{Value: string(t), Label: t.Label(), Selected: i == 0})
	}
	for _, rate := range ledger.VATRates {
		view.Rates = append(view.Rates, option{
			Value:    rate.String(),
			Label:    ledger.FormatRate(rate),
			Selected: rate.Equal(s.defaultRate),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, view); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("render dashboard")
	}
}

// handleCreate appends the posted form and redirects back to the dashboard
// with a flash or error message in the query string.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "error", "invalid form: "+err.Error())
		return
	}

	d, err := draftFromForm(r.PostForm)
	if err != nil {
		redirectWith(w, r, "error", displayError(err))
		return
	}

	id, err := s.store.Append(ctx, d)
	if err != nil {
		redirectWith(w, r, "error", displayError(err))
		return
	}

	txn, err := s.store.Get(ctx, id)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("id", id).Msg("reload appended transaction")
	}
	s.broadcast(ctx, txn)

	redirectWith(w, r, "flash", ledger.Type(d.Type).Label()+" added successfully!")
}

func draftFromForm(form url.Values) (ledger.Draft, error) {
	d := ledger.Draft{
		CustomerSupplier: form.Get("customer_supplier"),
		Type:             strings.ToLower(strings.TrimSpace(form.Get("type"))),
		Description:      form.Get("description"),
		Date:             form.Get("date"),
		Category:         form.Get("category"),
	}

	if strings.TrimSpace(form.Get("price")) == "" {
		return d, fmt.Errorf("%w: price is required", ledger.ErrValidation)
	}
	if strings.TrimSpace(d.Date) == "" {
		return d, fmt.Errorf("%w: date is required", ledger.ErrValidation)
	}

	q, err := ledger.QuoteVAT(form.Get("price"), form.Get("rate"))
	if err != nil {
		return d, err
	}
	return d.WithQuote(q), nil
}

func displayError(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ledger.ErrValidation, ledger.ErrInvalidInput} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}

func redirectWith(w http.ResponseWriter, r *http.Request, key, msg string) {
	http.Redirect(w, r, "/?"+url.Values{key: {msg}}.Encode(), http.StatusSeeOther)
}
