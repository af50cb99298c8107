package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"mortgage/internal/core"
	"mortgage/internal/form"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s))
}

// inputValue renders a parameter the way a user would type it back.
func inputValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fieldView is one input on the index page.
type fieldView struct {
	Name     string
	Label    string
	Value    string
	Currency bool
}

func fieldViews(p core.LoanParameters) []fieldView {
	fields := form.Fields()
	views := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		views = append(views, fieldView{
			Name:     f.String(),
			Label:    f.Label(),
			Value:    inputValue(f.Value(p)),
			Currency: f.IsCurrency(),
		})
	}
	return views
}

// resultsView is the results partial, already formatted for display.
type resultsView struct {
	MonthlyPayment    string
	MonthlyWithExtras string
	TotalPayment      string
	TotalInterest     string
	FinancedAmount    string
	DownPayment       string
	Revision          uint64
}

func newResultsView(s form.Snapshot) resultsView {
	return resultsView{
		MonthlyPayment:    core.FormatCurrency(s.Result.MonthlyPayment),
		MonthlyWithExtras: core.FormatCurrency(s.Result.MonthlyWithExtras),
		TotalPayment:      core.FormatCurrency(s.Result.TotalPayment),
		TotalInterest:     core.FormatCurrency(s.Result.TotalInterest),
		FinancedAmount:    core.FormatCurrency(s.Params.FinancedAmount()),
		DownPayment:       core.FormatCurrency(s.Params.DownPayment),
		Revision:          s.Revision,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
