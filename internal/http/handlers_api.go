package http

import (
	"net/http"
	"sync/atomic"

	"mortgage/internal/core"
	applog "mortgage/internal/log"
)

// calculateResponse carries every figure as a fixed two-decimal string.
type calculateResponse struct {
	Params            core.LoanParameters `json:"params"`
	FinancedAmount    string              `json:"financed_amount"`
	MonthlyPayment    string              `json:"monthly_payment"`
	TotalPayment      string              `json:"total_payment"`
	TotalInterest     string              `json:"total_interest"`
	MonthlyWithExtras string              `json:"monthly_with_extras"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func cents(v float64) string {
	return core.RoundCents(v).StringFixed(2)
}

func newCalculateResponse(p core.LoanParameters, res core.AmortizationResult) calculateResponse {
	return calculateResponse{
		Params:            p,
		FinancedAmount:    cents(p.FinancedAmount()),
		MonthlyPayment:    cents(res.MonthlyPayment),
		TotalPayment:      cents(res.TotalPayment),
		TotalInterest:     cents(res.TotalInterest),
		MonthlyWithExtras: cents(res.MonthlyWithExtras),
	}
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	p, err := DecodeLoanParameters(w, r)
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Invalid calculate request",
			applog.FieldOperation, applog.OpParse,
			applog.FieldError, err)
		_ = writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	atomic.AddInt64(&s.appMetrics.apiCalculations, 1)
	res := s.calculator.Calculate(r.Context(), p)
	_ = writeJSON(w, http.StatusOK, newCalculateResponse(p, res))
}
