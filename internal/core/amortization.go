// Package core holds the mortgage amortization engine and the money helpers
// shared by every display layer.
package core

import "math"

// ComputePayment applies the standard fixed-rate amortization formula.
//
// Degenerate inputs (zero rate, zero or negative term, negative financed
// amount) never produce an error: any result field that comes out NaN or
// infinite is replaced with 0, each field on its own. A zero rate therefore
// yields an all-zero result rather than financed/n.
func ComputePayment(principal, annualRatePercent float64, termYears int, downPayment, monthlyPropertyTax, monthlyInsurance float64) AmortizationResult {
	financed := principal - downPayment
	monthlyRate := annualRatePercent / 100 / 12
	payments := float64(termYears * 12)

	growth := math.Pow(1+monthlyRate, payments)
	// The explicit conversions keep each product rounded to float64 so a
	// fused multiply-add cannot change the identities between fields.
	monthly := float64(financed*float64(monthlyRate*growth)) / (growth - 1)
	total := float64(monthly * payments)
	interest := total - financed
	withExtras := monthly + monthlyPropertyTax + monthlyInsurance

	return AmortizationResult{
		MonthlyPayment:    finiteOrZero(monthly),
		TotalPayment:      finiteOrZero(total),
		TotalInterest:     finiteOrZero(interest),
		MonthlyWithExtras: finiteOrZero(withExtras),
	}
}

// Compute is ComputePayment over a LoanParameters value.
func Compute(p LoanParameters) AmortizationResult {
	return ComputePayment(p.Principal, p.AnnualRatePercent, p.TermYears, p.DownPayment, p.MonthlyPropertyTax, p.MonthlyInsurance)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
