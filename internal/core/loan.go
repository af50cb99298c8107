package core

type (
	// LoanParameters are the user-supplied inputs of a fixed-rate mortgage.
	// Values are not validated: a down payment larger than the principal or a
	// zero term is accepted and handled by the engine's coercion rule.
	LoanParameters struct {
		Principal          float64 `json:"principal"`
		AnnualRatePercent  float64 `json:"annual_rate_percent"`
		TermYears          int     `json:"term_years"`
		DownPayment        float64 `json:"down_payment"`
		MonthlyPropertyTax float64 `json:"monthly_property_tax"`
		MonthlyInsurance   float64 `json:"monthly_insurance"`
	}

	// AmortizationResult holds the figures derived from LoanParameters.
	// Every field is finite.
	AmortizationResult struct {
		MonthlyPayment    float64 `json:"monthly_payment"`
		TotalPayment      float64 `json:"total_payment"`
		TotalInterest     float64 `json:"total_interest"`
		MonthlyWithExtras float64 `json:"monthly_with_extras"`
	}
)

const (
	DefaultPrincipal         = 300000.0
	DefaultAnnualRatePercent = 3.5
	DefaultTermYears         = 30
	DefaultDownPayment       = 60000.0
)

// DefaultLoanParameters returns the values a new calculator starts with.
func DefaultLoanParameters() LoanParameters {
	return LoanParameters{
		Principal:         DefaultPrincipal,
		AnnualRatePercent: DefaultAnnualRatePercent,
		TermYears:         DefaultTermYears,
		DownPayment:       DefaultDownPayment,
	}
}

// FinancedAmount is the amount actually borrowed. It may be zero or negative.
func (p LoanParameters) FinancedAmount() float64 {
	return p.Principal - p.DownPayment
}

// NumberOfPayments is the count of monthly installments.
func (p LoanParameters) NumberOfPayments() int {
	return p.TermYears * 12
}
