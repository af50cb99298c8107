package form

import (
	"errors"
	"fmt"
	"math"

	"mortgage/internal/core"
)

// Field names one editable loan parameter.
type Field string

const (
	FieldPrincipal   Field = "principal"
	FieldAnnualRate  Field = "annual_rate"
	FieldTermYears   Field = "term_years"
	FieldDownPayment Field = "down_payment"
	FieldPropertyTax Field = "property_tax"
	FieldInsurance   Field = "insurance"
)

// ErrUnknownField is returned by ParseField for names outside Fields().
var ErrUnknownField = errors.New("unknown field")

// Fields lists the editable fields in form order.
func Fields() []Field {
	return []Field{
		FieldPrincipal,
		FieldDownPayment,
		FieldAnnualRate,
		FieldTermYears,
		FieldPropertyTax,
		FieldInsurance,
	}
}

// ParseField resolves a field name sent by an input widget.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// IsValid reports whether f is one of the known fields.
func (f Field) IsValid() bool {
	switch f {
	case FieldPrincipal, FieldAnnualRate, FieldTermYears, FieldDownPayment, FieldPropertyTax, FieldInsurance:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (f Field) String() string {
	return string(f)
}

// Label is the human readable caption shown next to the input.
func (f Field) Label() string {
	switch f {
	case FieldPrincipal:
		return "Loan Amount"
	case FieldAnnualRate:
		return "Annual Interest Rate (%)"
	case FieldTermYears:
		return "Loan Term (Years)"
	case FieldDownPayment:
		return "Down Payment"
	case FieldPropertyTax:
		return "Property Tax"
	case FieldInsurance:
		return "Insurance"
	default:
		return string(f)
	}
}

// IsCurrency reports whether the field holds a dollar amount.
func (f Field) IsCurrency() bool {
	return f != FieldAnnualRate && f != FieldTermYears
}

// Value reads the field from p.
func (f Field) Value(p core.LoanParameters) float64 {
	switch f {
	case FieldPrincipal:
		return p.Principal
	case FieldAnnualRate:
		return p.AnnualRatePercent
	case FieldTermYears:
		return float64(p.TermYears)
	case FieldDownPayment:
		return p.DownPayment
	case FieldPropertyTax:
		return p.MonthlyPropertyTax
	case FieldInsurance:
		return p.MonthlyInsurance
	default:
		return 0
	}
}

// apply returns a copy of p with only this field replaced.
func (f Field) apply(p core.LoanParameters, v float64) core.LoanParameters {
	switch f {
	case FieldPrincipal:
		p.Principal = v
	case FieldAnnualRate:
		p.AnnualRatePercent = v
	case FieldTermYears:
		p.TermYears = wholeYears(v)
	case FieldDownPayment:
		p.DownPayment = v
	case FieldPropertyTax:
		p.MonthlyPropertyTax = v
	case FieldInsurance:
		p.MonthlyInsurance = v
	}
	return p
}

// wholeYears truncates toward zero and saturates at the int32 range.
func wholeYears(v float64) int {
	t := math.Trunc(v)
	if t > math.MaxInt32 {
		return math.MaxInt32
	}
	if t < math.MinInt32 {
		return math.MinInt32
	}
	return int(t)
}
