package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mortgage/internal/core"
	"mortgage/internal/form"
)

func formRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/calculator/edit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseEditRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField form.Field
		wantValue string
		wantErr   error
	}{
		{"principal", "field=principal&value=350000", form.FieldPrincipal, "350000", nil},
		{"raw value kept", "field=down_payment&value=%24+1%2C000", form.FieldDownPayment, "$ 1,000", nil},
		{"empty value kept", "field=insurance&value=", form.FieldInsurance, "", nil},
		{"field is trimmed", "field=+term_years%0A&value=15", form.FieldTermYears, "15", nil},
		{"unknown field", "field=color&value=1", "", "", form.ErrUnknownField},
		{"missing field", "value=1", "", "", form.ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEditRequest(httptest.NewRecorder(), formRequest(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Field != tt.wantField || got.Value != tt.wantValue {
				t.Errorf("got %+v, want field %q value %q", got, tt.wantField, tt.wantValue)
			}
		})
	}
}

func TestDecodeLoanParameters(t *testing.T) {
	defaults := core.DefaultLoanParameters()

	tests := []struct {
		name    string
		body    string
		ctype   string
		want    core.LoanParameters
		wantErr bool
	}{
		{"empty body gives defaults", "", "application/json", defaults, false},
		{"partial body", `{"annual_rate_percent": 6}`, "application/json", func() core.LoanParameters {
			p := defaults
			p.AnnualRatePercent = 6
			return p
		}(), false},
		{"full body", `{"principal":100,"annual_rate_percent":1,"term_years":2,"down_payment":3,"monthly_property_tax":4,"monthly_insurance":5}`, "",
			core.LoanParameters{Principal: 100, AnnualRatePercent: 1, TermYears: 2, DownPayment: 3, MonthlyPropertyTax: 4, MonthlyInsurance: 5}, false},
		{"malformed", `{"principal":`, "application/json", core.LoanParameters{}, true},
		{"unknown field", `{"rate": 3}`, "application/json", core.LoanParameters{}, true},
		{"fractional term", `{"term_years": 12.5}`, "application/json", core.LoanParameters{}, true},
		{"trailing data", `{} {}`, "application/json", core.LoanParameters{}, true},
		{"wrong content type", `{}`, "text/plain", core.LoanParameters{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			got, err := DecodeLoanParameters(httptest.NewRecorder(), req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  principal ":     "principal",
		"term\x00_years":   "term_years",
		"annual_rate\r\n": "annual_rate",
	}
	for in, want := range tests {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInputValue(t *testing.T) {
	tests := map[float64]string{
		300000: "300000",
		3.5:    "3.5",
		0:      "0",
		-12.25: "-12.25",
	}
	for in, want := range tests {
		if got := inputValue(in); got != want {
			t.Errorf("inputValue(%v) = %q, want %q", in, got, want)
		}
	}
}
