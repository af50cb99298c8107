package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mortgage/internal/core"
	"mortgage/internal/form"
)

const maxBodyBytes = 64 << 10

// EditRequest is one keystroke from a calculator input.
type EditRequest struct {
	Field form.Field
	Value string
}

// ParseEditRequest reads the field and raw value of a form-encoded edit.
// The value is passed through untouched: acceptance is the controller's call.
func ParseEditRequest(w http.ResponseWriter, r *http.Request) (EditRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return EditRequest{}, fmt.Errorf("parse form: %w", err)
	}

	field, err := form.ParseField(sanitizeInput(r.PostForm.Get("field")))
	if err != nil {
		return EditRequest{}, err
	}

	return EditRequest{Field: field, Value: r.PostForm.Get("value")}, nil
}

// DecodeLoanParameters reads a JSON LoanParameters body. Fields left out keep
// the calculator defaults.
func DecodeLoanParameters(w http.ResponseWriter, r *http.Request) (core.LoanParameters, error) {
	p := core.DefaultLoanParameters()

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return p, fmt.Errorf("unsupported content type %q", ct)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return core.DefaultLoanParameters(), nil
		}
		return p, fmt.Errorf("decode loan parameters: %w", err)
	}
	if dec.More() {
		return p, errors.New("decode loan parameters: trailing data")
	}
	return p, nil
}
