// Package core provides money parsing and formatting utilities.
//
// This file contains the acceptance rule for raw text typed into an amount
// field and the whole-dollar formatting used by the display layers.
package core

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyInput    = errors.New("empty input")
	ErrInvalidAmount = errors.New("invalid amount")
)

// leadingNumber matches the numeric prefix a lenient float parse accepts.
var leadingNumber = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)`)

// SanitizeAmount drops every rune that is not a digit, '.' or '-'.
func SanitizeAmount(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
}

// ParseAmount converts raw field text to a number.
//
// Currency punctuation is stripped first, then the longest leading numeric
// prefix is parsed, so trailing garbage is tolerated. A number too large
// for a float64 is rejected with ErrInvalidAmount rather than stored as ±Inf.
//
// Examples:
//   ParseAmount("$1,234.56") -> 1234.56, nil
//   ParseAmount("3.5%")      -> 3.5, nil
//   ParseAmount("1.2.3")     -> 1.2, nil
//   ParseAmount("abc")       -> 0, ErrInvalidAmount
//   ParseAmount("")          -> 0, ErrEmptyInput
func ParseAmount(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, ErrEmptyInput
	}
	num := leadingNumber.FindString(SanitizeAmount(raw))
	if num == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatCurrency renders an amount as whole US dollars, e.g. "$1,078".
// Non-finite amounts render as "$0".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0"
	}
	whole := math.Round(amount)
	switch {
	case whole == 0:
		return "$0"
	case whole < 0:
		return "-$" + humanize.Commaf(-whole)
	default:
		return "$" + humanize.Commaf(whole)
	}
}

// RoundCents rounds an amount to two decimal places for reporting.
func RoundCents(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}
