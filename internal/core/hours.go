// Package core provides hours parsing and handling utilities.
//
// Hours are exact decimals so that a stored value reads back as entered and
// weekly sums do not depend on the order in which activities are added up.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Magnitude window of accepted hours, matching what a float64 can hold.
const (
	maxHoursExponent = 308
	minHoursExponent = -323
)

// Hours is a positive duration in hours. The zero value is zero hours.
type Hours struct {
	Value decimal.Decimal
}

// ParseHours converts a decimal string to exact hours.
//
// It accepts dot (2.5) and comma (2,5) decimal separators and exponent forms
// (1e1). Values that are empty, malformed, zero or negative return
// ErrInvalidHours. Nothing is rounded.
//
// Examples:
//
//	ParseHours("3")     -> 3, nil
//	ParseHours("2,5")   -> 2.5, nil
//	ParseHours("1.255") -> 1.255, nil
//	ParseHours("0")     -> ErrInvalidHours
func ParseHours(s string) (Hours, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Hours{}, ErrInvalidHours
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Hours{}, ErrInvalidHours
	}
	h := Hours{Value: d}
	if err := h.Validate(); err != nil {
		return Hours{}, err
	}
	return h, nil
}

// Validate rejects zero, negative and out-of-range hours.
func (h Hours) Validate() error {
	if !h.Value.IsPositive() {
		return ErrInvalidHours
	}
	// exponent of the leading digit, computed without expanding the value
	lead := int(h.Value.Exponent()) + h.Value.NumDigits() - 1
	if lead > maxHoursExponent || lead < minHoursExponent {
		return ErrInvalidHours
	}
	return nil
}

// Add returns h + o.
func (h Hours) Add(o Hours) Hours {
	return Hours{Value: h.Value.Add(o.Value)}
}

// Equal reports whether h and o are the same amount.
func (h Hours) Equal(o Hours) bool {
	return h.Value.Equal(o.Value)
}

// Float returns the hours as a float64 for spreadsheet cells.
func (h Hours) Float() float64 {
	return h.Value.InexactFloat64()
}

// String renders hours without trailing zeros, e.g. "4", "2.5", "1.255".
func (h Hours) String() string {
	return h.Value.String()
}
