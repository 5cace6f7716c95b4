// Package core holds the financial ledger model and its derived-metric
// computations. Everything here is pure: no store access, no I/O.
//
// This file contains the Money and ID value types plus decimal parsing.
// Amounts are kept as integer cents; floating point is used only for
// percentage-style derived values.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency amount in cents. It marshals to a plain JSON
// number ("833.33") and accepts either a number or a quoted decimal
// string on input, since clients of the original API sent both.
type Money struct {
	Cents int64
}

// ID identifies an item inside one user's collection. IDs are compared
// as strings; callers may supply their own or let the store assign a
// timestamp-derived one. JSON input may be a number or a string.
type ID string

// ParseDecimal converts a decimal string to cents with half-up rounding
// on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted, as is a leading sign. Zero is valid here;
// range checks belong to the entity Validate methods.
func ParseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// FromUnits builds a Money from whole currency units.
func FromUnits(units int64) Money {
	return Money{Cents: units * 100}
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Float returns the amount in currency units for display and for
// percentage math. Calculations on amounts themselves stay in cents.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount as a decimal with no trailing zeros for
// whole values ("25000", "833.33").
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	var s string
	if cents%100 == 0 {
		s = strconv.FormatInt(cents/100, 10)
	} else {
		s = strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	}
	if neg {
		return "-" + s
	}
	return s
}

// Format renders the amount with thousands separators and a currency
// symbol ("25,000 ₽"), matching the original export formatting.
func (m Money) Format(currency string) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := groupThousands(cents / 100)
	s := whole
	if cents%100 != 0 {
		s += "." + pad2(cents%100)
	}
	if neg {
		s = "-" + s
	}
	if currency != "" {
		s += " " + currency
	}
	return s
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	cents, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	*id = ID(strings.Trim(s, `"`))
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
