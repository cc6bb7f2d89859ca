// Package money holds the monetary value types and the single rounding policy
// shared by quoting, underwriting and sanction documents.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places of the currency minor unit.
const MinorUnitPlaces = 2

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// RoundMinor rounds d to the currency minor unit using round-half-to-even.
// Every figure shown to a customer or persisted goes through this function.
func RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MinorUnitPlaces)
}

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string { return c.code }

func (c Currency) String() string { return c.code }

// INR is the lending currency.
var INR = MustCurrency("INR")

// Money is an immutable monetary amount with currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value rounded to the minor unit.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: RoundMinor(amount), currency: currency}
}

// NewFromString parses an amount string and currency code into a Money value.
func NewFromString(amount string, currency string) (Money, error) {
	cur, err := NewCurrency(currency)
	if err != nil {
		return Money{}, fmt.Errorf("invalid currency: %w", err)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	return New(d, cur), nil
}

// Zero returns a Money value of zero in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }

// Add returns the sum of m and other. Returns an error if the currencies do not match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Multiply returns m multiplied by factor, rounded to the minor unit.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return New(m.amount.Mul(factor), m.currency)
}

// Equal returns true if both the amount and currency of m and other are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats the value as "<currency> <amount>", for example "INR 16251.22".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency.Code(), m.amount.StringFixed(MinorUnitPlaces))
}

// Grouped formats the amount with Indian digit grouping, for example
// "INR 11,70,087.97". Used on customer-facing documents.
func (m Money) Grouped() string {
	fixed := m.amount.Abs().StringFixed(MinorUnitPlaces)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped string
	if len(intPart) <= 3 {
		grouped = intPart
	} else {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}

	sign := ""
	if m.amount.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s.%s", m.currency.Code(), sign, grouped, frac)
}
