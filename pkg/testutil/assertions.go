package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimal checks that got is numerically equal to want, so "10.5" and
// a NUMERIC(6,3) read back as "10.500" compare equal.
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	w, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("testutil: bad expected decimal %q: %v", want, err)
	}
	if w.Equal(got) {
		return true
	}
	return assert.Fail(t, "decimals differ: expected "+w.String()+", got "+got.String(), msgAndArgs...)
}

// AssertMoney checks that got, rounded to two places, renders as want.
func AssertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}
