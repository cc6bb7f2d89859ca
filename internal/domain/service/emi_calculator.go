package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/pkg/money"
)

// ErrInvalidInput is returned for non-positive amount or tenure, or a negative rate.
var ErrInvalidInput = errors.New("invalid input")

// intermediatePrecision is the number of fractional digits carried through the
// annuity formula before the final rounding to the minor unit.
const intermediatePrecision = 28

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// EMIResult holds the installment and totals, each rounded half-to-even to
// two decimal places.
type EMIResult struct {
	MonthlyEMI    decimal.Decimal
	TotalInterest decimal.Decimal
	TotalPayable  decimal.Decimal
}

// CalculateEMI computes the reducing-balance installment
//
//	r   = annualRatePct / 1200
//	emi = P × r × (1+r)^n / ((1+r)^n − 1)     (P / n when r = 0)
//
// totalPayable is emi × n on the unrounded emi and totalInterest is
// totalPayable − P; each output is then rounded independently.
func CalculateEMI(loanAmount, annualRatePct decimal.Decimal, tenureMonths int) (EMIResult, error) {
	if tenureMonths <= 0 {
		return EMIResult{}, fmt.Errorf("%w: tenure %d months must be positive", ErrInvalidInput, tenureMonths)
	}
	if !loanAmount.IsPositive() {
		return EMIResult{}, fmt.Errorf("%w: loan amount %s must be positive", ErrInvalidInput, loanAmount)
	}
	if annualRatePct.IsNegative() {
		return EMIResult{}, fmt.Errorf("%w: annual rate %s must not be negative", ErrInvalidInput, annualRatePct)
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	emi := exactEMI(loanAmount, annualRatePct, tenureMonths)
	totalPayable := emi.Mul(n)

	return EMIResult{
		MonthlyEMI:    money.RoundMinor(emi),
		TotalInterest: money.RoundMinor(totalPayable.Sub(loanAmount)),
		TotalPayable:  money.RoundMinor(totalPayable),
	}, nil
}

func exactEMI(amount, annualRatePct decimal.Decimal, tenureMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePct.IsZero() {
		return amount.DivRound(n, intermediatePrecision)
	}

	r := annualRatePct.DivRound(monthsInYear.Mul(hundred), intermediatePrecision)
	factor := powInt(decimal.NewFromInt(1).Add(r), tenureMonths)

	return amount.Mul(r).Mul(factor).DivRound(factor.Sub(decimal.NewFromInt(1)), intermediatePrecision)
}

// powInt raises base to a positive integer power by repeated squaring,
// rounding each step to the intermediate precision so digit growth stays bounded.
func powInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(intermediatePrecision)
		}
		base = base.Mul(base).Round(intermediatePrecision)
		exp >>= 1
	}
	return result
}
