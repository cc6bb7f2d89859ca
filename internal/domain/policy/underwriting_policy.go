// Package policy holds the named underwriting thresholds. The eligibility
// engine and sanction computation read every constant from here.
package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

// UnderwritingPolicy is the complete set of thresholds an eligibility
// decision depends on.
type UnderwritingPolicy struct {
	// MinCreditScore gates every decision; scores below it are rejected.
	MinCreditScore int
	// MaxFOIRPct is the highest fixed-obligations-to-income ratio, in percent,
	// that still approves. The comparison is strictly greater-than.
	MaxFOIRPct decimal.Decimal
	// ConditionalLimitMultiplier bounds the conditional tier at
	// multiplier × pre-approved limit, inclusive.
	ConditionalLimitMultiplier decimal.Decimal
	RateTable                  valueobject.RateTable
}

// Default returns the policy in force: score 700, FOIR 50%, 2× limit.
func Default() UnderwritingPolicy {
	return UnderwritingPolicy{
		MinCreditScore:             700,
		MaxFOIRPct:                 decimal.NewFromInt(50),
		ConditionalLimitMultiplier: decimal.NewFromInt(2),
		RateTable:                  valueobject.DefaultRateTable(),
	}
}

var ErrInvalidPolicy = errors.New("invalid underwriting policy")

// Validate checks the thresholds are usable.
func (p UnderwritingPolicy) Validate() error {
	if p.MaxFOIRPct.IsNegative() || p.MaxFOIRPct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: max FOIR %s%% outside [0, 100]", ErrInvalidPolicy, p.MaxFOIRPct)
	}
	if p.ConditionalLimitMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: conditional multiplier %s below 1", ErrInvalidPolicy, p.ConditionalLimitMultiplier)
	}
	if p.RateTable.IsZero() {
		return fmt.Errorf("%w: empty rate table", ErrInvalidPolicy)
	}
	return nil
}
