package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/policy"
)

// RateSource records where a sanctioned rate came from.
type RateSource string

const (
	RateSourcePolicy   RateSource = "policy"
	RateSourceOverride RateSource = "override"
)

// SanctionFigures are the final numbers printed on the sanction letter and
// persisted with the loan application.
type SanctionFigures struct {
	CustomerID      string
	LoanAmount      decimal.Decimal
	TenureMonths    int
	InterestRatePct decimal.Decimal
	RateSource      RateSource
	EMI             EMIResult
}

// Terms converts the figures into the aggregate's LoanTerms.
func (f SanctionFigures) Terms() model.LoanTerms {
	return model.LoanTerms{
		Amount:          f.LoanAmount,
		TenureMonths:    f.TenureMonths,
		InterestRatePct: f.InterestRatePct,
		MonthlyEMI:      f.EMI.MonthlyEMI,
		TotalInterest:   f.EMI.TotalInterest,
		TotalPayable:    f.EMI.TotalPayable,
	}
}

// SanctionCalculator materialises final loan terms through the same rate
// selector and EMI calculator the eligibility engine uses.
type SanctionCalculator struct {
	selector RateSelector
}

// NewSanctionCalculator returns a calculator pricing with p's rate table.
func NewSanctionCalculator(p policy.UnderwritingPolicy) *SanctionCalculator {
	return &SanctionCalculator{selector: NewRateSelector(p.RateTable)}
}

// ComputeSanction prices amount over tenureMonths for profile. A nil
// rateOverride uses the profile's policy tier.
func (c *SanctionCalculator) ComputeSanction(
	profile model.CustomerProfile,
	amount decimal.Decimal,
	tenureMonths int,
	rateOverride *decimal.Decimal,
) (SanctionFigures, error) {
	rate := c.selector.SelectRateTier(profile.CreditScore()).AnnualRatePct
	source := RateSourcePolicy
	if rateOverride != nil {
		rate = *rateOverride
		source = RateSourceOverride
	}

	emi, err := CalculateEMI(amount, rate, tenureMonths)
	if err != nil {
		return SanctionFigures{}, err
	}

	return SanctionFigures{
		CustomerID:      profile.CustomerID(),
		LoanAmount:      amount,
		TenureMonths:    tenureMonths,
		InterestRatePct: rate,
		RateSource:      source,
		EMI:             emi,
	}, nil
}
