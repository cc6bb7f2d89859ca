package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/policy"
)

func TestComputeSanction_UsesPolicyRate(t *testing.T) {
	calc := NewSanctionCalculator(policy.Default())
	profile := newProfile(t, 780, "80000", "500000")

	f, err := calc.ComputeSanction(*profile, dec("500000"), 36, nil)
	require.NoError(t, err)

	assert.Equal(t, "C001", f.CustomerID)
	assert.Equal(t, RateSourcePolicy, f.RateSource)
	assert.Equal(t, "10.5", f.InterestRatePct.String())
	assert.Equal(t, "16251.22", f.EMI.MonthlyEMI.StringFixed(2))
	assert.Equal(t, "85043.98", f.EMI.TotalInterest.StringFixed(2))
	assert.Equal(t, "585043.98", f.EMI.TotalPayable.StringFixed(2))
}

func TestComputeSanction_Override(t *testing.T) {
	calc := NewSanctionCalculator(policy.Default())
	profile := newProfile(t, 780, "80000", "500000")
	rate := dec("9.5")

	f, err := calc.ComputeSanction(*profile, dec("500000"), 36, &rate)
	require.NoError(t, err)

	assert.Equal(t, RateSourceOverride, f.RateSource)
	assert.Equal(t, "16016.47", f.EMI.MonthlyEMI.StringFixed(2))
}

func TestComputeSanction_InvalidInput(t *testing.T) {
	calc := NewSanctionCalculator(policy.Default())
	profile := newProfile(t, 780, "80000", "500000")
	negative := dec("-1")

	_, err := calc.ComputeSanction(*profile, dec("500000"), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.ComputeSanction(*profile, dec("500000"), 36, &negative)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeSanction_MatchesEligibility(t *testing.T) {
	p := policy.Default()
	engine := NewEligibilityEngine(p)
	calc := NewSanctionCalculator(p)

	for _, score := range []int{700, 720, 760, 810} {
		profile := newProfile(t, score, "200000", "800000")
		for _, tenure := range []int{12, 24, 36, 48} {
			req := model.LoanRequest{LoanAmount: dec("650000"), TenureMonths: tenure}

			d, err := engine.Evaluate(profile, req)
			require.NoError(t, err)
			require.False(t, d.IsRejected())

			f, err := calc.ComputeSanction(*profile, req.LoanAmount, req.TenureMonths, nil)
			require.NoError(t, err)

			assert.True(t, d.InterestRatePct.Equal(f.InterestRatePct))
			assert.Equal(t, d.EMI, f.EMI)
		}
	}
}

func TestSanctionFigures_Terms(t *testing.T) {
	calc := NewSanctionCalculator(policy.Default())
	f, err := calc.ComputeSanction(*newProfile(t, 810, "90000", "300000"), dec("250000"), 12, nil)
	require.NoError(t, err)

	terms := f.Terms()
	assert.Equal(t, "21920.88", terms.MonthlyEMI.StringFixed(2))
	assert.Equal(t, "13050.54", terms.TotalInterest.StringFixed(2))
	assert.Equal(t, "263050.54", terms.TotalPayable.StringFixed(2))
	assert.Equal(t, 12, terms.TenureMonths)
}
