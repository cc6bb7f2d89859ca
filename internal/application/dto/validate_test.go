package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	amount := decimal.RequireFromString("500000")
	negative := decimal.RequireFromString("-0.01")
	zero := decimal.Zero
	subPaisa := decimal.RequireFromString("500000.004")
	trailingZeros := decimal.RequireFromString("500000.500")
	tooLarge := decimal.RequireFromString("10000000000000")
	rate1000 := decimal.RequireFromString("1000")
	rateFine := decimal.RequireFromString("10.125")
	rateTooFine := decimal.RequireFromString("10.1255")

	tests := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{"valid eligibility", EvaluateEligibilityRequest{CustomerID: "c1", LoanAmount: amount, TenureMonths: 36}, false},
		{"missing customer", EvaluateEligibilityRequest{LoanAmount: amount, TenureMonths: 36}, true},
		{"zero amount", EvaluateEligibilityRequest{CustomerID: "c1", LoanAmount: zero, TenureMonths: 36}, true},
		{"zero tenure", EvaluateEligibilityRequest{CustomerID: "c1", LoanAmount: amount}, true},
		{"zero override allowed", SanctionLoanRequest{CustomerID: "c1", LoanAmount: amount, TenureMonths: 12, InterestRateOverride: &zero}, false},
		{"negative override", SanctionLoanRequest{CustomerID: "c1", LoanAmount: amount, TenureMonths: 12, InterestRateOverride: &negative}, true},
		{"quote by rate only", QuoteEMIRequest{LoanAmount: amount, TenureMonths: 12, AnnualRatePct: &zero}, false},
		{"quote without rate or customer", QuoteEMIRequest{LoanAmount: amount, TenureMonths: 12}, true},
		{"sub-paisa amount", SanctionLoanRequest{CustomerID: "c1", LoanAmount: subPaisa, TenureMonths: 12}, true},
		{"trailing zeros are not extra precision", SanctionLoanRequest{CustomerID: "c1", LoanAmount: trailingZeros, TenureMonths: 12}, false},
		{"amount beyond the stored column", SanctionLoanRequest{CustomerID: "c1", LoanAmount: tooLarge, TenureMonths: 12}, true},
		{"eligibility amount beyond the stored column", EvaluateEligibilityRequest{CustomerID: "c1", LoanAmount: tooLarge, TenureMonths: 12}, true},
		{"override beyond the stored column", SanctionLoanRequest{CustomerID: "c1", LoanAmount: amount, TenureMonths: 12, InterestRateOverride: &rate1000}, true},
		{"override with three places", SanctionLoanRequest{CustomerID: "c1", LoanAmount: amount, TenureMonths: 12, InterestRateOverride: &rateFine}, false},
		{"override with four places", SanctionLoanRequest{CustomerID: "c1", LoanAmount: amount, TenureMonths: 12, InterestRateOverride: &rateTooFine}, true},
		{"quote rate with four places", QuoteEMIRequest{LoanAmount: amount, TenureMonths: 12, AnnualRatePct: &rateTooFine}, true},
		{"documents need a customer", ListCustomerDocumentsRequest{}, true},
		{"bad slip url", RecordSalarySlipRequest{CustomerID: "c1", SlipURL: "not a url"}, true},
		{"status outside servicing", ChangeApplicationStatusRequest{ApplicationID: "3f2b6c1e-8d4a-4a57-9b0e-2c5d7e9f1a23", Status: "SANCTIONED"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
