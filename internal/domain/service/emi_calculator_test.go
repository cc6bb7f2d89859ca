package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateEMI_KnownValues(t *testing.T) {
	tests := []struct {
		name          string
		amount, rate  string
		tenure        int
		emi, interest string
		payable       string
	}{
		{"500k at 10.5% over 36", "500000", "10.5", 36, "16251.22", "85043.98", "585043.98"},
		{"900k at 10.5% over 36", "900000", "10.5", 36, "29252.20", "153079.17", "1053079.17"},
		{"500k at 9.5% over 36", "500000", "9.5", 36, "16016.47", "76593.10", "576593.10"},
		{"1m at 10.5% over 36", "1000000", "10.5", 36, "32502.44", "170087.97", "1170087.97"},
		{"100k at 11% over 24", "100000", "11.0", 24, "4660.78", "11858.81", "111858.81"},
		{"200k at 12.5% over 12", "200000", "12.5", 12, "17816.57", "13798.87", "213798.87"},
		{"500k at 10.5% over 60", "500000", "10.5", 60, "10746.95", "144817.01", "644817.01"},
		{"300k at 11% over 48", "300000", "11.0", 48, "7753.66", "72175.53", "372175.53"},
		{"250k at 9.5% over 12", "250000", "9.5", 12, "21920.88", "13050.54", "263050.54"},
		{"zero rate", "100000", "0", 12, "8333.33", "0.00", "100000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateEMI(dec(tt.amount), dec(tt.rate), tt.tenure)
			require.NoError(t, err)
			assert.Equal(t, tt.emi, got.MonthlyEMI.StringFixed(2))
			assert.Equal(t, tt.interest, got.TotalInterest.StringFixed(2))
			assert.Equal(t, tt.payable, got.TotalPayable.StringFixed(2))
		})
	}
}

func TestCalculateEMI_TotalsUseUnroundedInstallment(t *testing.T) {
	got, err := CalculateEMI(dec("100000"), decimal.Zero, 12)
	require.NoError(t, err)

	// 8333.33 × 12 would be 99999.96.
	assert.True(t, got.TotalPayable.Equal(dec("100000")))
	assert.True(t, got.TotalInterest.IsZero())
}

func TestCalculateEMI_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		tenure int
	}{
		{"zero tenure", "100000", "10", 0},
		{"negative tenure", "100000", "10", -12},
		{"zero amount", "0", "10", 12},
		{"negative amount", "-5", "10", 12},
		{"negative rate", "100000", "-0.5", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateEMI(dec(tt.amount), dec(tt.rate), tt.tenure)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCalculateEMI_Idempotent(t *testing.T) {
	first, err := CalculateEMI(dec("737373.37"), dec("10.75"), 41)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := CalculateEMI(dec("737373.37"), dec("10.75"), 41)
		require.NoError(t, err)
		assert.Equal(t, first.MonthlyEMI.String(), again.MonthlyEMI.String())
		assert.Equal(t, first.TotalInterest.String(), again.TotalInterest.String())
		assert.Equal(t, first.TotalPayable.String(), again.TotalPayable.String())
	}
}

func TestCalculateEMI_MonotonicInRate(t *testing.T) {
	amount := dec("500000")
	for _, tenure := range []int{6, 12, 36, 60} {
		prev, err := CalculateEMI(amount, decimal.Zero, tenure)
		require.NoError(t, err)
		for step := 1; step <= 60; step++ {
			rate := decimal.NewFromInt(int64(step)).Div(decimal.NewFromInt(2))
			cur, err := CalculateEMI(amount, rate, tenure)
			require.NoError(t, err)
			assert.True(t, cur.MonthlyEMI.GreaterThan(prev.MonthlyEMI),
				"tenure %d: emi at %s%% (%s) not above previous (%s)", tenure, rate, cur.MonthlyEMI, prev.MonthlyEMI)
			prev = cur
		}
	}
}

func TestCalculateEMI_MonotonicInTenure(t *testing.T) {
	amount := dec("500000")
	for _, rate := range []string{"0", "9.5", "12.5", "24"} {
		prev, err := CalculateEMI(amount, dec(rate), 1)
		require.NoError(t, err)
		for tenure := 2; tenure <= 84; tenure++ {
			cur, err := CalculateEMI(amount, dec(rate), tenure)
			require.NoError(t, err)
			assert.True(t, cur.MonthlyEMI.LessThan(prev.MonthlyEMI),
				"rate %s: emi at %d months (%s) not below previous (%s)", rate, tenure, cur.MonthlyEMI, prev.MonthlyEMI)
			prev = cur
		}
	}
}

func TestCalculateEMI_SingleMonthIsPrincipalPlusOneMonthInterest(t *testing.T) {
	got, err := CalculateEMI(dec("120000"), dec("12"), 1)
	require.NoError(t, err)
	assert.Equal(t, "121200.00", got.MonthlyEMI.StringFixed(2))
	assert.Equal(t, "1200.00", got.TotalInterest.StringFixed(2))
}
