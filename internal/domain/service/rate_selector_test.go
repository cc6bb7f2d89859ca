package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

func TestSelectRateTier_TotalOverScoreRange(t *testing.T) {
	selector := NewRateSelector(valueobject.DefaultRateTable())

	for score := 300; score <= 900; score++ {
		tier := selector.SelectRateTier(score)
		assert.True(t, tier.AnnualRatePct.IsPositive(), "score %d has no rate", score)
		assert.Positive(t, tier.MaxTenureMonths, "score %d has no max tenure", score)
	}
}

func TestSelectRateTier_NonIncreasingRateWithScore(t *testing.T) {
	selector := NewRateSelector(valueobject.DefaultRateTable())

	prev := selector.SelectRateTier(300)
	for score := 301; score <= 900; score++ {
		cur := selector.SelectRateTier(score)
		assert.True(t, cur.AnnualRatePct.LessThanOrEqual(prev.AnnualRatePct), "score %d", score)
		prev = cur
	}
}

func TestSelectRateTier_Boundaries(t *testing.T) {
	selector := NewRateSelector(valueobject.DefaultRateTable())

	tests := []struct {
		score int
		rate  string
		max   int
	}{
		{800, "9.5", 60},
		{799, "10.5", 60},
		{750, "10.5", 60},
		{749, "11", 48},
		{700, "11", 48},
		{699, "12.5", 36},
	}
	for _, tt := range tests {
		tier := selector.SelectRateTier(tt.score)
		assert.True(t, tier.AnnualRatePct.Equal(dec(tt.rate)), "score %d rate %s", tt.score, tier.AnnualRatePct)
		assert.Equal(t, tt.max, tier.MaxTenureMonths)
	}
}
