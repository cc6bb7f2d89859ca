package service

import (
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

// RateSelector prices a credit score against a rate table. It is the single
// place a rate is chosen, so offers, eligibility and sanction agree.
type RateSelector struct {
	table valueobject.RateTable
}

// NewRateSelector returns a selector over table.
func NewRateSelector(table valueobject.RateTable) RateSelector {
	return RateSelector{table: table}
}

// SelectRateTier returns the tier for creditScore. It is defined for every int.
func (s RateSelector) SelectRateTier(creditScore int) valueobject.RateTier {
	return s.table.Lookup(creditScore)
}
