package valueobject

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// RateTier – immutable value object
// ---------------------------------------------------------------------------

// RateTier is the pricing a credit score earns: an annual interest rate and
// the longest tenure offered at that rate.
type RateTier struct {
	AnnualRatePct   decimal.Decimal
	MaxTenureMonths int
}

// Equal returns true when both tiers carry the same rate and tenure.
func (t RateTier) Equal(other RateTier) bool {
	return t.AnnualRatePct.Equal(other.AnnualRatePct) && t.MaxTenureMonths == other.MaxTenureMonths
}

// RateBand assigns Tier to every credit score at or above MinScore, up to the
// next higher band.
type RateBand struct {
	MinScore int
	Tier     RateTier
}

// ---------------------------------------------------------------------------
// RateTable – ordered score bands plus a floor tier
// ---------------------------------------------------------------------------

// RateTable maps credit scores to rate tiers. Lookup is total: scores below
// every band fall through to the floor tier.
type RateTable struct {
	bands []RateBand // sorted by MinScore, descending
	floor RateTier
}

// NewRateTable validates and builds a table. Bands may be given in any order
// but must have distinct thresholds.
func NewRateTable(bands []RateBand, floor RateTier) (RateTable, error) {
	if err := validateTier(floor); err != nil {
		return RateTable{}, fmt.Errorf("floor tier: %w", err)
	}

	sorted := slices.Clone(bands)
	slices.SortFunc(sorted, func(a, b RateBand) int { return cmp.Compare(b.MinScore, a.MinScore) })

	for i, b := range sorted {
		if err := validateTier(b.Tier); err != nil {
			return RateTable{}, fmt.Errorf("band %d: %w", b.MinScore, err)
		}
		if i > 0 && sorted[i-1].MinScore == b.MinScore {
			return RateTable{}, fmt.Errorf("duplicate band threshold %d", b.MinScore)
		}
	}

	return RateTable{bands: sorted, floor: floor}, nil
}

// DefaultRateTable returns the standing personal-loan pricing.
//
//	score >= 800 -> 9.5%,  60 months
//	score >= 750 -> 10.5%, 60 months
//	score >= 700 -> 11.0%, 48 months
//	otherwise    -> 12.5%, 36 months
func DefaultRateTable() RateTable {
	t, err := NewRateTable([]RateBand{
		{MinScore: 800, Tier: RateTier{AnnualRatePct: decimal.RequireFromString("9.5"), MaxTenureMonths: 60}},
		{MinScore: 750, Tier: RateTier{AnnualRatePct: decimal.RequireFromString("10.5"), MaxTenureMonths: 60}},
		{MinScore: 700, Tier: RateTier{AnnualRatePct: decimal.RequireFromString("11.0"), MaxTenureMonths: 48}},
	}, RateTier{AnnualRatePct: decimal.RequireFromString("12.5"), MaxTenureMonths: 36})
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the tier for score.
func (t RateTable) Lookup(score int) RateTier {
	for _, b := range t.bands {
		if score >= b.MinScore {
			return b.Tier
		}
	}
	return t.floor
}

// Bands returns a copy of the bands, highest threshold first.
func (t RateTable) Bands() []RateBand { return slices.Clone(t.bands) }

// Floor returns the tier for scores below every band.
func (t RateTable) Floor() RateTier { return t.floor }

// IsZero returns true if the table has not been initialised.
func (t RateTable) IsZero() bool { return len(t.bands) == 0 && t.floor.MaxTenureMonths == 0 }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var ErrInvalidRateTier = errors.New("invalid rate tier")

func validateTier(t RateTier) error {
	if t.AnnualRatePct.IsNegative() {
		return fmt.Errorf("%w: negative rate %s", ErrInvalidRateTier, t.AnnualRatePct)
	}
	if t.MaxTenureMonths <= 0 {
		return fmt.Errorf("%w: max tenure %d", ErrInvalidRateTier, t.MaxTenureMonths)
	}
	return nil
}
