package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/loan-origination/internal/domain/policy"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

// policyFile is the YAML shape of an underwriting policy override. Omitted
// fields keep their default values.
type policyFile struct {
	MinCreditScore             *int          `yaml:"min_credit_score"`
	MaxFOIRPct                 *string       `yaml:"max_foir_pct"`
	ConditionalLimitMultiplier *string       `yaml:"conditional_limit_multiplier"`
	RateTable                  *rateTableYML `yaml:"rate_table"`
}

type rateTableYML struct {
	Bands []struct {
		MinScore        int    `yaml:"min_score"`
		AnnualRatePct   string `yaml:"annual_rate_pct"`
		MaxTenureMonths int    `yaml:"max_tenure_months"`
	} `yaml:"bands"`
	Floor struct {
		AnnualRatePct   string `yaml:"annual_rate_pct"`
		MaxTenureMonths int    `yaml:"max_tenure_months"`
	} `yaml:"floor"`
}

// LoadPolicy returns the default policy, overridden by the YAML file at path
// when path is non-empty.
func LoadPolicy(path string) (policy.UnderwritingPolicy, error) {
	if path == "" {
		return policy.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return policy.UnderwritingPolicy{}, fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()
	return ParsePolicy(f)
}

// ParsePolicy reads a YAML policy override from r.
func ParsePolicy(r io.Reader) (policy.UnderwritingPolicy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return policy.UnderwritingPolicy{}, fmt.Errorf("read policy: %w", err)
	}

	var pf policyFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return policy.UnderwritingPolicy{}, fmt.Errorf("decode policy: %w", err)
	}

	p := policy.Default()
	if pf.MinCreditScore != nil {
		p.MinCreditScore = *pf.MinCreditScore
	}
	if pf.MaxFOIRPct != nil {
		if p.MaxFOIRPct, err = decimal.NewFromString(*pf.MaxFOIRPct); err != nil {
			return policy.UnderwritingPolicy{}, fmt.Errorf("max_foir_pct: %w", err)
		}
	}
	if pf.ConditionalLimitMultiplier != nil {
		if p.ConditionalLimitMultiplier, err = decimal.NewFromString(*pf.ConditionalLimitMultiplier); err != nil {
			return policy.UnderwritingPolicy{}, fmt.Errorf("conditional_limit_multiplier: %w", err)
		}
	}
	if pf.RateTable != nil {
		if p.RateTable, err = pf.RateTable.toRateTable(); err != nil {
			return policy.UnderwritingPolicy{}, err
		}
	}

	if err := p.Validate(); err != nil {
		return policy.UnderwritingPolicy{}, err
	}
	return p, nil
}

func (y rateTableYML) toRateTable() (valueobject.RateTable, error) {
	bands := make([]valueobject.RateBand, 0, len(y.Bands))
	for i, b := range y.Bands {
		rate, err := decimal.NewFromString(b.AnnualRatePct)
		if err != nil {
			return valueobject.RateTable{}, fmt.Errorf("rate_table.bands[%d].annual_rate_pct: %w", i, err)
		}
		bands = append(bands, valueobject.RateBand{
			MinScore: b.MinScore,
			Tier:     valueobject.RateTier{AnnualRatePct: rate, MaxTenureMonths: b.MaxTenureMonths},
		})
	}
	floorRate, err := decimal.NewFromString(y.Floor.AnnualRatePct)
	if err != nil {
		return valueobject.RateTable{}, fmt.Errorf("rate_table.floor.annual_rate_pct: %w", err)
	}
	table, err := valueobject.NewRateTable(bands, valueobject.RateTier{
		AnnualRatePct:   floorRate,
		MaxTenureMonths: y.Floor.MaxTenureMonths,
	})
	if err != nil {
		return valueobject.RateTable{}, fmt.Errorf("rate_table: %w", err)
	}
	return table, nil
}
