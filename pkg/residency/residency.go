// Package residency enforces data localisation for stored customer documents.
// Sanction letters carry PII and loan terms, so the object store holding them
// must sit in a region the lending jurisdiction allows.
package residency

import (
	"errors"
	"fmt"
	"slices"
)

// Jurisdiction is the regulatory jurisdiction the lender operates under.
type Jurisdiction string

const (
	JurisdictionIN Jurisdiction = "IN"
	JurisdictionSG Jurisdiction = "SG"
	JurisdictionEU Jurisdiction = "EU"
)

// Rule describes where a jurisdiction lets customer documents be stored.
type Rule struct {
	Jurisdiction   Jurisdiction
	AllowedRegions []string
	// RequiresEncryptionInTransit rejects plaintext connections to the store.
	RequiresEncryptionInTransit bool
}

// ErrViolation is returned when a storage location breaks a residency rule.
var ErrViolation = errors.New("data residency violation")

// DefaultRules returns the built-in rule set.
func DefaultRules() map[Jurisdiction]Rule {
	return map[Jurisdiction]Rule{
		// RBI storage-of-payment-data directive: in-country only.
		JurisdictionIN: {
			Jurisdiction:                JurisdictionIN,
			AllowedRegions:              []string{"ap-south-1", "ap-south-2"},
			RequiresEncryptionInTransit: true,
		},
		JurisdictionSG: {
			Jurisdiction:                JurisdictionSG,
			AllowedRegions:              []string{"ap-southeast-1"},
			RequiresEncryptionInTransit: true,
		},
		JurisdictionEU: {
			Jurisdiction:                JurisdictionEU,
			AllowedRegions:              []string{"eu-west-1", "eu-central-1"},
			RequiresEncryptionInTransit: true,
		},
	}
}

// StorageLocation is where documents will be written.
type StorageLocation struct {
	// Region is the object store region. Empty means a self-hosted store,
	// which is assumed to be deployed in-jurisdiction.
	Region string
	Secure bool
}

// Checker validates storage locations against a rule set.
type Checker struct {
	rules map[Jurisdiction]Rule
}

// NewChecker creates a Checker. A nil rule set uses DefaultRules.
func NewChecker(rules map[Jurisdiction]Rule) *Checker {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Checker{rules: rules}
}

// CheckStorage returns every violation of the jurisdiction's rule, joined,
// or nil when loc is acceptable.
func (c *Checker) CheckStorage(j Jurisdiction, loc StorageLocation) error {
	rule, ok := c.rules[j]
	if !ok {
		return fmt.Errorf("%w: unknown jurisdiction %q", ErrViolation, j)
	}

	var errs []error
	if loc.Region != "" && !slices.Contains(rule.AllowedRegions, loc.Region) {
		errs = append(errs, fmt.Errorf("%w: region %s is not allowed for %s (allowed: %v)",
			ErrViolation, loc.Region, j, rule.AllowedRegions))
	}
	if rule.RequiresEncryptionInTransit && !loc.Secure {
		errs = append(errs, fmt.Errorf("%w: %s requires TLS to the document store", ErrViolation, j))
	}
	return errors.Join(errs...)
}
