package model

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CustomerProfile – underwriting input, immutable
// ---------------------------------------------------------------------------

// Obligation is one pre-existing recurring debt payment.
type Obligation struct {
	Type            string
	EMI             decimal.Decimal
	RemainingMonths int
}

// SalarySlip is the recorded verification state of the customer's latest slip.
type SalarySlip struct {
	Verified   bool
	URL        string
	VerifiedAt *time.Time
}

// CustomerProfile is the financial snapshot underwriting decides on. It is
// built once per request and never mutated.
type CustomerProfile struct {
	customerID       string
	creditScore      int
	monthlySalary    decimal.Decimal
	preApprovedLimit decimal.Decimal
	obligations      []Obligation
	salarySlip       SalarySlip
}

// NewCustomerProfile validates and builds a profile. Obligations are copied.
func NewCustomerProfile(
	customerID string,
	creditScore int,
	monthlySalary, preApprovedLimit decimal.Decimal,
	obligations []Obligation,
	salarySlip SalarySlip,
) (CustomerProfile, error) {
	if customerID == "" {
		return CustomerProfile{}, errors.New("customer ID is required")
	}
	if monthlySalary.IsNegative() {
		return CustomerProfile{}, errors.New("monthly salary must not be negative")
	}
	if preApprovedLimit.IsNegative() {
		return CustomerProfile{}, errors.New("pre-approved limit must not be negative")
	}
	for _, o := range obligations {
		if o.EMI.IsNegative() {
			return CustomerProfile{}, errors.New("obligation EMI must not be negative")
		}
	}

	return CustomerProfile{
		customerID:       customerID,
		creditScore:      creditScore,
		monthlySalary:    monthlySalary,
		preApprovedLimit: preApprovedLimit,
		obligations:      slices.Clone(obligations),
		salarySlip:       salarySlip,
	}, nil
}

func (p CustomerProfile) CustomerID() string                { return p.customerID }
func (p CustomerProfile) CreditScore() int                  { return p.creditScore }
func (p CustomerProfile) MonthlySalary() decimal.Decimal    { return p.monthlySalary }
func (p CustomerProfile) PreApprovedLimit() decimal.Decimal { return p.preApprovedLimit }
func (p CustomerProfile) Obligations() []Obligation         { return slices.Clone(p.obligations) }
func (p CustomerProfile) SalarySlip() SalarySlip            { return p.salarySlip }

// ExistingEMITotal sums the monthly EMI of every existing obligation.
func (p CustomerProfile) ExistingEMITotal() decimal.Decimal {
	total := decimal.Zero
	for _, o := range p.obligations {
		total = total.Add(o.EMI)
	}
	return total
}

// WithSalarySlip returns a copy carrying the given slip state.
func (p CustomerProfile) WithSalarySlip(slip SalarySlip) CustomerProfile {
	next := p
	next.obligations = slices.Clone(p.obligations)
	next.salarySlip = slip
	return next
}

// LoanRequest is a customer's ask.
type LoanRequest struct {
	LoanAmount   decimal.Decimal
	TenureMonths int
}

// ---------------------------------------------------------------------------
// KYCRecord
// ---------------------------------------------------------------------------

// KYCRecord is the identity data held for a customer. Underwriting never
// reads it; it is checked before the sales flow starts.
type KYCRecord struct {
	CustomerID string
	Name       string
	Phone      string
	Email      string
	Address    string
	Verified   bool
}
