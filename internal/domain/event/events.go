package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	aggregateLoanApplication = "LoanApplication"
	aggregateCustomer        = "Customer"
)

// Event type names, as published on the bus.
const (
	TypeLoanSanctioned          = "origination.loan.sanctioned"
	TypeSanctionLetterIssued    = "origination.sanction_letter.issued"
	TypeApplicationStatusChange = "origination.loan.status_changed"
	TypeEligibilityEvaluated    = "origination.eligibility.evaluated"
	TypeSalarySlipRecorded      = "origination.customer.salary_slip_recorded"
)

// ---------------------------------------------------------------------------
// Loan Application Events
// ---------------------------------------------------------------------------

// LoanSanctioned is raised when a loan application is created with final terms.
type LoanSanctioned struct {
	events.BaseEvent
	CustomerID      string          `json:"customer_id"`
	Amount          decimal.Decimal `json:"amount"`
	TenureMonths    int             `json:"tenure_months"`
	InterestRatePct decimal.Decimal `json:"interest_rate_pct"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}

func NewLoanSanctioned(
	applicationID, customerID string,
	amount decimal.Decimal, tenureMonths int,
	rate, emi, totalInterest, totalPayable decimal.Decimal,
	now time.Time,
) LoanSanctioned {
	return LoanSanctioned{
		BaseEvent:       events.NewBaseEvent(TypeLoanSanctioned, applicationID, aggregateLoanApplication, now),
		CustomerID:      customerID,
		Amount:          amount,
		TenureMonths:    tenureMonths,
		InterestRatePct: rate,
		MonthlyEMI:      emi,
		TotalInterest:   totalInterest,
		TotalPayable:    totalPayable,
	}
}

func (e LoanSanctioned) Payload() []byte { return events.EncodePayload(e) }

// SanctionLetterIssued is raised when the sanction document is stored and
// its URL attached to the application.
type SanctionLetterIssued struct {
	events.BaseEvent
	CustomerID  string `json:"customer_id"`
	DocumentURL string `json:"document_url"`
}

func NewSanctionLetterIssued(applicationID, customerID, url string, now time.Time) SanctionLetterIssued {
	return SanctionLetterIssued{
		BaseEvent:   events.NewBaseEvent(TypeSanctionLetterIssued, applicationID, aggregateLoanApplication, now),
		CustomerID:  customerID,
		DocumentURL: url,
	}
}

func (e SanctionLetterIssued) Payload() []byte { return events.EncodePayload(e) }

// LoanApplicationStatusChanged is raised on every servicing transition.
type LoanApplicationStatusChanged struct {
	events.BaseEvent
	CustomerID string `json:"customer_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Reason     string `json:"reason,omitempty"`
}

func NewLoanApplicationStatusChanged(applicationID, customerID, from, to, reason string, now time.Time) LoanApplicationStatusChanged {
	return LoanApplicationStatusChanged{
		BaseEvent:  events.NewBaseEvent(TypeApplicationStatusChange, applicationID, aggregateLoanApplication, now),
		CustomerID: customerID,
		From:       from,
		To:         to,
		Reason:     reason,
	}
}

func (e LoanApplicationStatusChanged) Payload() []byte { return events.EncodePayload(e) }

// ---------------------------------------------------------------------------
// Customer Events
// ---------------------------------------------------------------------------

// EligibilityEvaluated records one underwriting decision for audit.
type EligibilityEvaluated struct {
	events.BaseEvent
	Outcome         string          `json:"outcome"`
	Reason          string          `json:"reason,omitempty"`
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	TenureMonths    int             `json:"tenure_months"`
	InterestRatePct decimal.Decimal `json:"interest_rate_pct"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
	FOIRPct         decimal.Decimal `json:"foir_pct"`
}

func NewEligibilityEvaluated(
	customerID, outcome, reason string,
	amount decimal.Decimal, tenureMonths int,
	rate, emi, foir decimal.Decimal,
	now time.Time,
) EligibilityEvaluated {
	return EligibilityEvaluated{
		BaseEvent:       events.NewBaseEvent(TypeEligibilityEvaluated, customerID, aggregateCustomer, now),
		Outcome:         outcome,
		Reason:          reason,
		LoanAmount:      amount,
		TenureMonths:    tenureMonths,
		InterestRatePct: rate,
		MonthlyEMI:      emi,
		FOIRPct:         foir,
	}
}

func (e EligibilityEvaluated) Payload() []byte { return events.EncodePayload(e) }

// SalarySlipRecorded is raised when a slip verification result is stored.
type SalarySlipRecorded struct {
	events.BaseEvent
	Verified bool   `json:"verified"`
	SlipURL  string `json:"slip_url,omitempty"`
}

func NewSalarySlipRecorded(customerID string, verified bool, slipURL string, now time.Time) SalarySlipRecorded {
	return SalarySlipRecorded{
		BaseEvent: events.NewBaseEvent(TypeSalarySlipRecorded, customerID, aggregateCustomer, now),
		Verified:  verified,
		SlipURL:   slipURL,
	}
}

func (e SalarySlipRecorded) Payload() []byte { return events.EncodePayload(e) }
