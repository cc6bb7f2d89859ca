package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/event"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

// LoanTerms are the final sanctioned figures, already rounded to the minor unit.
type LoanTerms struct {
	Amount          decimal.Decimal
	TenureMonths    int
	InterestRatePct decimal.Decimal
	MonthlyEMI      decimal.Decimal
	TotalInterest   decimal.Decimal
	TotalPayable    decimal.Decimal
}

// ---------------------------------------------------------------------------
// LoanApplication aggregate root
// ---------------------------------------------------------------------------

// LoanApplication is the persisted record of a sanctioned loan. Its terms are
// fixed at creation; only the status and the sanction document URL change.
// Every mutation returns a new copy.
type LoanApplication struct {
	id                  string
	customerID          string
	terms               LoanTerms
	status              valueobject.LoanApplicationStatus
	sanctionDocumentURL string
	version             int
	createdAt           time.Time
	updatedAt           time.Time
	domainEvents        []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoanApplication creates a brand-new application in SANCTIONED status and
// records LoanSanctioned.
func NewLoanApplication(customerID string, terms LoanTerms, now time.Time) (LoanApplication, error) {
	if customerID == "" {
		return LoanApplication{}, errors.New("customer ID is required")
	}
	if !terms.Amount.IsPositive() {
		return LoanApplication{}, errors.New("amount must be positive")
	}
	if terms.TenureMonths <= 0 {
		return LoanApplication{}, errors.New("tenure months must be positive")
	}
	if terms.InterestRatePct.IsNegative() {
		return LoanApplication{}, errors.New("interest rate must not be negative")
	}
	if !terms.MonthlyEMI.IsPositive() {
		return LoanApplication{}, errors.New("monthly EMI must be positive")
	}

	id := uuid.New().String()
	app := LoanApplication{
		id:         id,
		customerID: customerID,
		terms:      terms,
		status:     valueobject.LoanApplicationStatusSanctioned,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}

	app.domainEvents = append(app.domainEvents, event.NewLoanSanctioned(
		id, customerID, terms.Amount, terms.TenureMonths,
		terms.InterestRatePct, terms.MonthlyEMI, terms.TotalInterest, terms.TotalPayable, now,
	))
	return app, nil
}

// ReconstructLoanApplication rebuilds an aggregate from persistence without side-effects.
func ReconstructLoanApplication(
	id, customerID string,
	terms LoanTerms,
	status valueobject.LoanApplicationStatus,
	sanctionDocumentURL string,
	version int,
	createdAt, updatedAt time.Time,
) LoanApplication {
	return LoanApplication{
		id:                  id,
		customerID:          customerID,
		terms:               terms,
		status:              status,
		sanctionDocumentURL: sanctionDocumentURL,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Mutations (each returns a new copy)
// ---------------------------------------------------------------------------

// AttachSanctionDocument records where the sanction letter was stored.
// A document can be attached once.
func (a LoanApplication) AttachSanctionDocument(url string, now time.Time) (LoanApplication, error) {
	if url == "" {
		return a, errors.New("document URL is required")
	}
	if a.sanctionDocumentURL != "" {
		return a, errors.New("sanction document already attached")
	}
	next := a
	next.sanctionDocumentURL = url
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSanctionLetterIssued(a.id, a.customerID, url, now))
	return next, nil
}

// MarkDisbursed transitions SANCTIONED -> DISBURSED.
func (a LoanApplication) MarkDisbursed(now time.Time) (LoanApplication, error) {
	return a.transition(valueobject.LoanApplicationStatusDisbursed, "", now)
}

// Cancel transitions SANCTIONED -> CANCELLED.
func (a LoanApplication) Cancel(reason string, now time.Time) (LoanApplication, error) {
	return a.transition(valueobject.LoanApplicationStatusCancelled, reason, now)
}

// Close transitions DISBURSED -> CLOSED.
func (a LoanApplication) Close(now time.Time) (LoanApplication, error) {
	return a.transition(valueobject.LoanApplicationStatusClosed, "", now)
}

func (a LoanApplication) transition(to valueobject.LoanApplicationStatus, reason string, now time.Time) (LoanApplication, error) {
	if !a.status.CanTransitionTo(to) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.status = to
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanApplicationStatusChanged(
		a.id, a.customerID, a.status.String(), to.String(), reason, now,
	))
	return next, nil
}

// RepaymentSchedule derives the month-by-month schedule from the sanctioned
// terms, with the first installment due one month after sanction.
func (a LoanApplication) RepaymentSchedule() []AmortizationEntry {
	return GenerateAmortizationSchedule(
		a.terms.Amount, a.terms.InterestRatePct, a.terms.MonthlyEMI, a.terms.TenureMonths, a.createdAt,
	)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a LoanApplication) ID() string                                { return a.id }
func (a LoanApplication) CustomerID() string                        { return a.customerID }
func (a LoanApplication) Terms() LoanTerms                          { return a.terms }
func (a LoanApplication) Amount() decimal.Decimal                   { return a.terms.Amount }
func (a LoanApplication) TenureMonths() int                         { return a.terms.TenureMonths }
func (a LoanApplication) InterestRatePct() decimal.Decimal          { return a.terms.InterestRatePct }
func (a LoanApplication) MonthlyEMI() decimal.Decimal               { return a.terms.MonthlyEMI }
func (a LoanApplication) TotalInterest() decimal.Decimal            { return a.terms.TotalInterest }
func (a LoanApplication) TotalPayable() decimal.Decimal             { return a.terms.TotalPayable }
func (a LoanApplication) Status() valueobject.LoanApplicationStatus { return a.status }
func (a LoanApplication) SanctionDocumentURL() string               { return a.sanctionDocumentURL }
func (a LoanApplication) Version() int                              { return a.version }
func (a LoanApplication) CreatedAt() time.Time                      { return a.createdAt }
func (a LoanApplication) UpdatedAt() time.Time                      { return a.updatedAt }
func (a LoanApplication) DomainEvents() []event.DomainEvent         { return a.domainEvents }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a LoanApplication) ClearEvents() LoanApplication {
	next := a
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
