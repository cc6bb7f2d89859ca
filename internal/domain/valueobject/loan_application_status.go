package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanApplicationStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanApplicationStatus represents the lifecycle stage of a sanctioned loan
// application. Applications are created SANCTIONED; later stages are driven
// by servicing.
type LoanApplicationStatus struct {
	value string
}

const (
	loanAppStatusSanctioned = "SANCTIONED"
	loanAppStatusDisbursed  = "DISBURSED"
	loanAppStatusCancelled  = "CANCELLED"
	loanAppStatusClosed     = "CLOSED"
)

var (
	LoanApplicationStatusSanctioned = LoanApplicationStatus{value: loanAppStatusSanctioned}
	LoanApplicationStatusDisbursed  = LoanApplicationStatus{value: loanAppStatusDisbursed}
	LoanApplicationStatusCancelled  = LoanApplicationStatus{value: loanAppStatusCancelled}
	LoanApplicationStatusClosed     = LoanApplicationStatus{value: loanAppStatusClosed}
)

var validLoanApplicationStatuses = map[string]LoanApplicationStatus{
	loanAppStatusSanctioned: LoanApplicationStatusSanctioned,
	loanAppStatusDisbursed:  LoanApplicationStatusDisbursed,
	loanAppStatusCancelled:  LoanApplicationStatusCancelled,
	loanAppStatusClosed:     LoanApplicationStatusClosed,
}

// allowedTransitions lists, for each status, the statuses it may move to.
var allowedTransitions = map[string][]string{
	loanAppStatusSanctioned: {loanAppStatusDisbursed, loanAppStatusCancelled},
	loanAppStatusDisbursed:  {loanAppStatusClosed},
}

// NewLoanApplicationStatus creates a LoanApplicationStatus from a raw string.
func NewLoanApplicationStatus(s string) (LoanApplicationStatus, error) {
	v, ok := validLoanApplicationStatuses[s]
	if !ok {
		return LoanApplicationStatus{}, fmt.Errorf("invalid loan application status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanApplicationStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanApplicationStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanApplicationStatus) Equal(other LoanApplicationStatus) bool {
	return s.value == other.value
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s LoanApplicationStatus) CanTransitionTo(next LoanApplicationStatus) bool {
	for _, v := range allowedTransitions[s.value] {
		if v == next.value {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no further transition is possible.
func (s LoanApplicationStatus) IsTerminal() bool {
	return len(allowedTransitions[s.value]) == 0
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
