package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// DecisionOutcome – immutable value object
// ---------------------------------------------------------------------------

// DecisionOutcome is the tag of an eligibility decision.
type DecisionOutcome struct {
	value string
}

const (
	outcomeApproved            = "APPROVED"
	outcomeConditionalApproval = "CONDITIONAL_APPROVAL"
	outcomeRejected            = "REJECTED"
)

var (
	DecisionApproved            = DecisionOutcome{value: outcomeApproved}
	DecisionConditionalApproval = DecisionOutcome{value: outcomeConditionalApproval}
	DecisionRejected            = DecisionOutcome{value: outcomeRejected}
)

var validDecisionOutcomes = map[string]DecisionOutcome{
	outcomeApproved:            DecisionApproved,
	outcomeConditionalApproval: DecisionConditionalApproval,
	outcomeRejected:            DecisionRejected,
}

// NewDecisionOutcome creates a DecisionOutcome from a raw string.
func NewDecisionOutcome(s string) (DecisionOutcome, error) {
	v, ok := validDecisionOutcomes[s]
	if !ok {
		return DecisionOutcome{}, fmt.Errorf("invalid decision outcome: %q", s)
	}
	return v, nil
}

func (o DecisionOutcome) String() string { return o.value }
func (o DecisionOutcome) IsZero() bool   { return o.value == "" }

// Equal returns true when both outcomes carry the same value.
func (o DecisionOutcome) Equal(other DecisionOutcome) bool { return o.value == other.value }

// ---------------------------------------------------------------------------
// Decision details
// ---------------------------------------------------------------------------

// RejectionReason is the machine-readable cause of a rejection.
type RejectionReason string

const (
	ReasonCustomerNotFound   RejectionReason = "customer_not_found"
	ReasonCreditScoreTooLow  RejectionReason = "credit_score_below_minimum"
	ReasonFOIRViolation      RejectionReason = "foir_violation"
	ReasonAmountExceedsLimit RejectionReason = "amount_exceeds_limit"
)

// ApprovalType distinguishes how an approval was reached.
type ApprovalType string

const ApprovalInstant ApprovalType = "instant"

// Requirement is an additional step a conditional approval waits on.
type Requirement string

const RequirementSalarySlipUpload Requirement = "salary_slip_upload"
