package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/policy"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
	"github.com/bibbank/loan-origination/pkg/money"
)

// ---------------------------------------------------------------------------
// EligibilityEngine – underwriting decision function
// ---------------------------------------------------------------------------

// EligibilityDecision is the engine's verdict. Outcome selects which of the
// remaining fields are meaningful:
//
//	APPROVED              ApprovalType, figures
//	CONDITIONAL_APPROVAL  Requires, figures
//	REJECTED              Reason, Message; figures when the rejection came
//	                      after pricing (FOIR or amount)
type EligibilityDecision struct {
	Outcome      valueobject.DecisionOutcome
	ApprovalType valueobject.ApprovalType
	Requires     valueobject.Requirement
	Reason       valueobject.RejectionReason
	Message      string

	LoanAmount       decimal.Decimal
	TenureMonths     int
	InterestRatePct  decimal.Decimal
	MaxTenureMonths  int
	EMI              EMIResult
	FOIRPct          decimal.Decimal
	ExistingEMITotal decimal.Decimal
}

func (d EligibilityDecision) IsApproved() bool {
	return d.Outcome.Equal(valueobject.DecisionApproved)
}

func (d EligibilityDecision) IsConditional() bool {
	return d.Outcome.Equal(valueobject.DecisionConditionalApproval)
}

func (d EligibilityDecision) IsRejected() bool {
	return d.Outcome.Equal(valueobject.DecisionRejected)
}

// EligibilityEngine applies an UnderwritingPolicy to a profile and request.
// It holds no mutable state and is safe for concurrent use.
type EligibilityEngine struct {
	policy   policy.UnderwritingPolicy
	selector RateSelector
}

// NewEligibilityEngine returns an engine bound to p.
func NewEligibilityEngine(p policy.UnderwritingPolicy) *EligibilityEngine {
	return &EligibilityEngine{policy: p, selector: NewRateSelector(p.RateTable)}
}

// Policy returns the policy the engine decides with.
func (e *EligibilityEngine) Policy() policy.UnderwritingPolicy { return e.policy }

// Evaluate decides on req for profile. A nil profile is a rejection, not an
// error. The only error is ErrInvalidInput for a non-positive amount or tenure.
//
// Checks run in a fixed order: credit score, pricing, FOIR, amount tier.
func (e *EligibilityEngine) Evaluate(profile *model.CustomerProfile, req model.LoanRequest) (EligibilityDecision, error) {
	if profile == nil {
		return rejected(valueobject.ReasonCustomerNotFound, "customer not found"), nil
	}

	if profile.CreditScore() < e.policy.MinCreditScore {
		return rejected(valueobject.ReasonCreditScoreTooLow,
			fmt.Sprintf("credit score %d below %d", profile.CreditScore(), e.policy.MinCreditScore)), nil
	}

	tier := e.selector.SelectRateTier(profile.CreditScore())
	emi, err := CalculateEMI(req.LoanAmount, tier.AnnualRatePct, req.TenureMonths)
	if err != nil {
		return EligibilityDecision{}, err
	}

	existing := profile.ExistingEMITotal()
	foir := FOIR(existing, emi.MonthlyEMI, profile.MonthlySalary())

	d := EligibilityDecision{
		LoanAmount:       req.LoanAmount,
		TenureMonths:     req.TenureMonths,
		InterestRatePct:  tier.AnnualRatePct,
		MaxTenureMonths:  tier.MaxTenureMonths,
		EMI:              emi,
		FOIRPct:          foir,
		ExistingEMITotal: existing,
	}

	limit := profile.PreApprovedLimit()
	conditionalCeiling := limit.Mul(e.policy.ConditionalLimitMultiplier)

	switch {
	case req.LoanAmount.LessThanOrEqual(limit):
		if foir.GreaterThan(e.policy.MaxFOIRPct) {
			return e.foirRejection(d), nil
		}
		d.Outcome = valueobject.DecisionApproved
		d.ApprovalType = valueobject.ApprovalInstant
		return d, nil

	case req.LoanAmount.LessThanOrEqual(conditionalCeiling):
		if foir.GreaterThan(e.policy.MaxFOIRPct) {
			return e.foirRejection(d), nil
		}
		d.Outcome = valueobject.DecisionConditionalApproval
		d.Requires = valueobject.RequirementSalarySlipUpload
		return d, nil

	default:
		d.Outcome = valueobject.DecisionRejected
		d.Reason = valueobject.ReasonAmountExceedsLimit
		d.Message = fmt.Sprintf("amount exceeds %sx pre-approved limit", e.policy.ConditionalLimitMultiplier)
		return d, nil
	}
}

// CheckFOIR returns the FOIR that monthlyEMI puts profile at and whether it
// stays within the policy maximum. Sanctioning uses it to re-check priced
// terms that differ from the ones Evaluate decided on.
func (e *EligibilityEngine) CheckFOIR(profile model.CustomerProfile, monthlyEMI decimal.Decimal) (decimal.Decimal, bool) {
	foir := FOIR(profile.ExistingEMITotal(), monthlyEMI, profile.MonthlySalary())
	return foir, !foir.GreaterThan(e.policy.MaxFOIRPct)
}

func (e *EligibilityEngine) foirRejection(d EligibilityDecision) EligibilityDecision {
	d.Outcome = valueobject.DecisionRejected
	d.Reason = valueobject.ReasonFOIRViolation
	d.Message = fmt.Sprintf("FOIR %s%% exceeds %s%%", d.FOIRPct.StringFixed(2), e.policy.MaxFOIRPct)
	return d
}

func rejected(reason valueobject.RejectionReason, msg string) EligibilityDecision {
	return EligibilityDecision{
		Outcome: valueobject.DecisionRejected,
		Reason:  reason,
		Message: msg,
	}
}

// FOIR returns (existingEMI + newEMI) / salary × 100, rounded to two places.
// A non-positive salary yields 100.
func FOIR(existingEMI, newEMI, monthlySalary decimal.Decimal) decimal.Decimal {
	if !monthlySalary.IsPositive() {
		return hundred
	}
	ratio := existingEMI.Add(newEMI).Mul(hundred).DivRound(monthlySalary, intermediatePrecision)
	return money.RoundMinor(ratio)
}
