package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// Amounts are persisted as NUMERIC(15,2) and rates as NUMERIC(6,3); the
// loan_amount and rate tags keep requests inside those columns.

// GetOfferRequest identifies the customer whose pre-approved offer is wanted.
type GetOfferRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

// QuoteEMIRequest asks for an installment quote. When AnnualRatePct is nil
// the rate is priced from the customer's credit score.
type QuoteEMIRequest struct {
	CustomerID    string           `json:"customer_id,omitempty" validate:"required_without=AnnualRatePct"`
	LoanAmount    decimal.Decimal  `json:"loan_amount" validate:"dgt=0,dlt=10000000000000,dscale=2"`
	TenureMonths  int              `json:"tenure_months" validate:"required,gt=0,lte=360"`
	AnnualRatePct *decimal.Decimal `json:"annual_rate_pct,omitempty" validate:"omitempty,dgte=0,dlt=1000,dscale=3"`
}

// EvaluateEligibilityRequest carries a loan ask to underwrite.
type EvaluateEligibilityRequest struct {
	CustomerID   string          `json:"customer_id" validate:"required"`
	LoanAmount   decimal.Decimal `json:"loan_amount" validate:"dgt=0,dlt=10000000000000,dscale=2"`
	TenureMonths int             `json:"tenure_months" validate:"required,gt=0,lte=360"`
}

// SanctionLoanRequest asks for final terms and a sanction letter.
type SanctionLoanRequest struct {
	CustomerID           string           `json:"customer_id" validate:"required"`
	LoanAmount           decimal.Decimal  `json:"loan_amount" validate:"dgt=0,dlt=10000000000000,dscale=2"`
	TenureMonths         int              `json:"tenure_months" validate:"required,gt=0,lte=360"`
	InterestRateOverride *decimal.Decimal `json:"interest_rate_override,omitempty" validate:"omitempty,dgte=0,dlt=1000,dscale=3"`
}

// GetApplicationRequest identifies a loan application to retrieve.
type GetApplicationRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
}

// ListApplicationsRequest identifies the customer whose applications are listed.
type ListApplicationsRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

// ChangeApplicationStatusRequest moves an application along its servicing lifecycle.
type ChangeApplicationStatusRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
	Status        string `json:"status" validate:"required,oneof=DISBURSED CANCELLED CLOSED"`
	Reason        string `json:"reason,omitempty" validate:"max=500"`
}

// GetKYCRequest identifies the customer whose KYC record is wanted.
type GetKYCRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

// RecordSalarySlipRequest stores the outcome of a salary-slip verification.
type RecordSalarySlipRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Verified   bool   `json:"verified"`
	SlipURL    string `json:"slip_url,omitempty" validate:"omitempty,url"`
}

// ListCustomerDocumentsRequest identifies the customer whose documents are listed.
type ListCustomerDocumentsRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

// GetRepaymentScheduleRequest identifies the application whose schedule is wanted.
type GetRepaymentScheduleRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// OfferResponse is the customer's standing pre-approved offer.
type OfferResponse struct {
	CustomerID           string          `json:"customer_id"`
	CreditScore          int             `json:"credit_score"`
	PreApprovedLimit     decimal.Decimal `json:"pre_approved_limit"`
	MaxConditionalAmount decimal.Decimal `json:"max_conditional_amount"`
	InterestRatePct      decimal.Decimal `json:"interest_rate_pct"`
	MaxTenureMonths      int             `json:"max_tenure_months"`
	Eligible             bool            `json:"eligible"`
}

// EMIQuoteResponse is an installment quote.
type EMIQuoteResponse struct {
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	TenureMonths    int             `json:"tenure_months"`
	InterestRatePct decimal.Decimal `json:"interest_rate_pct"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}

// EligibilityResponse is the external form of an eligibility decision.
// Figures are zero when the decision was reached before pricing.
type EligibilityResponse struct {
	CustomerID       string          `json:"customer_id"`
	Outcome          string          `json:"outcome"`
	ApprovalType     string          `json:"approval_type,omitempty"`
	Requires         string          `json:"requires,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	Message          string          `json:"message,omitempty"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	TenureMonths     int             `json:"tenure_months"`
	InterestRatePct  decimal.Decimal `json:"interest_rate_pct"`
	MaxTenureMonths  int             `json:"max_tenure_months,omitempty"`
	MonthlyEMI       decimal.Decimal `json:"monthly_emi"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	FOIRPct          decimal.Decimal `json:"foir_pct"`
	ExistingEMITotal decimal.Decimal `json:"existing_emi_total"`
}

// LoanApplicationResponse is the external representation of a loan application.
type LoanApplicationResponse struct {
	ID                  string          `json:"id"`
	CustomerID          string          `json:"customer_id"`
	Amount              decimal.Decimal `json:"amount"`
	TenureMonths        int             `json:"tenure_months"`
	InterestRatePct     decimal.Decimal `json:"interest_rate_pct"`
	MonthlyEMI          decimal.Decimal `json:"monthly_emi"`
	TotalInterest       decimal.Decimal `json:"total_interest"`
	TotalPayable        decimal.Decimal `json:"total_payable"`
	Status              string          `json:"status"`
	SanctionDocumentURL string          `json:"sanction_document_url,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ListApplicationsResponse lists a customer's applications, newest first.
type ListApplicationsResponse struct {
	Applications []LoanApplicationResponse `json:"applications"`
}

// KYCResponse is a customer's identity record.
type KYCResponse struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address"`
	Verified   bool   `json:"verified"`
}

// SalarySlipResponse echoes the stored verification state.
type SalarySlipResponse struct {
	CustomerID string     `json:"customer_id"`
	Verified   bool       `json:"verified"`
	SlipURL    string     `json:"slip_url,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// SanctionLetterDocument is one issued sanction letter.
type SanctionLetterDocument struct {
	ApplicationID string          `json:"application_id"`
	URL           string          `json:"url"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CustomerDocumentsResponse lists a customer's salary-slip state and every
// sanction letter issued to them, newest first.
type CustomerDocumentsResponse struct {
	CustomerID      string                   `json:"customer_id"`
	SalarySlip      SalarySlipResponse       `json:"salary_slip"`
	SanctionLetters []SanctionLetterDocument `json:"sanction_letters"`
}

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// RepaymentScheduleResponse is the full schedule for an application.
type RepaymentScheduleResponse struct {
	ApplicationID string                      `json:"application_id"`
	CustomerID    string                      `json:"customer_id"`
	MonthlyEMI    decimal.Decimal             `json:"monthly_emi"`
	Entries       []AmortizationEntryResponse `json:"entries"`
	// Sums of the entries; see model.SumSchedule.
	TotalInterest decimal.Decimal             `json:"total_interest"`
	TotalPayable  decimal.Decimal             `json:"total_payable"`
}
