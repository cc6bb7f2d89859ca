// Package usecase orchestrates the underwriting core with persistence,
// documents, notifications and event publishing.
package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/service"
)

var (
	// ErrNotEligible is returned when a sanction is asked for a rejected request.
	ErrNotEligible = errors.New("not eligible")
	// ErrSalarySlipRequired is returned when a conditional approval is sanctioned
	// before the salary slip was verified.
	ErrSalarySlipRequired = errors.New("verified salary slip required")
)

var tracer = otel.Tracer("github.com/bibbank/loan-origination/internal/application/usecase")

// DecisionRecorder receives underwriting metrics.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, outcome, reason string)
	RecordSanction(ctx context.Context, amount float64)
}

type noopRecorder struct{}

func (noopRecorder) RecordDecision(context.Context, string, string) {}
func (noopRecorder) RecordSanction(context.Context, float64)        {}

func recorderOrNoop(r DecisionRecorder) DecisionRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func toApplicationResponse(app model.LoanApplication) dto.LoanApplicationResponse {
	return dto.LoanApplicationResponse{
		ID:                  app.ID(),
		CustomerID:          app.CustomerID(),
		Amount:              app.Amount(),
		TenureMonths:        app.TenureMonths(),
		InterestRatePct:     app.InterestRatePct(),
		MonthlyEMI:          app.MonthlyEMI(),
		TotalInterest:       app.TotalInterest(),
		TotalPayable:        app.TotalPayable(),
		Status:              app.Status().String(),
		SanctionDocumentURL: app.SanctionDocumentURL(),
		CreatedAt:           app.CreatedAt(),
		UpdatedAt:           app.UpdatedAt(),
	}
}

func toEligibilityResponse(customerID string, d service.EligibilityDecision) dto.EligibilityResponse {
	return dto.EligibilityResponse{
		CustomerID:       customerID,
		Outcome:          d.Outcome.String(),
		ApprovalType:     string(d.ApprovalType),
		Requires:         string(d.Requires),
		Reason:           string(d.Reason),
		Message:          d.Message,
		LoanAmount:       d.LoanAmount,
		TenureMonths:     d.TenureMonths,
		InterestRatePct:  d.InterestRatePct,
		MaxTenureMonths:  d.MaxTenureMonths,
		MonthlyEMI:       d.EMI.MonthlyEMI,
		TotalInterest:    d.EMI.TotalInterest,
		TotalPayable:     d.EMI.TotalPayable,
		FOIRPct:          d.FOIRPct,
		ExistingEMITotal: d.ExistingEMITotal,
	}
}

func toScheduleEntries(entries []model.AmortizationEntry) []dto.AmortizationEntryResponse {
	out := make([]dto.AmortizationEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AmortizationEntryResponse{
			Period:           e.Period,
			DueDate:          e.DueDate,
			Principal:        e.Principal,
			Interest:         e.Interest,
			Total:            e.Total,
			RemainingBalance: e.RemainingBalance,
		})
	}
	return out
}
