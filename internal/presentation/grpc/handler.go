package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/application/usecase"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/service"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
	"github.com/bibbank/loan-origination/pkg/auth"
)

// Executor is the shape shared by every use case the handler drives.
type Executor[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// UseCases groups the use cases served over gRPC.
type UseCases struct {
	GetOffer              Executor[dto.GetOfferRequest, dto.OfferResponse]
	QuoteEMI              Executor[dto.QuoteEMIRequest, dto.EMIQuoteResponse]
	EvaluateEligibility   Executor[dto.EvaluateEligibilityRequest, dto.EligibilityResponse]
	SanctionLoan          Executor[dto.SanctionLoanRequest, dto.LoanApplicationResponse]
	GetApplication        Executor[dto.GetApplicationRequest, dto.LoanApplicationResponse]
	ListApplications      Executor[dto.ListApplicationsRequest, dto.ListApplicationsResponse]
	ChangeStatus          Executor[dto.ChangeApplicationStatusRequest, dto.LoanApplicationResponse]
	GetKYC                Executor[dto.GetKYCRequest, dto.KYCResponse]
	ListCustomerDocuments Executor[dto.ListCustomerDocumentsRequest, dto.CustomerDocumentsResponse]
	RecordSalarySlip      Executor[dto.RecordSalarySlipRequest, dto.SalarySlipResponse]
	GetRepaymentSchedule  Executor[dto.GetRepaymentScheduleRequest, dto.RepaymentScheduleResponse]
}

// Compile-time assertion that Handler implements OriginationServiceServer.
var _ OriginationServiceServer = (*Handler)(nil)

// Handler implements the OriginationServiceServer gRPC interface.
type Handler struct {
	UnimplementedOriginationServiceServer
	uc     UseCases
	logger *slog.Logger
}

// NewHandler creates a new gRPC Handler.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	return &Handler{uc: uc, logger: logger}
}

func (h *Handler) GetOffer(ctx context.Context, req *GetOfferRequest) (*GetOfferResponse, error) {
	if err := auth.AuthorizeCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	resp, err := h.uc.GetOffer.Execute(ctx, dto.GetOfferRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, h.toStatus("GetOffer", err)
	}
	return &GetOfferResponse{Offer: &OfferMsg{
		CustomerID:           resp.CustomerID,
		CreditScore:          int32(resp.CreditScore),
		PreApprovedLimit:     amount(resp.PreApprovedLimit),
		MaxConditionalAmount: amount(resp.MaxConditionalAmount),
		InterestRatePct:      resp.InterestRatePct.String(),
		MaxTenureMonths:      int32(resp.MaxTenureMonths),
		Eligible:             resp.Eligible,
	}}, nil
}

func (h *Handler) QuoteEMI(ctx context.Context, req *QuoteEMIRequest) (*QuoteEMIResponse, error) {
	if req.CustomerID != "" {
		if err := auth.AuthorizeCustomer(ctx, req.CustomerID); err != nil {
			return nil, err
		}
	}
	loanAmount, err := parseDecimal("loan_amount", req.LoanAmount)
	if err != nil {
		return nil, err
	}
	rate, err := parseOptionalDecimal("annual_rate_pct", req.AnnualRatePct)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.QuoteEMI.Execute(ctx, dto.QuoteEMIRequest{
		CustomerID:    req.CustomerID,
		LoanAmount:    loanAmount,
		TenureMonths:  int(req.TenureMonths),
		AnnualRatePct: rate,
	})
	if err != nil {
		return nil, h.toStatus("QuoteEMI", err)
	}
	return &QuoteEMIResponse{Quote: &EMIQuoteMsg{
		LoanAmount:      amount(resp.LoanAmount),
		TenureMonths:    int32(resp.TenureMonths),
		InterestRatePct: resp.InterestRatePct.String(),
		MonthlyEMI:      amount(resp.MonthlyEMI),
		TotalInterest:   amount(resp.TotalInterest),
		TotalPayable:    amount(resp.TotalPayable),
	}}, nil
}

func (h *Handler) EvaluateEligibility(ctx context.Context, req *EvaluateEligibilityRequest) (*EvaluateEligibilityResponse, error) {
	if err := auth.AuthorizeCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	loanAmount, err := parseDecimal("loan_amount", req.LoanAmount)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.EvaluateEligibility.Execute(ctx, dto.EvaluateEligibilityRequest{
		CustomerID:   req.CustomerID,
		LoanAmount:   loanAmount,
		TenureMonths: int(req.TenureMonths),
	})
	if err != nil {
		return nil, h.toStatus("EvaluateEligibility", err)
	}
	return &EvaluateEligibilityResponse{Decision: &DecisionMsg{
		CustomerID:       resp.CustomerID,
		Outcome:          resp.Outcome,
		ApprovalType:     resp.ApprovalType,
		Requires:         resp.Requires,
		Reason:           resp.Reason,
		Message:          resp.Message,
		LoanAmount:       amount(resp.LoanAmount),
		TenureMonths:     int32(resp.TenureMonths),
		InterestRatePct:  resp.InterestRatePct.String(),
		MaxTenureMonths:  int32(resp.MaxTenureMonths),
		MonthlyEMI:       amount(resp.MonthlyEMI),
		TotalInterest:    amount(resp.TotalInterest),
		TotalPayable:     amount(resp.TotalPayable),
		FOIRPct:          amount(resp.FOIRPct),
		ExistingEMITotal: amount(resp.ExistingEMITotal),
	}}, nil
}

func (h *Handler) SanctionLoan(ctx context.Context, req *SanctionLoanRequest) (*SanctionLoanResponse, error) {
	loanAmount, err := parseDecimal("loan_amount", req.LoanAmount)
	if err != nil {
		return nil, err
	}
	override, err := parseOptionalDecimal("interest_rate_override", req.InterestRateOverride)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.SanctionLoan.Execute(ctx, dto.SanctionLoanRequest{
		CustomerID:           req.CustomerID,
		LoanAmount:           loanAmount,
		TenureMonths:         int(req.TenureMonths),
		InterestRateOverride: override,
	})
	if err != nil {
		return nil, h.toStatus("SanctionLoan", err)
	}
	return &SanctionLoanResponse{Application: toApplicationMsg(resp)}, nil
}

func (h *Handler) GetApplication(ctx context.Context, req *GetApplicationRequest) (*GetApplicationResponse, error) {
	resp, err := h.uc.GetApplication.Execute(ctx, dto.GetApplicationRequest{ApplicationID: req.ApplicationID})
	if err != nil {
		return nil, h.toStatus("GetApplication", err)
	}
	if err := authorizeApplication(ctx, resp.CustomerID); err != nil {
		return nil, err
	}
	return &GetApplicationResponse{Application: toApplicationMsg(resp)}, nil
}

func (h *Handler) ListApplications(ctx context.Context, req *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	if err := auth.AuthorizeCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	resp, err := h.uc.ListApplications.Execute(ctx, dto.ListApplicationsRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, h.toStatus("ListApplications", err)
	}
	msgs := make([]*LoanApplicationMsg, 0, len(resp.Applications))
	for _, app := range resp.Applications {
		msgs = append(msgs, toApplicationMsg(app))
	}
	return &ListApplicationsResponse{Applications: msgs}, nil
}

func (h *Handler) ChangeApplicationStatus(ctx context.Context, req *ChangeApplicationStatusRequest) (*ChangeApplicationStatusResponse, error) {
	resp, err := h.uc.ChangeStatus.Execute(ctx, dto.ChangeApplicationStatusRequest{
		ApplicationID: req.ApplicationID,
		Status:        req.Status,
		Reason:        req.Reason,
	})
	if err != nil {
		return nil, h.toStatus("ChangeApplicationStatus", err)
	}
	return &ChangeApplicationStatusResponse{Application: toApplicationMsg(resp)}, nil
}

func (h *Handler) GetKYC(ctx context.Context, req *GetKYCRequest) (*GetKYCResponse, error) {
	if err := auth.AuthorizeCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	resp, err := h.uc.GetKYC.Execute(ctx, dto.GetKYCRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, h.toStatus("GetKYC", err)
	}
	return &GetKYCResponse{KYC: &KYCMsg{
		CustomerID: resp.CustomerID,
		Name:       resp.Name,
		Phone:      resp.Phone,
		Email:      resp.Email,
		Address:    resp.Address,
		Verified:   resp.Verified,
	}}, nil
}

func (h *Handler) ListCustomerDocuments(ctx context.Context, req *ListCustomerDocumentsRequest) (*ListCustomerDocumentsResponse, error) {
	if err := auth.AuthorizeCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	resp, err := h.uc.ListCustomerDocuments.Execute(ctx, dto.ListCustomerDocumentsRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, h.toStatus("ListCustomerDocuments", err)
	}

	out := &ListCustomerDocumentsResponse{
		CustomerID: resp.CustomerID,
		SalarySlip: &SalarySlipMsg{
			Verified: resp.SalarySlip.Verified,
			SlipURL:  resp.SalarySlip.SlipURL,
		},
		SanctionLetters: make([]*SanctionLetterMsg, 0, len(resp.SanctionLetters)),
	}
	if at := resp.SalarySlip.VerifiedAt; at != nil {
		out.SalarySlip.VerifiedAt = at.UTC().Format(time.RFC3339)
	}
	for _, l := range resp.SanctionLetters {
		out.SanctionLetters = append(out.SanctionLetters, &SanctionLetterMsg{
			ApplicationID: l.ApplicationID,
			URL:           l.URL,
			Amount:        amount(l.Amount),
			Status:        l.Status,
			CreatedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

func (h *Handler) RecordSalarySlip(ctx context.Context, req *RecordSalarySlipRequest) (*RecordSalarySlipResponse, error) {
	resp, err := h.uc.RecordSalarySlip.Execute(ctx, dto.RecordSalarySlipRequest{
		CustomerID: req.CustomerID,
		Verified:   req.Verified,
		SlipURL:    req.SlipURL,
	})
	if err != nil {
		return nil, h.toStatus("RecordSalarySlip", err)
	}
	out := &RecordSalarySlipResponse{
		CustomerID: resp.CustomerID,
		Verified:   resp.Verified,
		SlipURL:    resp.SlipURL,
	}
	if resp.VerifiedAt != nil {
		out.VerifiedAt = resp.VerifiedAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}

func (h *Handler) GetRepaymentSchedule(ctx context.Context, req *GetRepaymentScheduleRequest) (*GetRepaymentScheduleResponse, error) {
	resp, err := h.uc.GetRepaymentSchedule.Execute(ctx, dto.GetRepaymentScheduleRequest{ApplicationID: req.ApplicationID})
	if err != nil {
		return nil, h.toStatus("GetRepaymentSchedule", err)
	}
	if err := authorizeApplication(ctx, resp.CustomerID); err != nil {
		return nil, err
	}

	entries := make([]*ScheduleEntryMsg, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		entries = append(entries, &ScheduleEntryMsg{
			Period:           int32(e.Period),
			DueDate:          e.DueDate.Format(time.DateOnly),
			Principal:        amount(e.Principal),
			Interest:         amount(e.Interest),
			Total:            amount(e.Total),
			RemainingBalance: amount(e.RemainingBalance),
		})
	}
	return &GetRepaymentScheduleResponse{
		ApplicationID: resp.ApplicationID,
		MonthlyEMI:    amount(resp.MonthlyEMI),
		Entries:       entries,
		TotalInterest: amount(resp.TotalInterest),
		TotalPayable:  amount(resp.TotalPayable),
	}, nil
}

var errApplicationNotFound = status.Error(codes.NotFound, port.ErrApplicationNotFound.Error())

// authorizeApplication checks ownership of a loaded application. Another
// customer's application answers exactly like a missing one.
func authorizeApplication(ctx context.Context, ownerID string) error {
	if err := auth.AuthorizeCustomer(ctx, ownerID); err != nil {
		if status.Code(err) == codes.PermissionDenied {
			return errApplicationNotFound
		}
		return err
	}
	return nil
}

// toStatus maps use case errors onto gRPC status codes. Unexpected errors are
// logged and hidden behind codes.Internal.
func (h *Handler) toStatus(method string, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, dto.ErrValidation), errors.Is(err, service.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrApplicationNotFound):
		return errApplicationNotFound
	case errors.Is(err, port.ErrCustomerNotFound):
		return status.Error(codes.NotFound, port.ErrCustomerNotFound.Error())
	case usecase.IsRefusal(err), errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, port.ErrConcurrentUpdate):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	h.logger.Error(method+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func toApplicationMsg(a dto.LoanApplicationResponse) *LoanApplicationMsg {
	return &LoanApplicationMsg{
		ID:                  a.ID,
		CustomerID:          a.CustomerID,
		Amount:              amount(a.Amount),
		TenureMonths:        int32(a.TenureMonths),
		InterestRatePct:     a.InterestRatePct.String(),
		MonthlyEMI:          amount(a.MonthlyEMI),
		TotalInterest:       amount(a.TotalInterest),
		TotalPayable:        amount(a.TotalPayable),
		Status:              a.Status,
		SanctionDocumentURL: a.SanctionDocumentURL,
		CreatedAt:           a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// amount renders a money figure with exactly two places.
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid %s: %q", field, value))
	}
	return d, nil
}

func parseOptionalDecimal(field, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
