package grpc

// proto.go defines the gRPC server interface derived from bib/origination/v1/origination.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/bibbank/loan-origination/api/gen/go/bib/origination/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "bib.origination.v1.OriginationService"

// Full method names, used by the role interceptor.
const (
	MethodGetOffer                = "/" + serviceName + "/GetOffer"
	MethodQuoteEMI                = "/" + serviceName + "/QuoteEMI"
	MethodEvaluateEligibility     = "/" + serviceName + "/EvaluateEligibility"
	MethodSanctionLoan            = "/" + serviceName + "/SanctionLoan"
	MethodGetApplication          = "/" + serviceName + "/GetApplication"
	MethodListApplications        = "/" + serviceName + "/ListApplications"
	MethodChangeApplicationStatus = "/" + serviceName + "/ChangeApplicationStatus"
	MethodGetKYC                  = "/" + serviceName + "/GetKYC"
	MethodListCustomerDocuments   = "/" + serviceName + "/ListCustomerDocuments"
	MethodRecordSalarySlip        = "/" + serviceName + "/RecordSalarySlip"
	MethodGetRepaymentSchedule    = "/" + serviceName + "/GetRepaymentSchedule"
)

// OriginationServiceServer is the server API for OriginationService.
type OriginationServiceServer interface {
	GetOffer(context.Context, *GetOfferRequest) (*GetOfferResponse, error)
	QuoteEMI(context.Context, *QuoteEMIRequest) (*QuoteEMIResponse, error)
	EvaluateEligibility(context.Context, *EvaluateEligibilityRequest) (*EvaluateEligibilityResponse, error)
	SanctionLoan(context.Context, *SanctionLoanRequest) (*SanctionLoanResponse, error)
	GetApplication(context.Context, *GetApplicationRequest) (*GetApplicationResponse, error)
	ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error)
	ChangeApplicationStatus(context.Context, *ChangeApplicationStatusRequest) (*ChangeApplicationStatusResponse, error)
	GetKYC(context.Context, *GetKYCRequest) (*GetKYCResponse, error)
	ListCustomerDocuments(context.Context, *ListCustomerDocumentsRequest) (*ListCustomerDocumentsResponse, error)
	RecordSalarySlip(context.Context, *RecordSalarySlipRequest) (*RecordSalarySlipResponse, error)
	GetRepaymentSchedule(context.Context, *GetRepaymentScheduleRequest) (*GetRepaymentScheduleResponse, error)
	mustEmbedUnimplementedOriginationServiceServer()
}

// UnimplementedOriginationServiceServer provides forward-compatible default implementations.
type UnimplementedOriginationServiceServer struct{}

func (UnimplementedOriginationServiceServer) GetOffer(context.Context, *GetOfferRequest) (*GetOfferResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetOffer not implemented")
}
func (UnimplementedOriginationServiceServer) QuoteEMI(context.Context, *QuoteEMIRequest) (*QuoteEMIResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method QuoteEMI not implemented")
}
func (UnimplementedOriginationServiceServer) EvaluateEligibility(context.Context, *EvaluateEligibilityRequest) (*EvaluateEligibilityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateEligibility not implemented")
}
func (UnimplementedOriginationServiceServer) SanctionLoan(context.Context, *SanctionLoanRequest) (*SanctionLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SanctionLoan not implemented")
}
func (UnimplementedOriginationServiceServer) GetApplication(context.Context, *GetApplicationRequest) (*GetApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetApplication not implemented")
}
func (UnimplementedOriginationServiceServer) ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListApplications not implemented")
}
func (UnimplementedOriginationServiceServer) ChangeApplicationStatus(context.Context, *ChangeApplicationStatusRequest) (*ChangeApplicationStatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ChangeApplicationStatus not implemented")
}
func (UnimplementedOriginationServiceServer) GetKYC(context.Context, *GetKYCRequest) (*GetKYCResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetKYC not implemented")
}
func (UnimplementedOriginationServiceServer) ListCustomerDocuments(context.Context, *ListCustomerDocumentsRequest) (*ListCustomerDocumentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCustomerDocuments not implemented")
}
func (UnimplementedOriginationServiceServer) RecordSalarySlip(context.Context, *RecordSalarySlipRequest) (*RecordSalarySlipResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordSalarySlip not implemented")
}
func (UnimplementedOriginationServiceServer) GetRepaymentSchedule(context.Context, *GetRepaymentScheduleRequest) (*GetRepaymentScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetRepaymentSchedule not implemented")
}
func (UnimplementedOriginationServiceServer) mustEmbedUnimplementedOriginationServiceServer() {}

// RegisterOriginationServiceServer registers the OriginationServiceServer with the gRPC server.
func RegisterOriginationServiceServer(s grpclib.ServiceRegistrar, srv OriginationServiceServer) {
	s.RegisterService(&originationServiceDesc, srv)
}

var originationServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*OriginationServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unaryMethod("GetOffer", OriginationServiceServer.GetOffer),
		unaryMethod("QuoteEMI", OriginationServiceServer.QuoteEMI),
		unaryMethod("EvaluateEligibility", OriginationServiceServer.EvaluateEligibility),
		unaryMethod("SanctionLoan", OriginationServiceServer.SanctionLoan),
		unaryMethod("GetApplication", OriginationServiceServer.GetApplication),
		unaryMethod("ListApplications", OriginationServiceServer.ListApplications),
		unaryMethod("ChangeApplicationStatus", OriginationServiceServer.ChangeApplicationStatus),
		unaryMethod("GetKYC", OriginationServiceServer.GetKYC),
		unaryMethod("ListCustomerDocuments", OriginationServiceServer.ListCustomerDocuments),
		unaryMethod("RecordSalarySlip", OriginationServiceServer.RecordSalarySlip),
		unaryMethod("GetRepaymentSchedule", OriginationServiceServer.GetRepaymentSchedule),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/origination/v1/origination.proto",
}

// unaryMethod builds the descriptor generated code would emit for one unary RPC.
func unaryMethod[Req, Resp any](
	name string,
	call func(OriginationServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	fullMethod := "/" + serviceName + "/" + name
	return grpclib.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(OriginationServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(OriginationServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ---------------------------------------------------------------------------
// Proto-aligned request/response message types. Monetary values and rates
// travel as decimal strings.
// ---------------------------------------------------------------------------

// OfferMsg represents the proto Offer message.
type OfferMsg struct {
	CustomerID           string `json:"customer_id"`
	CreditScore          int32  `json:"credit_score"`
	PreApprovedLimit     string `json:"pre_approved_limit"`
	MaxConditionalAmount string `json:"max_conditional_amount"`
	InterestRatePct      string `json:"interest_rate_pct"`
	MaxTenureMonths      int32  `json:"max_tenure_months"`
	Eligible             bool   `json:"eligible"`
}

type GetOfferRequest struct {
	CustomerID string `json:"customer_id"`
}

type GetOfferResponse struct {
	Offer *OfferMsg `json:"offer"`
}

// EMIQuoteMsg represents the proto EMIQuote message.
type EMIQuoteMsg struct {
	LoanAmount      string `json:"loan_amount"`
	TenureMonths    int32  `json:"tenure_months"`
	InterestRatePct string `json:"interest_rate_pct"`
	MonthlyEMI      string `json:"monthly_emi"`
	TotalInterest   string `json:"total_interest"`
	TotalPayable    string `json:"total_payable"`
}

type QuoteEMIRequest struct {
	CustomerID    string `json:"customer_id"`
	LoanAmount    string `json:"loan_amount"`
	TenureMonths  int32  `json:"tenure_months"`
	AnnualRatePct string `json:"annual_rate_pct"`
}

type QuoteEMIResponse struct {
	Quote *EMIQuoteMsg `json:"quote"`
}

// DecisionMsg represents the proto EligibilityDecision message.
type DecisionMsg struct {
	CustomerID       string `json:"customer_id"`
	Outcome          string `json:"outcome"`
	ApprovalType     string `json:"approval_type,omitempty"`
	Requires         string `json:"requires,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Message          string `json:"message,omitempty"`
	LoanAmount       string `json:"loan_amount"`
	TenureMonths     int32  `json:"tenure_months"`
	InterestRatePct  string `json:"interest_rate_pct"`
	MaxTenureMonths  int32  `json:"max_tenure_months"`
	MonthlyEMI       string `json:"monthly_emi"`
	TotalInterest    string `json:"total_interest"`
	TotalPayable     string `json:"total_payable"`
	FOIRPct          string `json:"foir_pct"`
	ExistingEMITotal string `json:"existing_emi_total"`
}

type EvaluateEligibilityRequest struct {
	CustomerID   string `json:"customer_id"`
	LoanAmount   string `json:"loan_amount"`
	TenureMonths int32  `json:"tenure_months"`
}

type EvaluateEligibilityResponse struct {
	Decision *DecisionMsg `json:"decision"`
}

// LoanApplicationMsg represents the proto LoanApplication message.
type LoanApplicationMsg struct {
	ID                  string `json:"id"`
	CustomerID          string `json:"customer_id"`
	Amount              string `json:"amount"`
	TenureMonths        int32  `json:"tenure_months"`
	InterestRatePct     string `json:"interest_rate_pct"`
	MonthlyEMI          string `json:"monthly_emi"`
	TotalInterest       string `json:"total_interest"`
	TotalPayable        string `json:"total_payable"`
	Status              string `json:"status"`
	SanctionDocumentURL string `json:"sanction_document_url"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

type SanctionLoanRequest struct {
	CustomerID           string `json:"customer_id"`
	LoanAmount           string `json:"loan_amount"`
	TenureMonths         int32  `json:"tenure_months"`
	InterestRateOverride string `json:"interest_rate_override"`
}

type SanctionLoanResponse struct {
	Application *LoanApplicationMsg `json:"application"`
}

type GetApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

type GetApplicationResponse struct {
	Application *LoanApplicationMsg `json:"application"`
}

type ListApplicationsRequest struct {
	CustomerID string `json:"customer_id"`
}

type ListApplicationsResponse struct {
	Applications []*LoanApplicationMsg `json:"applications"`
}

type ChangeApplicationStatusRequest struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
	Reason        string `json:"reason"`
}

type ChangeApplicationStatusResponse struct {
	Application *LoanApplicationMsg `json:"application"`
}

// KYCMsg represents the proto KYC message.
type KYCMsg struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Verified   bool   `json:"verified"`
}

type GetKYCRequest struct {
	CustomerID string `json:"customer_id"`
}

type GetKYCResponse struct {
	KYC *KYCMsg `json:"kyc"`
}

type ListCustomerDocumentsRequest struct {
	CustomerID string `json:"customer_id"`
}

// SalarySlipMsg represents the proto SalarySlip message.
type SalarySlipMsg struct {
	Verified   bool   `json:"verified"`
	SlipURL    string `json:"slip_url,omitempty"`
	VerifiedAt string `json:"verified_at,omitempty"`
}

// SanctionLetterMsg represents the proto SanctionLetter message.
type SanctionLetterMsg struct {
	ApplicationID string `json:"application_id"`
	URL           string `json:"url"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

type ListCustomerDocumentsResponse struct {
	CustomerID      string               `json:"customer_id"`
	SalarySlip      *SalarySlipMsg       `json:"salary_slip"`
	SanctionLetters []*SanctionLetterMsg `json:"sanction_letters"`
}

type RecordSalarySlipRequest struct {
	CustomerID string `json:"customer_id"`
	Verified   bool   `json:"verified"`
	SlipURL    string `json:"slip_url"`
}

type RecordSalarySlipResponse struct {
	CustomerID string `json:"customer_id"`
	Verified   bool   `json:"verified"`
	SlipURL    string `json:"slip_url"`
	VerifiedAt string `json:"verified_at,omitempty"`
}

// ScheduleEntryMsg represents the proto ScheduleEntry message.
type ScheduleEntryMsg struct {
	Period           int32  `json:"period"`
	DueDate          string `json:"due_date"`
	Principal        string `json:"principal"`
	Interest         string `json:"interest"`
	Total            string `json:"total"`
	RemainingBalance string `json:"remaining_balance"`
}

type GetRepaymentScheduleRequest struct {
	ApplicationID string `json:"application_id"`
}

type GetRepaymentScheduleResponse struct {
	ApplicationID string              `json:"application_id"`
	MonthlyEMI    string              `json:"monthly_emi"`
	Entries       []*ScheduleEntryMsg `json:"entries"`
	TotalInterest string              `json:"total_interest"`
	TotalPayable  string              `json:"total_payable"`
}
