package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/service"
)

// QuoteEMIUseCase prices an installment. Without an explicit rate the
// customer's policy tier is used.
type QuoteEMIUseCase struct {
	customers port.CustomerRepository
	selector  service.RateSelector
}

func NewQuoteEMIUseCase(customers port.CustomerRepository, selector service.RateSelector) *QuoteEMIUseCase {
	return &QuoteEMIUseCase{customers: customers, selector: selector}
}

func (uc *QuoteEMIUseCase) Execute(ctx context.Context, req dto.QuoteEMIRequest) (dto.EMIQuoteResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.EMIQuoteResponse{}, err
	}

	// 1. Resolve the rate.
	rate := req.AnnualRatePct
	if rate == nil {
		profile, err := uc.customers.FindProfile(ctx, req.CustomerID)
		if err != nil {
			return dto.EMIQuoteResponse{}, fmt.Errorf("find profile: %w", err)
		}
		r := uc.selector.SelectRateTier(profile.CreditScore()).AnnualRatePct
		rate = &r
	}

	// 2. Price.
	emi, err := service.CalculateEMI(req.LoanAmount, *rate, req.TenureMonths)
	if err != nil {
		return dto.EMIQuoteResponse{}, fmt.Errorf("calculate emi: %w", err)
	}

	return dto.EMIQuoteResponse{
		LoanAmount:      req.LoanAmount,
		TenureMonths:    req.TenureMonths,
		InterestRatePct: *rate,
		MonthlyEMI:      emi.MonthlyEMI,
		TotalInterest:   emi.TotalInterest,
		TotalPayable:    emi.TotalPayable,
	}, nil
}
