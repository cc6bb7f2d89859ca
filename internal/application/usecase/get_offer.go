package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/service"
)

// GetOfferUseCase returns a customer's standing pre-approved offer.
type GetOfferUseCase struct {
	customers port.CustomerRepository
	engine    *service.EligibilityEngine
	selector  service.RateSelector
}

func NewGetOfferUseCase(customers port.CustomerRepository, engine *service.EligibilityEngine) *GetOfferUseCase {
	return &GetOfferUseCase{
		customers: customers,
		engine:    engine,
		selector:  service.NewRateSelector(engine.Policy().RateTable),
	}
}

func (uc *GetOfferUseCase) Execute(ctx context.Context, req dto.GetOfferRequest) (dto.OfferResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.OfferResponse{}, err
	}

	profile, err := uc.customers.FindProfile(ctx, req.CustomerID)
	if err != nil {
		return dto.OfferResponse{}, fmt.Errorf("find profile: %w", err)
	}

	p := uc.engine.Policy()
	tier := uc.selector.SelectRateTier(profile.CreditScore())

	return dto.OfferResponse{
		CustomerID:           profile.CustomerID(),
		CreditScore:          profile.CreditScore(),
		PreApprovedLimit:     profile.PreApprovedLimit(),
		MaxConditionalAmount: profile.PreApprovedLimit().Mul(p.ConditionalLimitMultiplier),
		InterestRatePct:      tier.AnnualRatePct,
		MaxTenureMonths:      tier.MaxTenureMonths,
		Eligible:             profile.CreditScore() >= p.MinCreditScore,
	}, nil
}
