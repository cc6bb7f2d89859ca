package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/port"
)

// GetKYCUseCase reads a customer's identity record.
type GetKYCUseCase struct {
	customers port.CustomerRepository
}

func NewGetKYCUseCase(customers port.CustomerRepository) *GetKYCUseCase {
	return &GetKYCUseCase{customers: customers}
}

func (uc *GetKYCUseCase) Execute(ctx context.Context, req dto.GetKYCRequest) (dto.KYCResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.KYCResponse{}, err
	}
	kyc, err := uc.customers.FindKYC(ctx, req.CustomerID)
	if err != nil {
		return dto.KYCResponse{}, fmt.Errorf("find kyc: %w", err)
	}
	return dto.KYCResponse{
		CustomerID: kyc.CustomerID,
		Name:       kyc.Name,
		Phone:      kyc.Phone,
		Email:      kyc.Email,
		Address:    kyc.Address,
		Verified:   kyc.Verified,
	}, nil
}
