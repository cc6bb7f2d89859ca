package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/port"
)

// GetApplicationUseCase retrieves a loan application by ID.
type GetApplicationUseCase struct {
	appRepo port.LoanApplicationRepository
}

func NewGetApplicationUseCase(appRepo port.LoanApplicationRepository) *GetApplicationUseCase {
	return &GetApplicationUseCase{appRepo: appRepo}
}

func (uc *GetApplicationUseCase) Execute(ctx context.Context, req dto.GetApplicationRequest) (dto.LoanApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.LoanApplicationResponse{}, err
	}
	app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}
	return toApplicationResponse(app), nil
}

// ListApplicationsUseCase lists a customer's applications, newest first.
type ListApplicationsUseCase struct {
	appRepo port.LoanApplicationRepository
}

func NewListApplicationsUseCase(appRepo port.LoanApplicationRepository) *ListApplicationsUseCase {
	return &ListApplicationsUseCase{appRepo: appRepo}
}

func (uc *ListApplicationsUseCase) Execute(ctx context.Context, req dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ListApplicationsResponse{}, err
	}
	apps, err := uc.appRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.ListApplicationsResponse{}, fmt.Errorf("list applications: %w", err)
	}

	resp := dto.ListApplicationsResponse{Applications: make([]dto.LoanApplicationResponse, 0, len(apps))}
	for _, app := range apps {
		resp.Applications = append(resp.Applications, toApplicationResponse(app))
	}
	return resp, nil
}
