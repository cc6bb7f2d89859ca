package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
)

// GetRepaymentScheduleUseCase builds the amortization schedule of a
// sanctioned application from its stored terms.
type GetRepaymentScheduleUseCase struct {
	appRepo port.LoanApplicationRepository
}

func NewGetRepaymentScheduleUseCase(appRepo port.LoanApplicationRepository) *GetRepaymentScheduleUseCase {
	return &GetRepaymentScheduleUseCase{appRepo: appRepo}
}

func (uc *GetRepaymentScheduleUseCase) Execute(
	ctx context.Context,
	req dto.GetRepaymentScheduleRequest,
) (dto.RepaymentScheduleResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.RepaymentScheduleResponse{}, err
	}
	app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.RepaymentScheduleResponse{}, fmt.Errorf("find application: %w", err)
	}
	schedule := app.RepaymentSchedule()
	totals := model.SumSchedule(schedule)
	return dto.RepaymentScheduleResponse{
		ApplicationID: app.ID(),
		CustomerID:    app.CustomerID(),
		MonthlyEMI:    app.MonthlyEMI(),
		Entries:       toScheduleEntries(schedule),
		TotalInterest: totals.Interest,
		TotalPayable:  totals.Total,
	}, nil
}
