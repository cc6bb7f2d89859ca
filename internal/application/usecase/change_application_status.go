package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

// ChangeApplicationStatusUseCase applies a servicing transition to a
// sanctioned application.
type ChangeApplicationStatusUseCase struct {
	appRepo   port.LoanApplicationRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

func NewChangeApplicationStatusUseCase(
	appRepo port.LoanApplicationRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ChangeApplicationStatusUseCase {
	return &ChangeApplicationStatusUseCase{appRepo: appRepo, publisher: publisher, logger: logger}
}

func (uc *ChangeApplicationStatusUseCase) Execute(
	ctx context.Context,
	req dto.ChangeApplicationStatusRequest,
) (dto.LoanApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.LoanApplicationResponse{}, err
	}
	now := time.Now().UTC()

	// 1. Load.
	app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}

	// 2. Transition.
	target, err := valueobject.NewLoanApplicationStatus(req.Status)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("parse status: %w", err)
	}
	app, err = applyTransition(app, target, req.Reason, now)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("change status: %w", err)
	}

	// 3. Persist.
	if err := uc.appRepo.Save(ctx, app); err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	// 4. Publish.
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish status change",
			"application_id", app.ID(), "error", err)
	}

	return toApplicationResponse(app), nil
}

func applyTransition(
	app model.LoanApplication,
	target valueobject.LoanApplicationStatus,
	reason string,
	now time.Time,
) (model.LoanApplication, error) {
	switch target {
	case valueobject.LoanApplicationStatusDisbursed:
		return app.MarkDisbursed(now)
	case valueobject.LoanApplicationStatusCancelled:
		return app.Cancel(reason, now)
	case valueobject.LoanApplicationStatusClosed:
		return app.Close(now)
	default:
		return model.LoanApplication{}, fmt.Errorf("%w: %s", valueobject.ErrInvalidStatusTransition, target)
	}
}
