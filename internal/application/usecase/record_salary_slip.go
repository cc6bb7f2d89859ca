package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/event"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
)

// RecordSalarySlipUseCase stores the outcome of a salary-slip verification.
type RecordSalarySlipUseCase struct {
	customers port.CustomerRepository
	cache     port.ProfileCache
	publisher port.EventPublisher
	logger    *slog.Logger
}

func NewRecordSalarySlipUseCase(
	customers port.CustomerRepository,
	cache port.ProfileCache,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RecordSalarySlipUseCase {
	return &RecordSalarySlipUseCase{
		customers: customers,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *RecordSalarySlipUseCase) Execute(ctx context.Context, req dto.RecordSalarySlipRequest) (dto.SalarySlipResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.SalarySlipResponse{}, err
	}
	now := time.Now().UTC()

	slip := model.SalarySlip{Verified: req.Verified, URL: req.SlipURL}
	if req.Verified {
		slip.VerifiedAt = &now
	}

	// 1. Persist.
	if err := uc.customers.UpdateSalarySlip(ctx, req.CustomerID, slip); err != nil {
		return dto.SalarySlipResponse{}, fmt.Errorf("update salary slip: %w", err)
	}

	// 2. Drop the cached profile so the next decision sees the new state.
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, req.CustomerID); err != nil {
			uc.logger.WarnContext(ctx, "failed to invalidate profile cache",
				"customer_id", req.CustomerID, "error", err)
		}
	}

	// 3. Publish.
	evt := event.NewSalarySlipRecorded(req.CustomerID, req.Verified, req.SlipURL, now)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish salary slip event",
			"customer_id", req.CustomerID, "error", err)
	}

	return dto.SalarySlipResponse{
		CustomerID: req.CustomerID,
		Verified:   slip.Verified,
		SlipURL:    slip.URL,
		VerifiedAt: slip.VerifiedAt,
	}, nil
}
