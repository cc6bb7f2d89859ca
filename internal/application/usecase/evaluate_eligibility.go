package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/event"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/service"
)

// EvaluateEligibilityUseCase underwrites a loan ask and records the decision.
type EvaluateEligibilityUseCase struct {
	customers port.CustomerRepository
	publisher port.EventPublisher
	engine    *service.EligibilityEngine
	metrics   DecisionRecorder
	logger    *slog.Logger
}

func NewEvaluateEligibilityUseCase(
	customers port.CustomerRepository,
	publisher port.EventPublisher,
	engine *service.EligibilityEngine,
	metrics DecisionRecorder,
	logger *slog.Logger,
) *EvaluateEligibilityUseCase {
	return &EvaluateEligibilityUseCase{
		customers: customers,
		publisher: publisher,
		engine:    engine,
		metrics:   recorderOrNoop(metrics),
		logger:    logger,
	}
}

// Execute returns the decision. Rejections are returned as a response, not
// as an error; publishing the audit event is best-effort.
func (uc *EvaluateEligibilityUseCase) Execute(
	ctx context.Context,
	req dto.EvaluateEligibilityRequest,
) (dto.EligibilityResponse, error) {
	ctx, span := tracer.Start(ctx, "EvaluateEligibility")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return dto.EligibilityResponse{}, err
	}

	// 1. Load the profile. A missing customer is decided by the engine.
	var profile *model.CustomerProfile
	p, err := uc.customers.FindProfile(ctx, req.CustomerID)
	switch {
	case err == nil:
		profile = &p
	case errors.Is(err, port.ErrCustomerNotFound):
	default:
		return dto.EligibilityResponse{}, fmt.Errorf("find profile: %w", err)
	}

	// 2. Decide.
	decision, err := uc.engine.Evaluate(profile, model.LoanRequest{
		LoanAmount:   req.LoanAmount,
		TenureMonths: req.TenureMonths,
	})
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("evaluate: %w", err)
	}

	span.SetAttributes(
		attribute.String("decision.outcome", decision.Outcome.String()),
		attribute.String("decision.reason", string(decision.Reason)),
	)
	uc.metrics.RecordDecision(ctx, decision.Outcome.String(), string(decision.Reason))

	// 3. Publish the audit event.
	evt := event.NewEligibilityEvaluated(
		req.CustomerID, decision.Outcome.String(), string(decision.Reason),
		req.LoanAmount, req.TenureMonths,
		decision.InterestRatePct, decision.EMI.MonthlyEMI, decision.FOIRPct,
		time.Now().UTC(),
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish eligibility event",
			"customer_id", req.CustomerID, "error", err)
	}

	uc.logger.InfoContext(ctx, "eligibility evaluated",
		"customer_id", req.CustomerID,
		"outcome", decision.Outcome.String(),
		"reason", string(decision.Reason),
		"foir_pct", decision.FOIRPct.StringFixed(2),
	)

	return toEligibilityResponse(req.CustomerID, decision), nil
}
