package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/service"
)

// SanctionLoanUseCase turns an eligible loan ask into a sanctioned loan
// application with a stored sanction letter.
type SanctionLoanUseCase struct {
	customers port.CustomerRepository
	appRepo   port.LoanApplicationRepository
	publisher port.EventPublisher
	engine    *service.EligibilityEngine
	sanction  *service.SanctionCalculator
	renderer  port.DocumentRenderer
	store     port.DocumentStore
	notifier  port.Notifier
	metrics   DecisionRecorder
	logger    *slog.Logger

	notifyTimeout time.Duration
	inflight      sync.WaitGroup
}

// DefaultNotifyTimeout bounds one sanction email when no timeout is configured.
const DefaultNotifyTimeout = 30 * time.Second

// SanctionLoanDeps groups the collaborators of SanctionLoanUseCase.
type SanctionLoanDeps struct {
	Customers    port.CustomerRepository
	Applications port.LoanApplicationRepository
	Publisher    port.EventPublisher
	Engine       *service.EligibilityEngine
	Sanction     *service.SanctionCalculator
	Renderer     port.DocumentRenderer
	Store        port.DocumentStore
	Notifier     port.Notifier
	Metrics      DecisionRecorder
	Logger       *slog.Logger

	// NotifyTimeout bounds each sanction email. Zero means DefaultNotifyTimeout.
	NotifyTimeout time.Duration
}

func NewSanctionLoanUseCase(d SanctionLoanDeps) *SanctionLoanUseCase {
	timeout := d.NotifyTimeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &SanctionLoanUseCase{
		customers: d.Customers,
		appRepo:   d.Applications,
		publisher: d.Publisher,
		engine:    d.Engine,
		sanction:  d.Sanction,
		renderer:  d.Renderer,
		store:     d.Store,
		notifier:  d.Notifier,
		metrics:   recorderOrNoop(d.Metrics),
		logger:    d.Logger,

		notifyTimeout: timeout,
	}
}

// Execute re-underwrites the request, prices it, stores the sanction letter
// and persists the application. Event publishing and the customer email
// happen after the application is stored and never fail the call. The email
// is sent in the background.
func (uc *SanctionLoanUseCase) Execute(
	ctx context.Context,
	req dto.SanctionLoanRequest,
) (dto.LoanApplicationResponse, error) {
	ctx, span := tracer.Start(ctx, "SanctionLoan")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return dto.LoanApplicationResponse{}, err
	}
	now := time.Now().UTC()

	// 1. Load the profile.
	profile, err := uc.customers.FindProfile(ctx, req.CustomerID)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("find profile: %w", err)
	}

	// 2. Re-run eligibility against current data.
	decision, err := uc.engine.Evaluate(&profile, model.LoanRequest{
		LoanAmount:   req.LoanAmount,
		TenureMonths: req.TenureMonths,
	})
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("evaluate: %w", err)
	}
	if decision.IsRejected() {
		return dto.LoanApplicationResponse{}, fmt.Errorf("%w: %s", ErrNotEligible, decision.Message)
	}
	if decision.IsConditional() && !profile.SalarySlip().Verified {
		return dto.LoanApplicationResponse{}, ErrSalarySlipRequired
	}

	// 3. Materialise final terms.
	figures, err := uc.sanction.ComputeSanction(profile, req.LoanAmount, req.TenureMonths, req.InterestRateOverride)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("compute sanction: %w", err)
	}
	// An override reprices the loan, so the approved FOIR no longer holds.
	if foir, ok := uc.engine.CheckFOIR(profile, figures.EMI.MonthlyEMI); !ok {
		return dto.LoanApplicationResponse{}, fmt.Errorf("%w: FOIR %s%% at %s%% exceeds %s%%",
			ErrNotEligible, foir.StringFixed(2), figures.InterestRatePct, uc.engine.Policy().MaxFOIRPct)
	}

	// 4. Create the application aggregate.
	app, err := model.NewLoanApplication(profile.CustomerID(), figures.Terms(), now)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}
	span.SetAttributes(attribute.String("application.id", app.ID()))

	// 5. Render and store the sanction letter.
	kyc, err := uc.customers.FindKYC(ctx, profile.CustomerID())
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("find kyc: %w", err)
	}
	letter := port.SanctionLetter{
		ApplicationID: app.ID(),
		Customer:      kyc,
		Figures:       figures,
		Schedule:      app.RepaymentSchedule(),
		IssuedAt:      now,
	}
	body, contentType, err := uc.renderer.RenderSanctionLetter(ctx, letter)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("render sanction letter: %w", err)
	}
	url, err := uc.store.Put(ctx, sanctionLetterKey(app), body, contentType)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("store sanction letter: %w", err)
	}
	app, err = app.AttachSanctionDocument(url, now)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("attach sanction letter: %w", err)
	}

	// 6. Persist.
	if err := uc.appRepo.Save(ctx, app); err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	// 7. Publish domain events.
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish sanction events",
			"application_id", app.ID(), "error", err)
	}

	amount, _ := app.Amount().Float64()
	uc.metrics.RecordSanction(ctx, amount)

	// 8. Notify the customer.
	uc.notify(ctx, kyc, letter, url)

	uc.logger.InfoContext(ctx, "loan sanctioned",
		"application_id", app.ID(),
		"customer_id", app.CustomerID(),
		"amount", app.Amount().StringFixed(2),
		"rate_source", string(figures.RateSource),
	)

	return toApplicationResponse(app), nil
}

// notify sends the sanction email on its own goroutine. The send outlives the
// request context but is bounded by notifyTimeout.
func (uc *SanctionLoanUseCase) notify(ctx context.Context, kyc model.KYCRecord, letter port.SanctionLetter, url string) {
	if uc.notifier == nil || kyc.Email == "" {
		return
	}
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.notifyTimeout)
		defer cancel()

		if err := uc.notifier.NotifySanction(sendCtx, kyc.Email, letter, url); err != nil {
			uc.logger.WarnContext(sendCtx, "failed to send sanction email",
				"application_id", letter.ApplicationID, "error", err)
		}
	}()
}

// Wait blocks until every in-flight sanction email has finished.
func (uc *SanctionLoanUseCase) Wait() {
	uc.inflight.Wait()
}

func sanctionLetterKey(app model.LoanApplication) string {
	return fmt.Sprintf("sanction-letters/%s/%s.md", app.CustomerID(), app.ID())
}

// IsRefusal reports whether err is a business refusal rather than a failure.
func IsRefusal(err error) bool {
	return errors.Is(err, ErrNotEligible) || errors.Is(err, ErrSalarySlipRequired)
}
