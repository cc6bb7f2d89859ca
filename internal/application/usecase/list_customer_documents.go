package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/domain/port"
)

// ListCustomerDocumentsUseCase gathers a customer's salary-slip state and the
// sanction letters issued to them.
type ListCustomerDocumentsUseCase struct {
	customers port.CustomerRepository
	appRepo   port.LoanApplicationRepository
	store     port.DocumentStore
	logger    *slog.Logger
}

func NewListCustomerDocumentsUseCase(
	customers port.CustomerRepository,
	appRepo port.LoanApplicationRepository,
	store port.DocumentStore,
	logger *slog.Logger,
) *ListCustomerDocumentsUseCase {
	return &ListCustomerDocumentsUseCase{customers: customers, appRepo: appRepo, store: store, logger: logger}
}

// Execute lists sanction letters newest first. Issued links expire, so each
// letter is re-signed per call and falls back to the issued link when signing
// fails.
func (uc *ListCustomerDocumentsUseCase) Execute(
	ctx context.Context,
	req dto.ListCustomerDocumentsRequest,
) (dto.CustomerDocumentsResponse, error) {
	ctx, span := tracer.Start(ctx, "ListCustomerDocuments")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return dto.CustomerDocumentsResponse{}, err
	}

	profile, err := uc.customers.FindProfile(ctx, req.CustomerID)
	if err != nil {
		return dto.CustomerDocumentsResponse{}, fmt.Errorf("find profile: %w", err)
	}
	apps, err := uc.appRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.CustomerDocumentsResponse{}, fmt.Errorf("list applications: %w", err)
	}

	slip := profile.SalarySlip()
	resp := dto.CustomerDocumentsResponse{
		CustomerID: req.CustomerID,
		SalarySlip: dto.SalarySlipResponse{
			CustomerID: req.CustomerID,
			Verified:   slip.Verified,
			SlipURL:    slip.URL,
			VerifiedAt: slip.VerifiedAt,
		},
		SanctionLetters: make([]dto.SanctionLetterDocument, 0, len(apps)),
	}

	for _, app := range apps {
		if app.SanctionDocumentURL() == "" {
			continue
		}
		link := app.SanctionDocumentURL()
		if uc.store != nil {
			fresh, err := uc.store.URL(ctx, sanctionLetterKey(app))
			if err != nil {
				uc.logger.WarnContext(ctx, "failed to re-sign sanction letter link",
					"application_id", app.ID(), "error", err)
			} else {
				link = fresh
			}
		}
		resp.SanctionLetters = append(resp.SanctionLetters, dto.SanctionLetterDocument{
			ApplicationID: app.ID(),
			URL:           link,
			Amount:        app.Amount(),
			Status:        app.Status().String(),
			CreatedAt:     app.CreatedAt(),
		})
	}
	return resp, nil
}
