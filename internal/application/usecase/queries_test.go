package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-origination/internal/application/dto"
	"github.com/bibbank/loan-origination/internal/application/usecase"
	"github.com/bibbank/loan-origination/internal/domain/event"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/policy"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/service"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

func TestGetOffer_Execute(t *testing.T) {
	uc := usecase.NewGetOfferUseCase(newCustomers(), service.NewEligibilityEngine(policy.Default()))

	t.Run("returns tier and ceilings", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GetOfferRequest{CustomerID: "cust-001"})

		require.NoError(t, err)
		assert.Equal(t, 780, resp.CreditScore)
		assert.Equal(t, "600000", resp.PreApprovedLimit.String())
		assert.Equal(t, "1200000", resp.MaxConditionalAmount.String())
		assert.Equal(t, "10.5", resp.InterestRatePct.String())
		assert.Equal(t, 60, resp.MaxTenureMonths)
		assert.True(t, resp.Eligible)
	})

	t.Run("low score is not eligible", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GetOfferRequest{CustomerID: "cust-003"})

		require.NoError(t, err)
		assert.False(t, resp.Eligible)
		assert.Equal(t, "12.5", resp.InterestRatePct.String())
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.GetOfferRequest{CustomerID: "cust-404"})
		assert.ErrorIs(t, err, port.ErrCustomerNotFound)
	})
}

func TestQuoteEMI_Execute(t *testing.T) {
	uc := usecase.NewQuoteEMIUseCase(newCustomers(), service.NewRateSelector(valueobject.DefaultRateTable()))

	t.Run("explicit rate", func(t *testing.T) {
		rate := dec("11.0")
		resp, err := uc.Execute(context.Background(), dto.QuoteEMIRequest{
			LoanAmount: dec("100000"), TenureMonths: 24, AnnualRatePct: &rate,
		})

		require.NoError(t, err)
		assert.Equal(t, "4660.78", resp.MonthlyEMI.StringFixed(2))
		assert.Equal(t, "11858.81", resp.TotalInterest.StringFixed(2))
	})

	t.Run("rate from the customer's tier", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.QuoteEMIRequest{
			CustomerID: "cust-001", LoanAmount: dec("500000"), TenureMonths: 36,
		})

		require.NoError(t, err)
		assert.Equal(t, "10.5", resp.InterestRatePct.String())
		assert.Equal(t, "16251.22", resp.MonthlyEMI.StringFixed(2))
	})

	t.Run("needs a rate or a customer", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.QuoteEMIRequest{
			LoanAmount: dec("100000"), TenureMonths: 24,
		})
		assert.ErrorIs(t, err, dto.ErrValidation)
	})

	t.Run("negative rate is rejected", func(t *testing.T) {
		rate := dec("-1")
		_, err := uc.Execute(context.Background(), dto.QuoteEMIRequest{
			LoanAmount: dec("100000"), TenureMonths: 24, AnnualRatePct: &rate,
		})
		assert.ErrorIs(t, err, dto.ErrValidation)
	})
}

func TestGetApplication_Execute(t *testing.T) {
	app := sanctionedApplication()
	repo := &mockLoanApplicationRepository{
		findByIDFunc: func(ctx context.Context, id string) (model.LoanApplication, error) {
			if id == app.ID() {
				return app, nil
			}
			return model.LoanApplication{}, port.ErrApplicationNotFound
		},
		listFunc: func(ctx context.Context, customerID string) ([]model.LoanApplication, error) {
			return []model.LoanApplication{app}, nil
		},
	}

	t.Run("found", func(t *testing.T) {
		resp, err := usecase.NewGetApplicationUseCase(repo).Execute(context.Background(),
			dto.GetApplicationRequest{ApplicationID: app.ID()})

		require.NoError(t, err)
		assert.Equal(t, "cust-001", resp.CustomerID)
		assert.Equal(t, "SANCTIONED", resp.Status)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := usecase.NewGetApplicationUseCase(repo).Execute(context.Background(),
			dto.GetApplicationRequest{ApplicationID: "9a1c0f4e-2b7d-4e3a-8c6f-0d5b1e2a3c4d"})

		assert.ErrorIs(t, err, port.ErrApplicationNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := usecase.NewGetApplicationUseCase(repo).Execute(context.Background(),
			dto.GetApplicationRequest{ApplicationID: "not-a-uuid"})

		assert.ErrorIs(t, err, dto.ErrValidation)
	})

	t.Run("list", func(t *testing.T) {
		resp, err := usecase.NewListApplicationsUseCase(repo).Execute(context.Background(),
			dto.ListApplicationsRequest{CustomerID: "cust-001"})

		require.NoError(t, err)
		require.Len(t, resp.Applications, 1)
		assert.Equal(t, app.ID(), resp.Applications[0].ID)
	})
}

func TestGetRepaymentSchedule_Execute(t *testing.T) {
	app := sanctionedApplication()
	repo := &mockLoanApplicationRepository{
		findByIDFunc: func(ctx context.Context, id string) (model.LoanApplication, error) {
			return app, nil
		},
	}

	resp, err := usecase.NewGetRepaymentScheduleUseCase(repo).Execute(context.Background(),
		dto.GetRepaymentScheduleRequest{ApplicationID: app.ID()})

	require.NoError(t, err)
	require.Len(t, resp.Entries, 36)
	assert.Equal(t, "4375.00", resp.Entries[0].Interest.StringFixed(2))
	assert.True(t, resp.Entries[35].RemainingBalance.IsZero())

	sum := dec("0")
	for _, e := range resp.Entries {
		sum = sum.Add(e.Total)
	}
	assert.True(t, resp.TotalPayable.Equal(sum))
	assert.True(t, resp.TotalPayable.Sub(resp.TotalInterest).Equal(app.Amount()))
}

func TestGetKYC_Execute(t *testing.T) {
	uc := usecase.NewGetKYCUseCase(newCustomers())

	resp, err := uc.Execute(context.Background(), dto.GetKYCRequest{CustomerID: "cust-002"})
	require.NoError(t, err)
	assert.Equal(t, "Vikram Shah", resp.Name)
	assert.True(t, resp.Verified)

	_, err = uc.Execute(context.Background(), dto.GetKYCRequest{CustomerID: "cust-404"})
	assert.ErrorIs(t, err, port.ErrCustomerNotFound)
}

func TestRecordSalarySlip_Execute(t *testing.T) {
	t.Run("records, invalidates and publishes", func(t *testing.T) {
		customers := newCustomers()
		cache := &mockProfileCache{}
		pub := &mockEventPublisher{}
		uc := usecase.NewRecordSalarySlipUseCase(customers, cache, pub, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.RecordSalarySlipRequest{
			CustomerID: "cust-001", Verified: true, SlipURL: "https://uploads.example.test/slip.pdf",
		})

		require.NoError(t, err)
		assert.True(t, resp.Verified)
		require.NotNil(t, resp.VerifiedAt)
		assert.True(t, customers.updatedSlips["cust-001"].Verified)
		assert.Equal(t, []string{"cust-001"}, cache.invalidated)
		assert.Equal(t, []string{event.TypeSalarySlipRecorded}, pub.types())
	})

	t.Run("unverified slip has no verification time", func(t *testing.T) {
		uc := usecase.NewRecordSalarySlipUseCase(newCustomers(), nil, &mockEventPublisher{}, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.RecordSalarySlipRequest{CustomerID: "cust-001"})

		require.NoError(t, err)
		assert.False(t, resp.Verified)
		assert.Nil(t, resp.VerifiedAt)
	})

	t.Run("repository failure", func(t *testing.T) {
		customers := newCustomers()
		customers.updateFunc = func(ctx context.Context, customerID string, slip model.SalarySlip) error {
			return port.ErrCustomerNotFound
		}
		cache := &mockProfileCache{}
		uc := usecase.NewRecordSalarySlipUseCase(customers, cache, &mockEventPublisher{}, discardLogger())

		_, err := uc.Execute(context.Background(), dto.RecordSalarySlipRequest{CustomerID: "cust-404", Verified: true})

		assert.ErrorIs(t, err, port.ErrCustomerNotFound)
		assert.Empty(t, cache.invalidated)
	})
}

func TestChangeApplicationStatus_Execute(t *testing.T) {
	newRepo := func(app model.LoanApplication) *mockLoanApplicationRepository {
		return &mockLoanApplicationRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.LoanApplication, error) {
				return app, nil
			},
		}
	}

	t.Run("disburse", func(t *testing.T) {
		repo := newRepo(sanctionedApplication())
		pub := &mockEventPublisher{}
		uc := usecase.NewChangeApplicationStatusUseCase(repo, pub, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.ChangeApplicationStatusRequest{
			ApplicationID: sanctionedApplication().ID(), Status: "DISBURSED",
		})

		require.NoError(t, err)
		assert.Equal(t, "DISBURSED", resp.Status)
		require.Len(t, repo.savedApps, 1)
		assert.Equal(t, []string{event.TypeApplicationStatusChange}, pub.types())
	})

	t.Run("close before disbursal is refused", func(t *testing.T) {
		repo := newRepo(sanctionedApplication())
		uc := usecase.NewChangeApplicationStatusUseCase(repo, &mockEventPublisher{}, discardLogger())

		_, err := uc.Execute(context.Background(), dto.ChangeApplicationStatusRequest{
			ApplicationID: sanctionedApplication().ID(), Status: "CLOSED",
		})

		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
		assert.Empty(t, repo.savedApps)
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		uc := usecase.NewChangeApplicationStatusUseCase(newRepo(sanctionedApplication()), &mockEventPublisher{}, discardLogger())

		_, err := uc.Execute(context.Background(), dto.ChangeApplicationStatusRequest{
			ApplicationID: sanctionedApplication().ID(), Status: "SANCTIONED",
		})

		assert.ErrorIs(t, err, dto.ErrValidation)
	})
}

func TestListCustomerDocuments_Execute(t *testing.T) {
	older := sanctionedApplication()
	unsigned := model.ReconstructLoanApplication(
		"9a1c2d3e-4f50-4b61-8c72-d8e9fa0b1c2d", "cust-001",
		model.LoanTerms{
			Amount:          dec("100000"),
			TenureMonths:    12,
			InterestRatePct: dec("10.5"),
			MonthlyEMI:      dec("8814.87"),
			TotalInterest:   dec("5778.44"),
			TotalPayable:    dec("105778.44"),
		},
		valueobject.LoanApplicationStatusSanctioned, "", 1,
		older.CreatedAt().AddDate(0, 1, 0), older.CreatedAt().AddDate(0, 1, 0),
	)
	apps := &mockLoanApplicationRepository{
		listFunc: func(_ context.Context, customerID string) ([]model.LoanApplication, error) {
			if customerID != "cust-001" {
				return nil, nil
			}
			return []model.LoanApplication{unsigned, older}, nil
		},
	}

	t.Run("slip state and re-signed letters", func(t *testing.T) {
		customers := newCustomers()
		verifiedAt := older.CreatedAt()
		slipped, err := model.NewCustomerProfile("cust-001", 780, dec("80000"), dec("600000"), nil,
			model.SalarySlip{Verified: true, URL: "https://docs.example.test/slips/cust-001.pdf", VerifiedAt: &verifiedAt})
		require.NoError(t, err)
		customers.profiles["cust-001"] = slipped

		uc := usecase.NewListCustomerDocumentsUseCase(customers, apps, &mockDocumentStore{}, discardLogger())
		resp, err := uc.Execute(context.Background(), dto.ListCustomerDocumentsRequest{CustomerID: "cust-001"})

		require.NoError(t, err)
		assert.True(t, resp.SalarySlip.Verified)
		assert.Equal(t, "https://docs.example.test/slips/cust-001.pdf", resp.SalarySlip.SlipURL)
		require.NotNil(t, resp.SalarySlip.VerifiedAt)

		require.Len(t, resp.SanctionLetters, 1, "applications without a letter are skipped")
		letter := resp.SanctionLetters[0]
		assert.Equal(t, older.ID(), letter.ApplicationID)
		assert.Equal(t, "https://docs.example.test/sanction-letters/cust-001/"+older.ID()+".md?fresh", letter.URL)
		assert.Equal(t, "500000", letter.Amount.String())
		assert.Equal(t, "SANCTIONED", letter.Status)
	})

	t.Run("signing failure falls back to the issued link", func(t *testing.T) {
		store := &mockDocumentStore{urlErr: assert.AnError}
		uc := usecase.NewListCustomerDocumentsUseCase(newCustomers(), apps, store, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.ListCustomerDocumentsRequest{CustomerID: "cust-001"})

		require.NoError(t, err)
		require.Len(t, resp.SanctionLetters, 1)
		assert.Equal(t, older.SanctionDocumentURL(), resp.SanctionLetters[0].URL)
		assert.False(t, resp.SalarySlip.Verified)
	})

	t.Run("customer without letters gets an empty list", func(t *testing.T) {
		uc := usecase.NewListCustomerDocumentsUseCase(newCustomers(), apps, &mockDocumentStore{}, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.ListCustomerDocumentsRequest{CustomerID: "cust-002"})

		require.NoError(t, err)
		assert.NotNil(t, resp.SanctionLetters)
		assert.Empty(t, resp.SanctionLetters)
	})

	t.Run("unknown customer", func(t *testing.T) {
		uc := usecase.NewListCustomerDocumentsUseCase(newCustomers(), apps, &mockDocumentStore{}, discardLogger())

		_, err := uc.Execute(context.Background(), dto.ListCustomerDocumentsRequest{CustomerID: "nobody"})

		assert.ErrorIs(t, err, port.ErrCustomerNotFound)
	})
}
