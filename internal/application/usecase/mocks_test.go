package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/event"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

type mockCustomerRepository struct {
	profiles     map[string]model.CustomerProfile
	kyc          map[string]model.KYCRecord
	findErr      error
	updateFunc   func(ctx context.Context, customerID string, slip model.SalarySlip) error
	updatedSlips map[string]model.SalarySlip
}

func (m *mockCustomerRepository) FindProfile(_ context.Context, customerID string) (model.CustomerProfile, error) {
	if m.findErr != nil {
		return model.CustomerProfile{}, m.findErr
	}
	p, ok := m.profiles[customerID]
	if !ok {
		return model.CustomerProfile{}, port.ErrCustomerNotFound
	}
	return p, nil
}

func (m *mockCustomerRepository) FindKYC(_ context.Context, customerID string) (model.KYCRecord, error) {
	k, ok := m.kyc[customerID]
	if !ok {
		return model.KYCRecord{}, port.ErrCustomerNotFound
	}
	return k, nil
}

func (m *mockCustomerRepository) UpdateSalarySlip(ctx context.Context, customerID string, slip model.SalarySlip) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, customerID, slip)
	}
	if m.updatedSlips == nil {
		m.updatedSlips = make(map[string]model.SalarySlip)
	}
	m.updatedSlips[customerID] = slip
	return nil
}

type mockLoanApplicationRepository struct {
	saveFunc     func(ctx context.Context, app model.LoanApplication) error
	findByIDFunc func(ctx context.Context, id string) (model.LoanApplication, error)
	listFunc     func(ctx context.Context, customerID string) ([]model.LoanApplication, error)
	savedApps    []model.LoanApplication
}

func (m *mockLoanApplicationRepository) Save(ctx context.Context, app model.LoanApplication) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, app)
	}
	m.savedApps = append(m.savedApps, app)
	return nil
}

func (m *mockLoanApplicationRepository) FindByID(ctx context.Context, id string) (model.LoanApplication, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.LoanApplication{}, port.ErrApplicationNotFound
}

func (m *mockLoanApplicationRepository) FindByCustomerID(ctx context.Context, customerID string) ([]model.LoanApplication, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, customerID)
	}
	return nil, nil
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishErr      error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockProfileCache struct {
	invalidated []string
}

func (m *mockProfileCache) Invalidate(_ context.Context, customerID string) error {
	m.invalidated = append(m.invalidated, customerID)
	return nil
}

type mockRenderer struct {
	renderErr error
	letters   []port.SanctionLetter
}

func (m *mockRenderer) RenderSanctionLetter(_ context.Context, letter port.SanctionLetter) ([]byte, string, error) {
	if m.renderErr != nil {
		return nil, "", m.renderErr
	}
	m.letters = append(m.letters, letter)
	return []byte("letter for " + letter.ApplicationID), "text/markdown; charset=utf-8", nil
}

type mockDocumentStore struct {
	putErr error
	urlErr error
	keys   []string
}

func (m *mockDocumentStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	m.keys = append(m.keys, key)
	return "https://docs.example.test/" + key, nil
}

func (m *mockDocumentStore) URL(_ context.Context, key string) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	return "https://docs.example.test/" + key + "?fresh", nil
}

type mockNotifier struct {
	mu        sync.Mutex
	notifyErr error
	block     chan struct{}
	sentTo    []string
	ctxErrs   []error
}

func (m *mockNotifier) NotifySanction(ctx context.Context, to string, _ port.SanctionLetter, _ string) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			m.mu.Lock()
			m.ctxErrs = append(m.ctxErrs, ctx.Err())
			m.mu.Unlock()
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentTo = append(m.sentTo, to)
	return m.notifyErr
}

func (m *mockNotifier) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sentTo...)
}

type mockRecorder struct {
	decisions []string
	sanctions []float64
}

func (m *mockRecorder) RecordDecision(_ context.Context, outcome, reason string) {
	m.decisions = append(m.decisions, outcome+"/"+reason)
}

func (m *mockRecorder) RecordSanction(_ context.Context, amount float64) {
	m.sanctions = append(m.sanctions, amount)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustProfile(id string, score int, salary, limit string, slipVerified bool) model.CustomerProfile {
	p, err := model.NewCustomerProfile(id, score, dec(salary), dec(limit), nil, model.SalarySlip{Verified: slipVerified})
	if err != nil {
		panic(err)
	}
	return p
}

func newCustomers() *mockCustomerRepository {
	return &mockCustomerRepository{
		profiles: map[string]model.CustomerProfile{
			"cust-001": mustProfile("cust-001", 780, "80000", "600000", false),
			"cust-002": mustProfile("cust-002", 780, "80000", "600000", true),
			"cust-003": mustProfile("cust-003", 650, "80000", "600000", false),
		},
		kyc: map[string]model.KYCRecord{
			"cust-001": {CustomerID: "cust-001", Name: "Asha Rao", Email: "asha@example.test", Verified: true},
			"cust-002": {CustomerID: "cust-002", Name: "Vikram Shah", Email: "vikram@example.test", Verified: true},
			"cust-003": {CustomerID: "cust-003", Name: "Neha Iyer", Verified: true},
		},
	}
}

func sanctionedApplication() model.LoanApplication {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return model.ReconstructLoanApplication(
		"3f2b6c1e-8d4a-4a57-9b0e-2c5d7e9f1a23", "cust-001",
		model.LoanTerms{
			Amount:          dec("500000"),
			TenureMonths:    36,
			InterestRatePct: dec("10.5"),
			MonthlyEMI:      dec("16251.22"),
			TotalInterest:   dec("85043.98"),
			TotalPayable:    dec("585043.98"),
		},
		valueobject.LoanApplicationStatusSanctioned,
		"https://docs.example.test/sanction-letters/cust-001/3f2b6c1e.md",
		2, now, now,
	)
}
