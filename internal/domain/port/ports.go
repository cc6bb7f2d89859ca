package port

import (
	"context"
	"errors"
	"time"

	"github.com/bibbank/loan-origination/internal/domain/event"
	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/service"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrApplicationNotFound = errors.New("loan application not found")
	ErrConcurrentUpdate    = errors.New("concurrent update")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CustomerRepository reads customer data from the CRM store.
type CustomerRepository interface {
	// FindProfile returns ErrCustomerNotFound when no such customer exists.
	FindProfile(ctx context.Context, customerID string) (model.CustomerProfile, error)
	FindKYC(ctx context.Context, customerID string) (model.KYCRecord, error)
	UpdateSalarySlip(ctx context.Context, customerID string, slip model.SalarySlip) error
}

// LoanApplicationRepository persists and retrieves loan applications.
type LoanApplicationRepository interface {
	Save(ctx context.Context, app model.LoanApplication) error
	FindByID(ctx context.Context, id string) (model.LoanApplication, error)
	// FindByCustomerID returns the customer's applications, newest first.
	FindByCustomerID(ctx context.Context, customerID string) ([]model.LoanApplication, error)
}

// ProfileCache is a read-through cache in front of CustomerRepository.FindProfile.
type ProfileCache interface {
	Invalidate(ctx context.Context, customerID string) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Document ports
// ---------------------------------------------------------------------------

// SanctionLetter is everything printed on a sanction letter.
type SanctionLetter struct {
	ApplicationID string
	Customer      model.KYCRecord
	Figures       service.SanctionFigures
	Schedule      []model.AmortizationEntry
	IssuedAt      time.Time
}

// DocumentRenderer turns a sanction letter into a document body.
type DocumentRenderer interface {
	RenderSanctionLetter(ctx context.Context, letter SanctionLetter) (body []byte, contentType string, err error)
}

// DocumentStore keeps rendered documents in private storage and hands back
// time-limited download links.
type DocumentStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (url string, err error)
	URL(ctx context.Context, key string) (string, error)
}

// Notifier tells the customer their loan was sanctioned.
type Notifier interface {
	NotifySanction(ctx context.Context, to string, letter SanctionLetter, documentURL string) error
}
