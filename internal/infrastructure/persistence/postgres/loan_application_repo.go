package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/valueobject"
)

// LoanApplicationRepo implements port.LoanApplicationRepository.
type LoanApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewLoanApplicationRepo creates a new repository backed by PostgreSQL.
func NewLoanApplicationRepo(pool *pgxpool.Pool) *LoanApplicationRepo {
	return &LoanApplicationRepo{pool: pool}
}

// Save persists a loan application (upsert by ID with optimistic locking).
// Sanctioned terms are immutable; only status and document change on update.
func (r *LoanApplicationRepo) Save(ctx context.Context, app model.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (
			id, customer_id, amount, tenure_months, interest_rate,
			monthly_emi, total_interest, total_payable, status,
			sanction_document_url, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			status                = EXCLUDED.status,
			sanction_document_url = EXCLUDED.sanction_document_url,
			version               = loan_applications.version + 1,
			updated_at            = EXCLUDED.updated_at
		WHERE loan_applications.version = $11
	`
	tag, err := r.pool.Exec(ctx, query,
		app.ID(), app.CustomerID(), app.Amount(), app.TenureMonths(), app.InterestRatePct(),
		app.MonthlyEMI(), app.TotalInterest(), app.TotalPayable(), app.Status().String(),
		app.SanctionDocumentURL(), app.Version(), app.CreatedAt(), app.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan application %s: %w", app.ID(), port.ErrConcurrentUpdate)
	}
	return nil
}

const selectApplication = `
	SELECT id, customer_id, amount, tenure_months, interest_rate,
	       monthly_emi, total_interest, total_payable, status,
	       sanction_document_url, version, created_at, updated_at
	FROM loan_applications
`

// FindByID retrieves a single loan application.
func (r *LoanApplicationRepo) FindByID(ctx context.Context, id string) (model.LoanApplication, error) {
	app, err := r.scanOne(ctx, selectApplication+` WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanApplication{}, port.ErrApplicationNotFound
	}
	return app, err
}

// FindByCustomerID retrieves all applications of a customer, newest first.
func (r *LoanApplicationRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.LoanApplication, error) {
	return r.scanMany(ctx, selectApplication+` WHERE customer_id = $1 ORDER BY created_at DESC, id`, customerID)
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func (r *LoanApplicationRepo) scanOne(ctx context.Context, query string, args ...any) (model.LoanApplication, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	return scanApplication(row)
}

func (r *LoanApplicationRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.LoanApplication, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loan applications: %w", err)
	}
	defer rows.Close()

	var result []model.LoanApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func scanApplication(s scannable) (model.LoanApplication, error) {
	var (
		id, customerID       string
		terms                model.LoanTerms
		statusStr, docURL    string
		version              int
		createdAt, updatedAt time.Time
		amount, rate         decimal.Decimal
	)

	err := s.Scan(
		&id, &customerID, &amount, &terms.TenureMonths, &rate,
		&terms.MonthlyEMI, &terms.TotalInterest, &terms.TotalPayable, &statusStr,
		&docURL, &version, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanApplication{}, err
	}
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("scan loan application: %w", err)
	}
	terms.Amount = amount
	terms.InterestRatePct = rate

	status, err := valueobject.NewLoanApplicationStatus(statusStr)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse status: %w", err)
	}

	return model.ReconstructLoanApplication(
		id, customerID, terms, status, docURL, version, createdAt.UTC(), updatedAt.UTC(),
	), nil
}
