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
	pgpkg "github.com/bibbank/loan-origination/pkg/postgres"
)

// CustomerRepo implements port.CustomerRepository over the CRM tables.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new repository backed by PostgreSQL.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// FindProfile loads the underwriting view of a customer together with the
// EMIs of their existing loans.
func (r *CustomerRepo) FindProfile(ctx context.Context, customerID string) (model.CustomerProfile, error) {
	const profileQuery = `
		SELECT id, credit_score, monthly_salary, preapproved_limit,
		       salary_slip_verified, salary_slip_url, salary_slip_verified_at
		FROM customers
		WHERE id = $1
	`
	var (
		id             string
		creditScore    int
		salary, limit  decimal.Decimal
		slip           model.SalarySlip
		slipVerifiedAt *time.Time
	)
	err := r.pool.QueryRow(ctx, profileQuery, customerID).Scan(
		&id, &creditScore, &salary, &limit,
		&slip.Verified, &slip.URL, &slipVerifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CustomerProfile{}, port.ErrCustomerNotFound
	}
	if err != nil {
		return model.CustomerProfile{}, fmt.Errorf("query customer: %w", err)
	}
	slip.VerifiedAt = slipVerifiedAt

	obligations, err := r.findObligations(ctx, r.pool, customerID)
	if err != nil {
		return model.CustomerProfile{}, err
	}

	profile, err := model.NewCustomerProfile(id, creditScore, salary, limit, obligations, slip)
	if err != nil {
		return model.CustomerProfile{}, fmt.Errorf("build profile %s: %w", id, err)
	}
	return profile, nil
}

func (r *CustomerRepo) findObligations(ctx context.Context, q pgpkg.Querier, customerID string) ([]model.Obligation, error) {
	const query = `
		SELECT loan_type, emi, remaining_months
		FROM existing_loans
		WHERE customer_id = $1
		ORDER BY id
	`
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query existing loans: %w", err)
	}
	defer rows.Close()

	var result []model.Obligation
	for rows.Next() {
		var o model.Obligation
		if err := rows.Scan(&o.Type, &o.EMI, &o.RemainingMonths); err != nil {
			return nil, fmt.Errorf("scan existing loan: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

// FindKYC returns the customer's identity record.
func (r *CustomerRepo) FindKYC(ctx context.Context, customerID string) (model.KYCRecord, error) {
	const query = `
		SELECT id, name, phone, email, address, kyc_verified
		FROM customers
		WHERE id = $1
	`
	var k model.KYCRecord
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&k.CustomerID, &k.Name, &k.Phone, &k.Email, &k.Address, &k.Verified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.KYCRecord{}, port.ErrCustomerNotFound
	}
	if err != nil {
		return model.KYCRecord{}, fmt.Errorf("query kyc: %w", err)
	}
	return k, nil
}

// UpdateSalarySlip stores the verification state and appends an audit row,
// both under a row lock on the customer.
func (r *CustomerRepo) UpdateSalarySlip(ctx context.Context, customerID string, slip model.SalarySlip) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, `SELECT id FROM customers WHERE id = $1 FOR UPDATE`, customerID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return port.ErrCustomerNotFound
		}
		if err != nil {
			return fmt.Errorf("lock customer: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE customers SET
				salary_slip_verified    = $2,
				salary_slip_url         = $3,
				salary_slip_verified_at = $4,
				updated_at              = NOW()
			WHERE id = $1
		`, customerID, slip.Verified, slip.URL, slip.VerifiedAt); err != nil {
			return fmt.Errorf("update salary slip: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO salary_slip_verifications (customer_id, verified, slip_url)
			VALUES ($1, $2, $3)
		`, customerID, slip.Verified, slip.URL); err != nil {
			return fmt.Errorf("insert salary slip audit: %w", err)
		}
		return nil
	})
}
