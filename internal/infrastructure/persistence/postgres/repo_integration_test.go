//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/loan-origination/migrations"
	"github.com/bibbank/loan-origination/pkg/testutil"
)

func setup(t *testing.T) *testutil.PostgresContainer {
	t.Helper()
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pc.Cleanup(t) })
	pc.ApplyMigrations(t, migrations.FS, ".")

	_, err := pc.Pool.Exec(ctx, `
		INSERT INTO customers (id, name, phone, email, address, kyc_verified, credit_score, monthly_salary, preapproved_limit)
		VALUES ('cust-001', 'Asha Rao', '+91-9800000001', 'asha@example.test', 'Pune', TRUE, 780, 80000.00, 600000.00),
		       ('cust-002', 'Vikram Shah', '+91-9800000002', '', 'Surat', TRUE, 720, 0.00, 200000.00)
	`)
	require.NoError(t, err)
	_, err = pc.Pool.Exec(ctx, `
		INSERT INTO existing_loans (customer_id, loan_type, emi, remaining_months)
		VALUES ('cust-001', 'car', 12000.50, 24), ('cust-001', 'card', 3000.00, 6)
	`)
	require.NoError(t, err)
	return pc
}

func TestCustomerRepo(t *testing.T) {
	pc := setup(t)
	repo := postgres.NewCustomerRepo(pc.Pool)
	ctx := context.Background()

	t.Run("profile with obligations", func(t *testing.T) {
		p, err := repo.FindProfile(ctx, "cust-001")
		require.NoError(t, err)
		assert.Equal(t, 780, p.CreditScore())
		testutil.AssertMoney(t, "80000.00", p.MonthlySalary())
		assert.Len(t, p.Obligations(), 2)
		testutil.AssertMoney(t, "15000.50", p.ExistingEMITotal())
		assert.False(t, p.SalarySlip().Verified)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := repo.FindProfile(ctx, "cust-404")
		assert.ErrorIs(t, err, port.ErrCustomerNotFound)
	})

	t.Run("kyc", func(t *testing.T) {
		k, err := repo.FindKYC(ctx, "cust-001")
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", k.Name)
		assert.True(t, k.Verified)
	})

	t.Run("salary slip update is audited", func(t *testing.T) {
		pc.Truncate(ctx, t, "salary_slip_verifications")
		now := time.Now().UTC().Truncate(time.Microsecond)
		err := repo.UpdateSalarySlip(ctx, "cust-001", model.SalarySlip{
			Verified: true, URL: "https://uploads.example.test/slip.pdf", VerifiedAt: &now,
		})
		require.NoError(t, err)

		p, err := repo.FindProfile(ctx, "cust-001")
		require.NoError(t, err)
		assert.True(t, p.SalarySlip().Verified)
		require.NotNil(t, p.SalarySlip().VerifiedAt)
		assert.True(t, now.Equal(*p.SalarySlip().VerifiedAt))

		var audits int
		require.NoError(t, pc.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM salary_slip_verifications WHERE customer_id = 'cust-001'`).Scan(&audits))
		assert.Equal(t, 1, audits)
	})

	t.Run("salary slip for unknown customer", func(t *testing.T) {
		err := repo.UpdateSalarySlip(ctx, "cust-404", model.SalarySlip{Verified: true})
		assert.ErrorIs(t, err, port.ErrCustomerNotFound)
	})
}

func TestLoanApplicationRepo(t *testing.T) {
	pc := setup(t)
	repo := postgres.NewLoanApplicationRepo(pc.Pool)
	ctx := context.Background()

	terms := model.LoanTerms{
		Amount:          decimal.RequireFromString("500000"),
		TenureMonths:    36,
		InterestRatePct: decimal.RequireFromString("10.5"),
		MonthlyEMI:      decimal.RequireFromString("16251.22"),
		TotalInterest:   decimal.RequireFromString("85043.98"),
		TotalPayable:    decimal.RequireFromString("585043.98"),
	}
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first, err := model.NewLoanApplication("cust-001", terms, created)
	require.NoError(t, err)
	second, err := model.NewLoanApplication("cust-001", terms, created.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.FindByID(ctx, first.ID())
		require.NoError(t, err)
		assert.Equal(t, "cust-001", got.CustomerID())
		assert.Equal(t, "SANCTIONED", got.Status().String())
		testutil.AssertDecimal(t, "10.5", got.InterestRatePct())
		testutil.AssertMoney(t, "16251.22", got.MonthlyEMI())
		assert.True(t, created.Equal(got.CreatedAt()))
	})

	t.Run("newest first", func(t *testing.T) {
		apps, err := repo.FindByCustomerID(ctx, "cust-001")
		require.NoError(t, err)
		require.Len(t, apps, 2)
		assert.Equal(t, second.ID(), apps[0].ID())
	})

	t.Run("status update and stale write", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, first.ID())
		require.NoError(t, err)

		disbursed, err := loaded.MarkDisbursed(created.Add(24 * time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, disbursed))

		cancelled, err := loaded.Cancel("duplicate", created.Add(25*time.Hour))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, cancelled), port.ErrConcurrentUpdate)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "5d0c7f0a-1111-4222-8333-944455556666")
		assert.ErrorIs(t, err, port.ErrApplicationNotFound)
	})
}
