// Package cache keeps underwriting profiles in Redis in front of the CRM store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/internal/domain/model"
	"github.com/bibbank/loan-origination/internal/domain/port"
)

const profileKeyPrefix = "origination:profile:"

// profileJSON is the cached representation of a CustomerProfile.
type profileJSON struct {
	CustomerID       string           `json:"customer_id"`
	CreditScore      int              `json:"credit_score"`
	MonthlySalary    decimal.Decimal  `json:"monthly_salary"`
	PreApprovedLimit decimal.Decimal  `json:"preapproved_limit"`
	Obligations      []obligationJSON `json:"obligations,omitempty"`
	SlipVerified     bool             `json:"slip_verified"`
	SlipURL          string           `json:"slip_url,omitempty"`
	SlipVerifiedAt   *time.Time       `json:"slip_verified_at,omitempty"`
}

type obligationJSON struct {
	Type            string          `json:"type"`
	EMI             decimal.Decimal `json:"emi"`
	RemainingMonths int             `json:"remaining_months"`
}

func profileToJSON(p model.CustomerProfile) profileJSON {
	j := profileJSON{
		CustomerID:       p.CustomerID(),
		CreditScore:      p.CreditScore(),
		MonthlySalary:    p.MonthlySalary(),
		PreApprovedLimit: p.PreApprovedLimit(),
		SlipVerified:     p.SalarySlip().Verified,
		SlipURL:          p.SalarySlip().URL,
		SlipVerifiedAt:   p.SalarySlip().VerifiedAt,
	}
	for _, o := range p.Obligations() {
		j.Obligations = append(j.Obligations, obligationJSON{Type: o.Type, EMI: o.EMI, RemainingMonths: o.RemainingMonths})
	}
	return j
}

func profileFromJSON(j profileJSON) (model.CustomerProfile, error) {
	obligations := make([]model.Obligation, 0, len(j.Obligations))
	for _, o := range j.Obligations {
		obligations = append(obligations, model.Obligation{Type: o.Type, EMI: o.EMI, RemainingMonths: o.RemainingMonths})
	}
	return model.NewCustomerProfile(
		j.CustomerID, j.CreditScore, j.MonthlySalary, j.PreApprovedLimit, obligations,
		model.SalarySlip{Verified: j.SlipVerified, URL: j.SlipURL, VerifiedAt: j.SlipVerifiedAt},
	)
}

// CachedCustomerRepository decorates a CustomerRepository with a read-through
// Redis cache for profiles. Redis failures degrade to the underlying store.
type CachedCustomerRepository struct {
	next   port.CustomerRepository
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var (
	_ port.CustomerRepository = (*CachedCustomerRepository)(nil)
	_ port.ProfileCache       = (*CachedCustomerRepository)(nil)
)

// NewCachedCustomerRepository wraps next. A non-positive ttl disables expiry.
func NewCachedCustomerRepository(
	next port.CustomerRepository,
	client redis.UniversalClient,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedCustomerRepository {
	return &CachedCustomerRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func profileKey(customerID string) string {
	return profileKeyPrefix + customerID
}

// FindProfile serves from Redis when possible and fills the cache on a miss.
func (c *CachedCustomerRepository) FindProfile(ctx context.Context, customerID string) (model.CustomerProfile, error) {
	raw, err := c.client.Get(ctx, profileKey(customerID)).Bytes()
	switch {
	case err == nil:
		var j profileJSON
		if uerr := json.Unmarshal(raw, &j); uerr == nil {
			if p, perr := profileFromJSON(j); perr == nil {
				return p, nil
			}
		}
		c.logger.WarnContext(ctx, "discarding unreadable cached profile", "customer_id", customerID)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.WarnContext(ctx, "profile cache read failed", "customer_id", customerID, "error", err)
	}

	p, err := c.next.FindProfile(ctx, customerID)
	if err != nil {
		return model.CustomerProfile{}, err
	}

	if data, merr := json.Marshal(profileToJSON(p)); merr == nil {
		ttl := c.ttl
		if ttl < 0 {
			ttl = 0
		}
		if serr := c.client.Set(ctx, profileKey(customerID), data, ttl).Err(); serr != nil {
			c.logger.WarnContext(ctx, "profile cache write failed", "customer_id", customerID, "error", serr)
		}
	}
	return p, nil
}

func (c *CachedCustomerRepository) FindKYC(ctx context.Context, customerID string) (model.KYCRecord, error) {
	return c.next.FindKYC(ctx, customerID)
}

// UpdateSalarySlip writes through and drops the cached profile.
func (c *CachedCustomerRepository) UpdateSalarySlip(ctx context.Context, customerID string, slip model.SalarySlip) error {
	if err := c.next.UpdateSalarySlip(ctx, customerID, slip); err != nil {
		return err
	}
	if err := c.Invalidate(ctx, customerID); err != nil {
		c.logger.WarnContext(ctx, "profile cache invalidation failed", "customer_id", customerID, "error", err)
	}
	return nil
}

// Invalidate removes the cached profile of customerID.
func (c *CachedCustomerRepository) Invalidate(ctx context.Context, customerID string) error {
	if err := c.client.Del(ctx, profileKey(customerID)).Err(); err != nil {
		return fmt.Errorf("invalidate profile %s: %w", customerID, err)
	}
	return nil
}
