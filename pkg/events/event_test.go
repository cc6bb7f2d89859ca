package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loanSanctioned struct {
	BaseEvent
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
}

func (e loanSanctioned) Payload() []byte { return EncodePayload(e) }

func TestNewBaseEvent(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))
	event := NewBaseEvent("origination.loan.sanctioned", "app-123", "LoanApplication", now)

	assert.NotEmpty(t, event.EventID())
	assert.Equal(t, "origination.loan.sanctioned", event.EventType())
	assert.Equal(t, "app-123", event.AggregateID())
	assert.Equal(t, "LoanApplication", event.AggregateType())
	assert.Equal(t, now.UTC(), event.OccurredAt())
	assert.Equal(t, time.UTC, event.OccurredAt().Location())
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	now := time.Now()
	a := NewBaseEvent("x", "1", "T", now)
	b := NewBaseEvent("x", "1", "T", now)
	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestEmbeddedEvent_PayloadOmitsBaseFields(t *testing.T) {
	e := loanSanctioned{
		BaseEvent:  NewBaseEvent("origination.loan.sanctioned", "app-123", "LoanApplication", time.Now()),
		CustomerID: "C001",
		Amount:     "500000.00",
	}
	var _ DomainEvent = e

	assert.JSONEq(t, `{"customer_id":"C001","amount":"500000.00"}`, string(e.Payload()))
}

func TestEncodePayload_Unencodable(t *testing.T) {
	assert.Nil(t, EncodePayload(make(chan int)))
}

func TestMarshal_Envelope(t *testing.T) {
	e := loanSanctioned{
		BaseEvent:  NewBaseEvent("origination.loan.sanctioned", "app-123", "LoanApplication", time.Now()),
		CustomerID: "C001",
		Amount:     "500000.00",
	}

	data, err := Marshal(e)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, e.EventID(), env.EventID)
	assert.Equal(t, "origination.loan.sanctioned", env.EventType)
	assert.Equal(t, "app-123", env.AggregateID)
	assert.Equal(t, "LoanApplication", env.AggregateType)
	assert.JSONEq(t, `{"customer_id":"C001","amount":"500000.00"}`, string(env.Payload))
}
