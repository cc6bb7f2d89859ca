package residency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecker_CheckStorage(t *testing.T) {
	c := NewChecker(nil)

	tests := []struct {
		name    string
		j       Jurisdiction
		loc     StorageLocation
		wantErr string
	}{
		{"mumbai over TLS", JurisdictionIN, StorageLocation{Region: "ap-south-1", Secure: true}, ""},
		{"self-hosted over TLS", JurisdictionIN, StorageLocation{Secure: true}, ""},
		{"offshore region", JurisdictionIN, StorageLocation{Region: "us-east-1", Secure: true}, "region us-east-1 is not allowed"},
		{"plaintext", JurisdictionIN, StorageLocation{Region: "ap-south-1"}, "requires TLS"},
		{"unknown jurisdiction", Jurisdiction("XX"), StorageLocation{Secure: true}, "unknown jurisdiction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CheckStorage(tt.j, tt.loc)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrViolation)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestChecker_ReportsAllViolations(t *testing.T) {
	err := NewChecker(nil).CheckStorage(JurisdictionIN, StorageLocation{Region: "eu-west-1"})
	assert.ErrorContains(t, err, "not allowed")
	assert.ErrorContains(t, err, "requires TLS")
}

func TestChecker_CustomRules(t *testing.T) {
	c := NewChecker(map[Jurisdiction]Rule{
		JurisdictionIN: {Jurisdiction: JurisdictionIN, AllowedRegions: []string{"on-prem-bom"}},
	})
	assert.NoError(t, c.CheckStorage(JurisdictionIN, StorageLocation{Region: "on-prem-bom"}))
}
