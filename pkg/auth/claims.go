package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims accepted by the origination service.
// For customer tokens Subject is the customer ID.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// CanActFor reports whether the caller may read or change data belonging to
// customerID. Staff roles act for anyone; a customer only for themself.
func (c Claims) CanActFor(customerID string) bool {
	if c.HasRole(RoleAdmin) || c.HasRole(RoleUnderwriter) || c.HasRole(RoleSalesAgent) {
		return true
	}
	return c.HasRole(RoleCustomer) && c.Subject == customerID
}

// Role constants
const (
	RoleAdmin       = "admin"
	RoleUnderwriter = "underwriter"
	RoleSalesAgent  = "sales_agent"
	RoleCustomer    = "customer"
)
