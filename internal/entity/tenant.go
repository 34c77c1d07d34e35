package entity

import (
	"errors"
	"strings"
)

var (
	ErrTenantRequired = errors.New("organization_id and branch_id are required")

	// ErrUnknownTenant is returned by stores when the organization or branch
	// does not exist.
	ErrUnknownTenant = errors.New("organization or branch does not exist")

	// ErrInvalidID is returned by stores for ids they cannot parse.
	ErrInvalidID = errors.New("invalid id")
)

// Tenant is the organization/branch pair that scopes every CRM row.
type Tenant struct {
	OrganizationID string `json:"organization_id"`
	BranchID       string `json:"branch_id"`
}

func NewTenant(organizationID, branchID string) (Tenant, error) {
	t := Tenant{
		OrganizationID: strings.TrimSpace(organizationID),
		BranchID:       strings.TrimSpace(branchID),
	}
	if err := t.Validate(); err != nil {
		return Tenant{}, err
	}
	return t, nil
}

func (t Tenant) Validate() error {
	if t.OrganizationID == "" || t.BranchID == "" {
		return ErrTenantRequired
	}
	return nil
}
