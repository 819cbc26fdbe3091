package party

import (
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// LeaseParties is the hydrated membership graph of a lease:
// lease → tenant group → members and lease → offer → organization → members
type LeaseParties struct {
	LeaseID             string               `json:"lease_id"`
	TenantGroupID       string               `json:"tenant_group_id"`
	TenantGroupMembers  []TenantGroupMember  `json:"tenant_group_members"`
	OfferID             string               `json:"offer_id"`
	OrganizationID      string               `json:"organization_id"`
	OrganizationMembers []OrganizationMember `json:"organization_members"`
}

// TenantGroupMember is one occupant of a tenant group
type TenantGroupMember struct {
	UserID    string `json:"user_id"`
	IsPrimary bool   `json:"is_primary"`
}

// OrganizationMember is one landlord-side user of the organization owning the offer
type OrganizationMember struct {
	UserID string                 `json:"user_id"`
	Role   types.OrganizationRole `json:"role"`
}

// PrimaryTenantID returns the primary occupant, the sole tenant-side authority
func (p *LeaseParties) PrimaryTenantID() string {
	for _, m := range p.TenantGroupMembers {
		if m.IsPrimary {
			return m.UserID
		}
	}
	return ""
}

// OwnerID returns the first OWNER of the organization, falling back to the first member
func (p *LeaseParties) OwnerID() string {
	for _, m := range p.OrganizationMembers {
		if m.Role == types.OrganizationRoleOwner {
			return m.UserID
		}
	}
	if len(p.OrganizationMembers) > 0 {
		return p.OrganizationMembers[0].UserID
	}
	return ""
}

// Member looks up the organization membership of a user
func (p *LeaseParties) Member(userID string) (OrganizationMember, bool) {
	for _, m := range p.OrganizationMembers {
		if m.UserID == userID {
			return m, true
		}
	}
	return OrganizationMember{}, false
}
