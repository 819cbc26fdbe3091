package party

import (
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// AuthorizationContext is the flat role view of one caller on one lease
type AuthorizationContext struct {
	UserID     string `json:"user_id"`
	IsTenant   bool   `json:"is_tenant"`
	IsLandlord bool   `json:"is_landlord"`
	// IsOwner is set for landlord-side callers holding the OWNER role
	IsOwner    bool   `json:"is_owner"`
	TenantID   string `json:"tenant_id"`
	LandlordID string `json:"landlord_id"`
}

// Resolve derives the caller's role on the lease. A user who is both the
// primary tenant and an organization member is treated as tenant only.
func Resolve(parties *LeaseParties, userID string) AuthorizationContext {
	auth := AuthorizationContext{UserID: userID}
	if parties == nil {
		return auth
	}

	auth.TenantID = parties.PrimaryTenantID()
	auth.LandlordID = parties.OwnerID()

	if userID == "" {
		return auth
	}

	if auth.TenantID == userID {
		auth.IsTenant = true
		return auth
	}

	if member, ok := parties.Member(userID); ok {
		auth.IsLandlord = true
		auth.IsOwner = member.Role == types.OrganizationRoleOwner
	}
	return auth
}

// IsParty reports whether the caller plays any role on the lease
func (a AuthorizationContext) IsParty() bool {
	return a.IsTenant || a.IsLandlord
}

// Role returns the caller's role; ok is false for outsiders
func (a AuthorizationContext) Role() (types.PartyRole, bool) {
	switch {
	case a.IsTenant:
		return types.PartyRoleTenant, true
	case a.IsLandlord:
		return types.PartyRoleLandlord, true
	}
	return "", false
}

// CounterpartID returns the user that should hear about the caller's actions
func (a AuthorizationContext) CounterpartID() string {
	if a.IsTenant {
		return a.LandlordID
	}
	return a.TenantID
}
