package types

import (
	"github.com/samber/lo"
)

// RenewalStatus is the state of one proposal in a renewal negotiation
type RenewalStatus string

const (
	RenewalStatusPending   RenewalStatus = "PENDING"
	RenewalStatusCountered RenewalStatus = "COUNTERED"
	RenewalStatusAccepted  RenewalStatus = "ACCEPTED"
	RenewalStatusDeclined  RenewalStatus = "DECLINED"
	RenewalStatusCancelled RenewalStatus = "CANCELLED"
	RenewalStatusExpired   RenewalStatus = "EXPIRED"
)

// OpenRenewalStatuses are the statuses occupying the single negotiation slot of a lease
var OpenRenewalStatuses = []RenewalStatus{
	RenewalStatusPending,
	RenewalStatusCountered,
}

func (s RenewalStatus) String() string {
	return string(s)
}

// IsOpen reports whether the status occupies the lease's negotiation slot
func (s RenewalStatus) IsOpen() bool {
	return lo.Contains(OpenRenewalStatuses, s)
}

// IsTerminal reports whether no further transition is possible
func (s RenewalStatus) IsTerminal() bool {
	switch s {
	case RenewalStatusAccepted, RenewalStatusDeclined, RenewalStatusCancelled, RenewalStatusExpired:
		return true
	}
	return false
}

// PartyRole identifies which side of a lease a user acts for
type PartyRole string

const (
	PartyRoleTenant   PartyRole = "TENANT"
	PartyRoleLandlord PartyRole = "LANDLORD"
)

// Opposite returns the counterpart role
func (r PartyRole) Opposite() PartyRole {
	if r == PartyRoleTenant {
		return PartyRoleLandlord
	}
	return PartyRoleTenant
}

// OrganizationRole is the membership role of a landlord-side user
type OrganizationRole string

const (
	OrganizationRoleOwner  OrganizationRole = "OWNER"
	OrganizationRoleAdmin  OrganizationRole = "ADMIN"
	OrganizationRoleMember OrganizationRole = "MEMBER"
)
