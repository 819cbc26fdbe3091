package lease

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/shopspring/decimal"
)

// Lease represents one occupancy term of a tenant group in a unit
type Lease struct {
	ID            string            `json:"id"`
	Status        types.LeaseStatus `json:"status"`
	StartDate     time.Time         `json:"start_date"`
	EndDate       time.Time         `json:"end_date"`
	RentAmount    decimal.Decimal   `json:"rent_amount"`
	DepositAmount decimal.Decimal   `json:"deposit_amount"`

	TenantGroupID   string  `json:"tenant_group_id"`
	UnitID          string  `json:"unit_id"`
	PropertyID      string  `json:"property_id"`
	OfferID         string  `json:"offer_id"`
	RentalRequestID *string `json:"rental_request_id,omitempty"`

	// ParentLeaseID points at the lease this one renewed from
	ParentLeaseID        *string         `json:"parent_lease_id,omitempty"`
	LeaseType            types.LeaseType `json:"lease_type"`
	RenewalEffectiveDate *time.Time      `json:"renewal_effective_date,omitempty"`

	// Termination intent is recorded in place; status stays ACTIVE until the effective date
	TerminationNoticeByUserID *string    `json:"termination_notice_by_user_id,omitempty"`
	TerminationNoticeDate     *time.Time `json:"termination_notice_date,omitempty"`
	TerminationReason         *string    `json:"termination_reason,omitempty"`
	TerminationEffectiveDate  *time.Time `json:"termination_effective_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive returns true if the lease currently governs the occupancy
func (l *Lease) IsActive() bool {
	return l.Status == types.LeaseStatusActive
}

// HasTerminationNotice returns true once a termination notice was recorded
func (l *Lease) HasTerminationNotice() bool {
	return l.TerminationNoticeDate != nil
}

// DefaultRenewalStart is the day after the current term ends
func (l *Lease) DefaultRenewalStart() time.Time {
	return l.EndDate.AddDate(0, 0, 1)
}

// Unit is a rentable space of a property. Renewals clone units instead of reusing them.
type Unit struct {
	ID               string          `json:"id"`
	PropertyID       string          `json:"property_id"`
	UnitNumber       string          `json:"unit_number"`
	Floor            *int            `json:"floor,omitempty"`
	Bedrooms         int             `json:"bedrooms"`
	Bathrooms        int             `json:"bathrooms"`
	Area             decimal.Decimal `json:"area"`
	RentAmount       decimal.Decimal `json:"rent_amount"`
	ClonedFromUnitID *string         `json:"cloned_from_unit_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
