package renewal

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/shopspring/decimal"
)

// RenewalRequest is one proposal in the negotiation of a lease renewal. Counter
// proposals point backwards at the request they respond to.
type RenewalRequest struct {
	ID              string              `json:"id"`
	LeaseID         string              `json:"lease_id"`
	InitiatorUserID string              `json:"initiator_user_id"`
	InitiatorRole   types.PartyRole     `json:"initiator_role"`
	Status          types.RenewalStatus `json:"status"`

	ProposedTermMonths  *int             `json:"proposed_term_months,omitempty"`
	ProposedStartDate   *time.Time       `json:"proposed_start_date,omitempty"`
	ProposedMonthlyRent *decimal.Decimal `json:"proposed_monthly_rent,omitempty"`

	CounterOfID     *string    `json:"counter_of_id,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	DecidedByUserID *string    `json:"decided_by_user_id,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	Note            *string    `json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen returns true while the request occupies the lease's negotiation slot
func (r *RenewalRequest) IsOpen() bool {
	return r.Status.IsOpen()
}

// IsExpired returns true once the response window has passed, whether or not
// the sweeper has already recorded it
func (r *RenewalRequest) IsExpired(now time.Time) bool {
	if r.Status == types.RenewalStatusExpired {
		return true
	}
	return r.IsOpen() && now.After(r.ExpiresAt)
}

// IsActionable returns true if the request can still be countered, accepted or declined
func (r *RenewalRequest) IsActionable(now time.Time) bool {
	return r.IsOpen() && !r.IsExpired(now)
}

// HasTerms returns true if any of the proposal fields is set
func (r *RenewalRequest) HasTerms() bool {
	return r.ProposedTermMonths != nil || r.ProposedStartDate != nil || r.ProposedMonthlyRent != nil
}

// Terms resolves the proposal against the current lease, applying defaults
// for every field left open
func (r *RenewalRequest) Terms(current *lease.Lease, defaultTermMonths int) Terms {
	terms := Terms{
		TermMonths:  defaultTermMonths,
		StartDate:   current.DefaultRenewalStart(),
		MonthlyRent: current.RentAmount,
	}
	if r.ProposedTermMonths != nil {
		terms.TermMonths = *r.ProposedTermMonths
	}
	if r.ProposedStartDate != nil {
		terms.StartDate = *r.ProposedStartDate
	}
	if r.ProposedMonthlyRent != nil {
		terms.MonthlyRent = *r.ProposedMonthlyRent
	}
	terms.EndDate = terms.StartDate.AddDate(0, terms.TermMonths, 0)
	return terms
}

// Terms are the effective conditions of a renewal once defaults are applied
type Terms struct {
	TermMonths  int             `json:"term_months"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
}
