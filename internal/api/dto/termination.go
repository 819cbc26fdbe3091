package dto

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/policy"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/validator"
)

// CreateTerminationRequest gives termination notice. A missing end date means
// the earliest date the policy allows.
type CreateTerminationRequest struct {
	ProposedEndDate *time.Time `json:"proposed_end_date,omitempty"`
	Reason          string     `json:"reason" validate:"max=2000"`
}

func (r *CreateTerminationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// TerminationPolicyResponse previews the policy that applies to a lease right now
type TerminationPolicyResponse struct {
	Policy          policy.TerminationPolicy `json:"policy"`
	EarliestEndDate time.Time                `json:"earliest_end_date"`
	// EarliestEndDay is the earliest end as a calendar date in the policy zone
	EarliestEndDay string `json:"earliest_end_day"`
	Explanation    string `json:"explanation"`
}

type TerminationResponse struct {
	Lease           *LeaseResponse `json:"lease"`
	EffectiveDate   time.Time      `json:"effective_date"`
	EarliestEndDate time.Time      `json:"earliest_end_date"`
	Explanation     string         `json:"explanation"`
}
