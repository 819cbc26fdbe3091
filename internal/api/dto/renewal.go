package dto

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/validator"
	"github.com/shopspring/decimal"
)

// RenewalProposal carries the optional terms of a renewal or counter proposal
type RenewalProposal struct {
	ProposedTermMonths  *int             `json:"proposed_term_months,omitempty" validate:"omitempty,min=1"`
	ProposedStartDate   *time.Time       `json:"proposed_start_date,omitempty"`
	ProposedMonthlyRent *decimal.Decimal `json:"proposed_monthly_rent,omitempty" validate:"omitempty,gt=0"`
	Note                *string          `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// HasTerms returns true if the proposal dictates any term
func (p *RenewalProposal) HasTerms() bool {
	return p.ProposedTermMonths != nil || p.ProposedStartDate != nil || p.ProposedMonthlyRent != nil
}

// SetsPrice returns true if the proposal carries a rent
func (p *RenewalProposal) SetsPrice() bool {
	return p.ProposedMonthlyRent != nil
}

// Validate checks the proposal against the current lease and the maximum term
func (p *RenewalProposal) Validate(current *lease.Lease, maxTermMonths int) error {
	if err := validator.ValidateRequest(p); err != nil {
		return err
	}

	if p.ProposedMonthlyRent != nil && !p.ProposedMonthlyRent.IsPositive() {
		return ierr.NewError("proposed monthly rent must be positive").
			WithHint("Proposed monthly rent must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"proposed_monthly_rent": p.ProposedMonthlyRent.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if p.ProposedTermMonths != nil && *p.ProposedTermMonths > maxTermMonths {
		return ierr.NewErrorf("proposed term of %d months exceeds %d", *p.ProposedTermMonths, maxTermMonths).
			WithHintf("Renewal term must be between 1 and %d months", maxTermMonths).
			WithReportableDetails(map[string]interface{}{
				"proposed_term_months": *p.ProposedTermMonths,
				"max_term_months":      maxTermMonths,
			}).
			Mark(ierr.ErrValidation)
	}

	if p.ProposedStartDate != nil && p.ProposedStartDate.Before(current.StartDate) {
		return ierr.NewError("proposed start date is before the current lease start").
			WithHint("Renewal cannot start before the current lease started").
			WithReportableDetails(map[string]interface{}{
				"proposed_start_date": p.ProposedStartDate,
				"lease_start_date":    current.StartDate,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToRenewalRequest builds a new request in the given status
func (p *RenewalProposal) ToRenewalRequest(
	leaseID string,
	initiatorUserID string,
	initiatorRole types.PartyRole,
	status types.RenewalStatus,
	now time.Time,
	expiresAt time.Time,
) *renewal.RenewalRequest {
	req := &renewal.RenewalRequest{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RENEWAL_REQUEST),
		LeaseID:             leaseID,
		InitiatorUserID:     initiatorUserID,
		InitiatorRole:       initiatorRole,
		Status:              status,
		ProposedTermMonths:  p.ProposedTermMonths,
		ProposedMonthlyRent: p.ProposedMonthlyRent,
		Note:                p.Note,
		ExpiresAt:           expiresAt.UTC(),
		CreatedAt:           now.UTC(),
		UpdatedAt:           now.UTC(),
	}
	if p.ProposedStartDate != nil {
		start := p.ProposedStartDate.UTC()
		req.ProposedStartDate = &start
	}
	return req
}

type CreateRenewalRequest struct {
	RenewalProposal
}

type CounterRenewalRequest struct {
	RenewalProposal
}

type RenewalRequestResponse struct {
	*renewal.RenewalRequest
}

func NewRenewalRequestResponse(r *renewal.RenewalRequest) *RenewalRequestResponse {
	return &RenewalRequestResponse{RenewalRequest: r}
}

type ListRenewalRequestsResponse struct {
	Items []*RenewalRequestResponse `json:"items"`
}

// AcceptRenewalResponse returns the accepted request with the lease it materialized
type AcceptRenewalResponse struct {
	Request  *RenewalRequestResponse `json:"request"`
	NewLease *LeaseResponse          `json:"new_lease"`
}

type WorkflowStateResponse struct {
	renewal.WorkflowState
}

type LeaseResponse struct {
	*lease.Lease
}

func NewLeaseResponse(l *lease.Lease) *LeaseResponse {
	return &LeaseResponse{Lease: l}
}
