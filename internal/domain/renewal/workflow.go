package renewal

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// WorkflowState tells a caller which lifecycle actions are currently legal on a lease
type WorkflowState struct {
	LeaseID           string          `json:"lease_id"`
	Role              types.PartyRole `json:"role"`
	OpenRenewal       *RenewalRequest `json:"open_renewal,omitempty"`
	CanRequestRenewal bool            `json:"can_request_renewal"`
	CanProposeRenewal bool            `json:"can_propose_renewal"`
	CanCounterRenewal bool            `json:"can_counter_renewal"`
	CanAcceptRenewal  bool            `json:"can_accept_renewal"`
	CanDeclineRenewal bool            `json:"can_decline_renewal"`

	HasTerminationNotice     bool `json:"has_termination_notice"`
	CanGiveTerminationNotice bool `json:"can_give_termination_notice"`
}

// DeriveWorkflowState projects the open renewal of a lease onto the caller's
// role. open may be nil; an open request past its expiry counts as absent.
func DeriveWorkflowState(l *lease.Lease, open *RenewalRequest, auth party.AuthorizationContext, now time.Time) WorkflowState {
	state := WorkflowState{
		LeaseID:              l.ID,
		HasTerminationNotice: l.HasTerminationNotice(),
	}

	role, isParty := auth.Role()
	if !isParty {
		return state
	}
	state.Role = role

	if open != nil && !open.IsActionable(now) {
		open = nil
	}
	state.OpenRenewal = open

	if open == nil {
		state.CanRequestRenewal = auth.IsTenant && l.IsActive()
		state.CanProposeRenewal = auth.IsLandlord && l.IsActive()
	} else {
		differs := role != open.InitiatorRole
		state.CanCounterRenewal = differs
		state.CanDeclineRenewal = differs
		state.CanAcceptRenewal = auth.IsTenant && open.InitiatorRole == types.PartyRoleLandlord
	}

	state.CanGiveTerminationNotice = l.IsActive() && !l.HasTerminationNotice()
	return state
}
