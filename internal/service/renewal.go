package service

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/api/dto"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

// RenewalService negotiates lease renewals between the tenant and the landlord.
// A lease has at most one open request; every step replaces or closes it.
type RenewalService interface {
	// Create opens a renewal negotiation. Tenants may only ask for a renewal,
	// landlords may propose terms and only owners may propose a rent.
	Create(ctx context.Context, leaseID string, req *dto.CreateRenewalRequest) (*dto.RenewalRequestResponse, error)

	// Counter answers the open request of the other party with a new proposal
	Counter(ctx context.Context, requestID string, req *dto.CounterRenewalRequest) (*dto.RenewalRequestResponse, error)

	// Accept is available to the tenant only and materializes the renewed lease
	Accept(ctx context.Context, requestID string) (*dto.AcceptRenewalResponse, error)

	// Decline closes the open request. Either party may decline.
	Decline(ctx context.Context, requestID string) (*dto.RenewalRequestResponse, error)

	// ListForLease returns the negotiation history of a lease
	ListForLease(ctx context.Context, leaseID string) (*dto.ListRenewalRequestsResponse, error)

	// GetWorkflowState tells the caller which renewal and termination actions are available
	GetWorkflowState(ctx context.Context, leaseID string) (*dto.WorkflowStateResponse, error)
}

type renewalService struct {
	ServiceParams
}

func NewRenewalService(params ServiceParams) RenewalService {
	return &renewalService{ServiceParams: params}
}

func (s *renewalService) authz() AuthorizationService {
	return NewAuthorizationService(s.ServiceParams)
}

func (s *renewalService) expiresAt(now time.Time) time.Time {
	return now.AddDate(0, 0, s.Config.Renewal.ExpiryDays)
}

func (s *renewalService) leaseLock(ctx context.Context, leaseID string) types.LockRequest {
	return types.LockRequest{
		Key: types.GenerateLockKey(ctx, types.LockScopeLease, map[string]interface{}{"lease_id": leaseID}),
	}
}

// checkProposalRights applies the role rules shared by create and counter
func (s *renewalService) checkProposalRights(access *LeaseAccess, proposal *dto.RenewalProposal) error {
	if access.Auth.IsTenant && proposal.HasTerms() {
		return ierr.NewError("tenants cannot propose renewal terms").
			WithHint("Tenants can ask for a renewal but the landlord proposes the terms").
			Mark(ierr.ErrPermissionDenied)
	}
	if access.Auth.IsLandlord && proposal.SetsPrice() {
		return s.authz().EnsureLandlordCanSetPrice(access.Auth)
	}
	return nil
}

// loadActionable loads an open request that is still inside its response window
func (s *renewalService) loadActionable(ctx context.Context, requestID string) (*renewal.RenewalRequest, *lease.Lease, *LeaseAccess, error) {
	req, err := s.RenewalRepo.Get(ctx, requestID)
	if err != nil {
		return nil, nil, nil, err
	}

	l, err := s.LeaseRepo.Get(ctx, req.LeaseID)
	if err != nil {
		return nil, nil, nil, err
	}

	access, err := s.authz().RequireParty(ctx, l, types.GetUserID(ctx))
	if err != nil {
		return nil, nil, nil, err
	}

	if err := ensureActionable(req, s.Clock.Now()); err != nil {
		return nil, nil, nil, err
	}
	return req, l, access, nil
}

func ensureActionable(req *renewal.RenewalRequest, now time.Time) error {
	if !req.IsOpen() {
		return ierr.NewErrorf("renewal request %s is %s", req.ID, req.Status).
			WithHintf("Renewal request is already %s", req.Status).
			WithReportableDetails(map[string]interface{}{
				"renewal_request_id": req.ID,
				"status":             req.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if req.IsExpired(now) {
		return ierr.NewErrorf("renewal request %s expired at %s", req.ID, req.ExpiresAt.Format(time.RFC3339)).
			WithHint("Renewal request has expired").
			WithReportableDetails(map[string]interface{}{
				"renewal_request_id": req.ID,
				"expires_at":         req.ExpiresAt,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

func (s *renewalService) Create(ctx context.Context, leaseID string, req *dto.CreateRenewalRequest) (*dto.RenewalRequestResponse, error) {
	if req == nil {
		req = &dto.CreateRenewalRequest{}
	}
	userID := types.GetUserID(ctx)

	l, err := s.LeaseRepo.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	access, err := s.authz().RequireParty(ctx, l, userID)
	if err != nil {
		return nil, err
	}
	role, _ := access.Auth.Role()

	if !l.IsActive() {
		return nil, ierr.NewErrorf("lease %s is %s", l.ID, l.Status).
			WithHint("Only an active lease can be renewed").
			WithReportableDetails(map[string]interface{}{"lease_id": l.ID, "status": l.Status}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.checkProposalRights(access, &req.RenewalProposal); err != nil {
		return nil, err
	}
	if err := req.Validate(l, s.Config.Renewal.MaxTermMonths); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	created := req.ToRenewalRequest(l.ID, userID, role, types.RenewalStatusPending, now, s.expiresAt(now))

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.DB.LockKey(txCtx, s.leaseLock(txCtx, l.ID)); err != nil {
			return err
		}

		open, err := s.RenewalRepo.GetOpenByLeaseID(txCtx, l.ID)
		if err != nil {
			return err
		}
		if open != nil {
			if !open.IsExpired(now) {
				return ierr.NewError("lease already has an open renewal request").
					WithHint("A renewal negotiation is already in progress for this lease").
					WithReportableDetails(map[string]interface{}{
						"lease_id":                l.ID,
						"open_renewal_request_id": open.ID,
					}).
					Mark(ierr.ErrAlreadyExists)
			}
			// the sweeper has not caught up yet; free the slot here
			if err := s.RenewalRepo.Transition(txCtx, open.ID, types.OpenRenewalStatuses, types.RenewalStatusExpired, "", now); err != nil {
				return err
			}
		}

		return s.RenewalRepo.Create(txCtx, created)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("created renewal request",
		"lease_id", l.ID,
		"renewal_request_id", created.ID,
		"initiator_role", role,
	)

	s.notify(ctx, access.Auth.CounterpartID(), types.NotificationKindRenewalRequested, l.ID, proposalPayload(created))

	return dto.NewRenewalRequestResponse(created), nil
}

func (s *renewalService) Counter(ctx context.Context, requestID string, req *dto.CounterRenewalRequest) (*dto.RenewalRequestResponse, error) {
	if req == nil {
		req = &dto.CounterRenewalRequest{}
	}
	userID := types.GetUserID(ctx)

	previous, l, access, err := s.loadActionable(ctx, requestID)
	if err != nil {
		return nil, err
	}
	role, _ := access.Auth.Role()

	if role == previous.InitiatorRole {
		return nil, ierr.NewErrorf("%s cannot counter a request initiated by the same side", role).
			WithHint("You cannot counter your own proposal").
			WithReportableDetails(map[string]interface{}{
				"renewal_request_id": previous.ID,
				"initiator_role":     previous.InitiatorRole,
			}).
			Mark(ierr.ErrPermissionDenied)
	}

	if err := s.checkProposalRights(access, &req.RenewalProposal); err != nil {
		return nil, err
	}
	if err := req.Validate(l, s.Config.Renewal.MaxTermMonths); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	counter := req.ToRenewalRequest(l.ID, userID, role, types.RenewalStatusCountered, now, s.expiresAt(now))
	counter.CounterOfID = lo.ToPtr(previous.ID)

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.DB.LockKey(txCtx, s.leaseLock(txCtx, l.ID)); err != nil {
			return err
		}

		// the answered request leaves the open slot to its counter
		if err := s.RenewalRepo.Transition(txCtx, previous.ID, types.OpenRenewalStatuses, types.RenewalStatusCancelled, userID, now); err != nil {
			return err
		}
		if err := s.RenewalRepo.Create(txCtx, counter); err != nil {
			return err
		}

		history, err := s.RenewalRepo.ListByLeaseID(txCtx, l.ID)
		if err != nil {
			return err
		}
		return renewal.ValidateChain(history, counter.ID)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("countered renewal request",
		"lease_id", l.ID,
		"renewal_request_id", counter.ID,
		"counter_of_id", previous.ID,
		"initiator_role", role,
	)

	s.notify(ctx, access.Auth.CounterpartID(), types.NotificationKindRenewalCountered, l.ID, proposalPayload(counter))

	return dto.NewRenewalRequestResponse(counter), nil
}

func (s *renewalService) Accept(ctx context.Context, requestID string) (*dto.AcceptRenewalResponse, error) {
	userID := types.GetUserID(ctx)

	req, l, access, err := s.loadActionable(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.authz().EnsureTenant(access.Auth, "accept a renewal"); err != nil {
		return nil, err
	}
	// the tenant accepts landlord terms, never its own proposal
	if req.InitiatorRole != types.PartyRoleLandlord {
		return nil, ierr.NewErrorf("renewal request %s was proposed by the %s", req.ID, req.InitiatorRole).
			WithHint("Only a renewal proposed by the landlord can be accepted by the tenant").
			WithReportableDetails(map[string]interface{}{
				"renewal_request_id": req.ID,
				"initiator_role":     req.InitiatorRole,
			}).
			Mark(ierr.ErrPermissionDenied)
	}

	now := s.Clock.Now()
	var successor *lease.Lease
	var cancelled int64

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.DB.LockKey(txCtx, s.leaseLock(txCtx, l.ID)); err != nil {
			return err
		}

		if err := s.RenewalRepo.Transition(txCtx, req.ID, types.OpenRenewalStatuses, types.RenewalStatusAccepted, userID, now); err != nil {
			return err
		}

		var err error
		cancelled, err = s.RenewalRepo.CancelOpenForLease(txCtx, l.ID, req.ID, userID, now)
		if err != nil {
			return err
		}

		// read again under the lock, a concurrent renewal may have expired it
		current, err := s.LeaseRepo.Get(txCtx, l.ID)
		if err != nil {
			return err
		}

		successor, err = NewLeaseLifecycleService(s.ServiceParams).MaterializeRenewal(txCtx, req, current)
		return err
	})
	if err != nil {
		return nil, err
	}

	req.Status = types.RenewalStatusAccepted
	req.DecidedByUserID = lo.ToPtr(userID)
	req.DecidedAt = lo.ToPtr(now)
	req.UpdatedAt = now

	s.Logger.WithContext(ctx).Infow("accepted renewal request",
		"lease_id", l.ID,
		"renewal_request_id", req.ID,
		"new_lease_id", successor.ID,
		"cancelled_siblings", cancelled,
	)

	s.SideEffects.Go(ctx, "generate_contract", func(ctx context.Context) error {
		return s.ContractGenerator.GenerateForLease(ctx, successor.ID)
	})
	s.notify(ctx, access.Auth.CounterpartID(), types.NotificationKindRenewalAccepted, l.ID, map[string]interface{}{
		"renewal_request_id": req.ID,
		"new_lease_id":       successor.ID,
		"start_date":         successor.StartDate,
		"end_date":           successor.EndDate,
		"rent_amount":        successor.RentAmount.String(),
	})

	return &dto.AcceptRenewalResponse{
		Request:  dto.NewRenewalRequestResponse(req),
		NewLease: dto.NewLeaseResponse(successor),
	}, nil
}

func (s *renewalService) Decline(ctx context.Context, requestID string) (*dto.RenewalRequestResponse, error) {
	userID := types.GetUserID(ctx)

	req, l, access, err := s.loadActionable(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if err := s.RenewalRepo.Transition(ctx, req.ID, types.OpenRenewalStatuses, types.RenewalStatusDeclined, userID, now); err != nil {
		return nil, err
	}

	req.Status = types.RenewalStatusDeclined
	req.DecidedByUserID = lo.ToPtr(userID)
	req.DecidedAt = lo.ToPtr(now)
	req.UpdatedAt = now

	s.Logger.WithContext(ctx).Infow("declined renewal request",
		"lease_id", l.ID,
		"renewal_request_id", req.ID,
	)

	s.notify(ctx, access.Auth.CounterpartID(), types.NotificationKindRenewalDeclined, l.ID, map[string]interface{}{
		"renewal_request_id": req.ID,
	})

	return dto.NewRenewalRequestResponse(req), nil
}

func (s *renewalService) ListForLease(ctx context.Context, leaseID string) (*dto.ListRenewalRequestsResponse, error) {
	l, err := s.LeaseRepo.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz().RequireParty(ctx, l, types.GetUserID(ctx)); err != nil {
		return nil, err
	}

	requests, err := s.RenewalRepo.ListByLeaseID(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	return &dto.ListRenewalRequestsResponse{
		Items: lo.Map(requests, func(r *renewal.RenewalRequest, _ int) *dto.RenewalRequestResponse {
			return dto.NewRenewalRequestResponse(r)
		}),
	}, nil
}

func (s *renewalService) GetWorkflowState(ctx context.Context, leaseID string) (*dto.WorkflowStateResponse, error) {
	l, err := s.LeaseRepo.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	access, err := s.authz().RequireParty(ctx, l, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	open, err := s.RenewalRepo.GetOpenByLeaseID(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	return &dto.WorkflowStateResponse{
		WorkflowState: renewal.DeriveWorkflowState(l, open, access.Auth, s.Clock.Now()),
	}, nil
}

func proposalPayload(r *renewal.RenewalRequest) map[string]interface{} {
	payload := map[string]interface{}{
		"renewal_request_id": r.ID,
		"initiator_role":     r.InitiatorRole,
		"expires_at":         r.ExpiresAt,
	}
	if r.CounterOfID != nil {
		payload["counter_of_id"] = *r.CounterOfID
	}
	if r.ProposedTermMonths != nil {
		payload["proposed_term_months"] = *r.ProposedTermMonths
	}
	if r.ProposedStartDate != nil {
		payload["proposed_start_date"] = *r.ProposedStartDate
	}
	if r.ProposedMonthlyRent != nil {
		payload["proposed_monthly_rent"] = r.ProposedMonthlyRent.String()
	}
	return payload
}
