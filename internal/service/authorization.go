package service

import (
	"context"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
)

// LeaseAccess is the caller's resolved role on a lease together with the membership graph
type LeaseAccess struct {
	Auth    party.AuthorizationContext
	Parties *party.LeaseParties
}

// AuthorizationService is the single place deciding who may act on a lease
type AuthorizationService interface {
	// Resolve loads the parties of the lease and derives the caller's role
	Resolve(ctx context.Context, l *lease.Lease, userID string) (*LeaseAccess, error)

	// RequireParty is Resolve but fails with permission denied for outsiders
	RequireParty(ctx context.Context, l *lease.Lease, userID string) (*LeaseAccess, error)

	// EnsureLandlordCanSetPrice requires landlord side OWNER authority
	EnsureLandlordCanSetPrice(auth party.AuthorizationContext) error

	// EnsureTenant requires the primary tenant
	EnsureTenant(auth party.AuthorizationContext, action string) error
}

type authorizationService struct {
	ServiceParams
}

func NewAuthorizationService(params ServiceParams) AuthorizationService {
	return &authorizationService{ServiceParams: params}
}

func (s *authorizationService) Resolve(ctx context.Context, l *lease.Lease, userID string) (*LeaseAccess, error) {
	parties, err := s.PartyRepo.GetLeaseParties(ctx, l.ID, l.TenantGroupID, l.OfferID)
	if err != nil {
		return nil, err
	}
	return &LeaseAccess{
		Auth:    party.Resolve(parties, userID),
		Parties: parties,
	}, nil
}

func (s *authorizationService) RequireParty(ctx context.Context, l *lease.Lease, userID string) (*LeaseAccess, error) {
	if userID == "" {
		return nil, ierr.NewError("no caller identity").
			WithHint("You must be signed in to act on a lease").
			Mark(ierr.ErrPermissionDenied)
	}

	access, err := s.Resolve(ctx, l, userID)
	if err != nil {
		return nil, err
	}
	if !access.Auth.IsParty() {
		s.Logger.WithContext(ctx).Infow("rejected caller without role on lease",
			"lease_id", l.ID,
			"user_id", userID,
		)
		return nil, ierr.NewErrorf("user %s is neither tenant nor landlord of lease %s", userID, l.ID).
			WithHint("You are not a party to this lease").
			WithReportableDetails(map[string]interface{}{"lease_id": l.ID}).
			Mark(ierr.ErrPermissionDenied)
	}
	return access, nil
}

func (s *authorizationService) EnsureLandlordCanSetPrice(auth party.AuthorizationContext) error {
	if auth.IsLandlord && auth.IsOwner {
		return nil
	}
	return ierr.NewErrorf("user %s cannot set rent", auth.UserID).
		WithHint("Only the property owner can propose a rent").
		Mark(ierr.ErrPermissionDenied)
}

func (s *authorizationService) EnsureTenant(auth party.AuthorizationContext, action string) error {
	if auth.IsTenant {
		return nil
	}
	return ierr.NewErrorf("user %s is not the tenant and cannot %s", auth.UserID, action).
		WithHintf("Only the tenant can %s", action).
		Mark(ierr.ErrPermissionDenied)
}
