package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/api/dto"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/policy"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

// LeaseLifecycleService turns negotiated outcomes into lease records
type LeaseLifecycleService interface {
	// MaterializeRenewal creates the successor lease of an accepted renewal on a
	// cloned unit and expires the current lease, all in one transaction
	MaterializeRenewal(ctx context.Context, accepted *renewal.RenewalRequest, current *lease.Lease) (*lease.Lease, error)

	// CreateTerminationRequest records a termination notice given by the caller
	CreateTerminationRequest(ctx context.Context, leaseID string, req *dto.CreateTerminationRequest) (*dto.TerminationResponse, error)

	// ExecuteTermination validates the proposed end date against the policy and
	// records the notice. The lease stays ACTIVE until the effective date.
	ExecuteTermination(ctx context.Context, l *lease.Lease, p policy.TerminationPolicy, req *dto.CreateTerminationRequest, auth party.AuthorizationContext) (*dto.TerminationResponse, error)
}

type leaseLifecycleService struct {
	ServiceParams
}

func NewLeaseLifecycleService(params ServiceParams) LeaseLifecycleService {
	return &leaseLifecycleService{ServiceParams: params}
}

// renewedUnitSuffix matches the suffix appended by previous renewals
var renewedUnitSuffix = regexp.MustCompile(`-R[0-9a-z]{8}$`)

// renewedUnitNumber derives a unit number unique within the property from the
// source number and the id of the clone. Earlier suffixes are replaced so
// repeated renewals do not grow the number.
func renewedUnitNumber(source, cloneID string) string {
	base := renewedUnitSuffix.ReplaceAllString(source, "")
	id := strings.ToLower(cloneID)
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	if base == "" {
		return "R" + id
	}
	return fmt.Sprintf("%s-R%s", base, id)
}

func (s *leaseLifecycleService) MaterializeRenewal(ctx context.Context, accepted *renewal.RenewalRequest, current *lease.Lease) (*lease.Lease, error) {
	if accepted == nil || current == nil {
		return nil, ierr.NewError("accepted request and current lease are required").
			WithHint("Renewal cannot be materialized").
			Mark(ierr.ErrValidation)
	}
	if accepted.LeaseID != current.ID {
		return nil, ierr.NewErrorf("renewal request %s belongs to lease %s, not %s", accepted.ID, accepted.LeaseID, current.ID).
			WithHint("Renewal request does not belong to this lease").
			Mark(ierr.ErrInternal)
	}

	log := s.Logger.WithContext(ctx).With("lease_id", current.ID, "renewal_request_id", accepted.ID)
	now := s.Clock.Now()
	terms := accepted.Terms(current, s.Config.Renewal.DefaultTermMonths)

	var successor *lease.Lease
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if !current.IsActive() {
			return ierr.NewErrorf("lease %s is %s", current.ID, current.Status).
				WithHint("Only an active lease can be renewed").
				WithReportableDetails(map[string]interface{}{"lease_id": current.ID, "status": current.Status}).
				Mark(ierr.ErrInvalidOperation)
		}

		unit, err := s.cloneUnit(txCtx, current, terms, now)
		if err != nil {
			return err
		}

		successor = &lease.Lease{
			ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEASE),
			Status:               types.LeaseStatusActive,
			StartDate:            terms.StartDate,
			EndDate:              terms.EndDate,
			RentAmount:           terms.MonthlyRent,
			DepositAmount:        current.DepositAmount,
			TenantGroupID:        current.TenantGroupID,
			UnitID:               unit.ID,
			PropertyID:           current.PropertyID,
			OfferID:              current.OfferID,
			RentalRequestID:      current.RentalRequestID,
			ParentLeaseID:        lo.ToPtr(current.ID),
			LeaseType:            types.LeaseTypeRenewal,
			RenewalEffectiveDate: lo.ToPtr(terms.StartDate),
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := s.LeaseRepo.Create(txCtx, successor); err != nil {
			return err
		}

		return s.LeaseRepo.MarkExpired(txCtx, current.ID, now)
	})
	if err != nil {
		log.Errorw("failed to materialize renewal", "error", err)
		return nil, err
	}

	log.Infow("materialized renewal",
		"new_lease_id", successor.ID,
		"new_unit_id", successor.UnitID,
		"start_date", successor.StartDate,
		"end_date", successor.EndDate,
		"rent_amount", successor.RentAmount.String(),
	)
	return successor, nil
}

// cloneUnit copies the physical attributes of the current unit. A lease whose
// unit cannot be found still renews onto a minimal unit of the same property.
func (s *leaseLifecycleService) cloneUnit(ctx context.Context, current *lease.Lease, terms renewal.Terms, now time.Time) (*lease.Unit, error) {
	clone := &lease.Unit{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_UNIT),
		PropertyID:       current.PropertyID,
		RentAmount:       terms.MonthlyRent,
		ClonedFromUnitID: lo.ToPtr(current.UnitID),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	source, err := s.UnitRepo.Get(ctx, current.UnitID)
	switch {
	case err == nil:
		clone.PropertyID = source.PropertyID
		clone.UnitNumber = renewedUnitNumber(source.UnitNumber, clone.ID)
		clone.Floor = source.Floor
		clone.Bedrooms = source.Bedrooms
		clone.Bathrooms = source.Bathrooms
		clone.Area = source.Area
		clone.RentAmount = source.RentAmount
	case ierr.IsNotFound(err):
		s.Logger.WithContext(ctx).Warnw("source unit missing, renewing onto a minimal unit",
			"lease_id", current.ID,
			"unit_id", current.UnitID,
		)
		clone.UnitNumber = renewedUnitNumber("", clone.ID)
	default:
		return nil, err
	}

	if err := s.UnitRepo.Create(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func (s *leaseLifecycleService) CreateTerminationRequest(ctx context.Context, leaseID string, req *dto.CreateTerminationRequest) (*dto.TerminationResponse, error) {
	if req == nil {
		req = &dto.CreateTerminationRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l, err := s.LeaseRepo.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	access, err := NewAuthorizationService(s.ServiceParams).RequireParty(ctx, l, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	p, err := NewTerminationPolicyService(s.ServiceParams).ResolvePolicy(ctx, l, access.Parties.OrganizationID)
	if err != nil {
		return nil, err
	}

	return s.ExecuteTermination(ctx, l, p, req, access.Auth)
}

func (s *leaseLifecycleService) ExecuteTermination(ctx context.Context, l *lease.Lease, p policy.TerminationPolicy, req *dto.CreateTerminationRequest, auth party.AuthorizationContext) (*dto.TerminationResponse, error) {
	if !l.IsActive() {
		return nil, ierr.NewErrorf("lease %s is %s", l.ID, l.Status).
			WithHint("Only an active lease can be terminated").
			WithReportableDetails(map[string]interface{}{"lease_id": l.ID, "status": l.Status}).
			Mark(ierr.ErrInvalidOperation)
	}
	if l.HasTerminationNotice() {
		return nil, ierr.NewErrorf("lease %s already has a termination notice", l.ID).
			WithHint("A termination notice was already given for this lease").
			WithReportableDetails(map[string]interface{}{
				"lease_id":                   l.ID,
				"termination_effective_date": l.TerminationEffectiveDate,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	now := s.Clock.Now()
	earliest, err := policy.ComputeEarliestEnd(now, p)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The termination policy of this lease is misconfigured").
			Mark(ierr.ErrInternal)
	}

	effective := earliest
	if req.ProposedEndDate != nil {
		effective, err = policy.CheckProposedEnd(*req.ProposedEndDate, earliest, p)
		if err != nil {
			return nil, err
		}
	}

	l.TerminationNoticeByUserID = lo.ToPtr(auth.UserID)
	l.TerminationNoticeDate = lo.ToPtr(now)
	l.TerminationEffectiveDate = lo.ToPtr(effective)
	if req.Reason != "" {
		l.TerminationReason = lo.ToPtr(req.Reason)
	}
	l.UpdatedAt = now

	if err := s.LeaseRepo.RecordTerminationNotice(ctx, l); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("recorded termination notice",
		"lease_id", l.ID,
		"effective_date", effective,
		"earliest_end_date", earliest,
		"policy_source", p.Source,
	)

	s.notify(ctx, auth.CounterpartID(), types.NotificationKindTerminationNoticeCreated, l.ID, map[string]interface{}{
		"given_by_user_id": auth.UserID,
		"effective_date":   effective,
		"reason":           req.Reason,
	})

	return &dto.TerminationResponse{
		Lease:           dto.NewLeaseResponse(l),
		EffectiveDate:   effective,
		EarliestEndDate: earliest,
		Explanation:     policy.Explain(p),
	}, nil
}
