package service

import (
	"context"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/api/dto"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/cache"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/policy"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

const terminationPolicyCachePrefix = "termination_policy"

// TerminationPolicyService resolves the termination policy that governs a lease
type TerminationPolicyService interface {
	// ResolvePolicy merges organization and property overrides over the configured defaults
	ResolvePolicy(ctx context.Context, l *lease.Lease, organizationID string) (policy.TerminationPolicy, error)

	// PreviewTerminationPolicy shows a lease party the policy and the earliest end date as of now
	PreviewTerminationPolicy(ctx context.Context, leaseID string) (*dto.TerminationPolicyResponse, error)

	// InvalidateOrganization drops cached policies after an organization changed its override
	InvalidateOrganization(ctx context.Context, organizationID string)
}

type terminationPolicyService struct {
	ServiceParams
}

func NewTerminationPolicyService(params ServiceParams) TerminationPolicyService {
	return &terminationPolicyService{ServiceParams: params}
}

func (s *terminationPolicyService) defaults() policy.TerminationPolicy {
	return policy.TerminationPolicy{
		CutoffDay:     s.Config.Termination.DefaultCutoffDay,
		MinNoticeDays: s.Config.Termination.DefaultMinNoticeDays,
		Timezone:      types.ResolveTimezone(s.Config.Termination.DefaultTimezone),
		Source:        policy.SourceDefault,
	}
}

func (s *terminationPolicyService) ResolvePolicy(ctx context.Context, l *lease.Lease, organizationID string) (policy.TerminationPolicy, error) {
	key := cache.GenerateKey(terminationPolicyCachePrefix, organizationID, l.PropertyID)
	if value, ok := s.Cache.Get(ctx, key); ok {
		if cached, ok := cache.UnmarshalCacheValue[policy.TerminationPolicy](value); ok {
			return *cached, nil
		}
	}

	overrides, err := s.PolicyRepo.GetOverrides(ctx, organizationID, l.PropertyID)
	if err != nil {
		return policy.TerminationPolicy{}, err
	}

	resolution := policy.Resolve(s.defaults(), overrides)
	if len(resolution.Skipped) > 0 {
		s.Logger.WithContext(ctx).Warnw("ignored invalid termination policy overrides",
			"lease_id", l.ID,
			"organization_id", organizationID,
			"property_id", l.PropertyID,
			"skipped", resolution.Skipped,
		)
	}

	resolved := resolution.Policy
	s.Cache.Set(ctx, key, &resolved, s.Config.Termination.PolicyCacheTTL)
	return resolved, nil
}

func (s *terminationPolicyService) PreviewTerminationPolicy(ctx context.Context, leaseID string) (*dto.TerminationPolicyResponse, error) {
	l, err := s.LeaseRepo.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	access, err := NewAuthorizationService(s.ServiceParams).RequireParty(ctx, l, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	p, err := s.ResolvePolicy(ctx, l, access.Parties.OrganizationID)
	if err != nil {
		return nil, err
	}

	earliest, err := policy.ComputeEarliestEnd(s.Clock.Now(), p)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The termination policy of this lease is misconfigured").
			Mark(ierr.ErrInternal)
	}

	loc, err := p.Location()
	if err != nil {
		return nil, err
	}

	return &dto.TerminationPolicyResponse{
		Policy:          p,
		EarliestEndDate: earliest,
		EarliestEndDay:  earliest.In(loc).Format("2006-01-02"),
		Explanation:     policy.Explain(p),
	}, nil
}

func (s *terminationPolicyService) InvalidateOrganization(ctx context.Context, organizationID string) {
	s.Cache.DeleteByPrefix(ctx, cache.GenerateKey(terminationPolicyCachePrefix, organizationID)+":")
}
