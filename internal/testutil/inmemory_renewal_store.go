package testutil

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

// InMemoryRenewalStore implements renewal.Repository and enforces the single
// open request per lease like the partial unique index does
type InMemoryRenewalStore struct {
	*InMemoryStore[*renewal.RenewalRequest]
}

func NewInMemoryRenewalStore() *InMemoryRenewalStore {
	return &InMemoryRenewalStore{
		InMemoryStore: NewInMemoryStore[*renewal.RenewalRequest](),
	}
}

func copyRenewal(r *renewal.RenewalRequest) *renewal.RenewalRequest {
	if r == nil {
		return nil
	}
	copied := *r
	copied.ProposedTermMonths = copyPtr(r.ProposedTermMonths)
	copied.ProposedStartDate = copyPtr(r.ProposedStartDate)
	copied.ProposedMonthlyRent = copyPtr(r.ProposedMonthlyRent)
	copied.CounterOfID = copyPtr(r.CounterOfID)
	copied.DecidedByUserID = copyPtr(r.DecidedByUserID)
	copied.DecidedAt = copyPtr(r.DecidedAt)
	copied.Note = copyPtr(r.Note)
	return &copied
}

func (s *InMemoryRenewalStore) Create(ctx context.Context, req *renewal.RenewalRequest) error {
	if req == nil {
		return ierr.NewError("renewal request cannot be nil").
			WithHint("Renewal request cannot be nil").
			Mark(ierr.ErrValidation)
	}

	return s.WithLock(func(items map[string]*renewal.RenewalRequest) error {
		if _, ok := items[req.ID]; ok {
			return ierr.NewErrorf("renewal request %s already exists", req.ID).
				WithHint("Renewal request already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		if req.IsOpen() {
			for _, existing := range items {
				if existing.LeaseID == req.LeaseID && existing.IsOpen() {
					return ierr.NewError("lease already has an open renewal request").
						WithHint("A renewal negotiation is already in progress for this lease").
						WithReportableDetails(map[string]interface{}{
							"lease_id":                req.LeaseID,
							"open_renewal_request_id": existing.ID,
						}).
						Mark(ierr.ErrAlreadyExists)
				}
			}
		}
		s.insert(items, req.ID, copyRenewal(req))
		return nil
	})
}

func (s *InMemoryRenewalStore) Get(ctx context.Context, id string) (*renewal.RenewalRequest, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("renewal request not found").
			WithHintf("Renewal request %s was not found", id).
			WithReportableDetails(map[string]interface{}{"renewal_request_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyRenewal(r), nil
}

func (s *InMemoryRenewalStore) ListByLeaseID(ctx context.Context, leaseID string) ([]*renewal.RenewalRequest, error) {
	items := s.InMemoryStore.List(ctx, func(r *renewal.RenewalRequest) bool {
		return r.LeaseID == leaseID
	})
	return lo.Map(items, func(r *renewal.RenewalRequest, _ int) *renewal.RenewalRequest { return copyRenewal(r) }), nil
}

func (s *InMemoryRenewalStore) GetOpenByLeaseID(ctx context.Context, leaseID string) (*renewal.RenewalRequest, error) {
	items := s.InMemoryStore.List(ctx, func(r *renewal.RenewalRequest) bool {
		return r.LeaseID == leaseID && r.IsOpen()
	})
	if len(items) == 0 {
		return nil, nil
	}
	return copyRenewal(items[0]), nil
}

func (s *InMemoryRenewalStore) Transition(ctx context.Context, id string, from []types.RenewalStatus, to types.RenewalStatus, decidedBy string, at time.Time) error {
	return s.WithLock(func(items map[string]*renewal.RenewalRequest) error {
		current, ok := items[id]
		if !ok {
			return ierr.NewError("renewal request not found").
				WithHintf("Renewal request %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		if !lo.Contains(from, current.Status) {
			return ierr.NewErrorf("renewal request %s is %s", id, current.Status).
				WithHintf("Renewal request is already %s", current.Status).
				WithReportableDetails(map[string]interface{}{
					"renewal_request_id": id,
					"status":             current.Status,
					"target_status":      to,
				}).
				Mark(ierr.ErrInvalidOperation)
		}
		items[id] = decided(current, to, decidedBy, at)
		return nil
	})
}

func (s *InMemoryRenewalStore) CancelOpenForLease(ctx context.Context, leaseID, exceptID, decidedBy string, at time.Time) (int64, error) {
	return s.Mutate(func(r *renewal.RenewalRequest) (*renewal.RenewalRequest, bool) {
		if r.LeaseID != leaseID || r.ID == exceptID || !r.IsOpen() {
			return r, false
		}
		return decided(r, types.RenewalStatusCancelled, decidedBy, at), true
	}), nil
}

func (s *InMemoryRenewalStore) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	return s.Mutate(func(r *renewal.RenewalRequest) (*renewal.RenewalRequest, bool) {
		if !r.IsOpen() || !now.After(r.ExpiresAt) {
			return r, false
		}
		expired := copyRenewal(r)
		expired.Status = types.RenewalStatusExpired
		expired.UpdatedAt = now.UTC()
		return expired, true
	}), nil
}

func decided(r *renewal.RenewalRequest, to types.RenewalStatus, decidedBy string, at time.Time) *renewal.RenewalRequest {
	updated := copyRenewal(r)
	updated.Status = to
	updated.UpdatedAt = at.UTC()
	if decidedBy != "" {
		updated.DecidedByUserID = lo.ToPtr(decidedBy)
		updated.DecidedAt = lo.ToPtr(at.UTC())
	}
	return updated
}
