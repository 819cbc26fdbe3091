package testutil

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

// InMemoryLeaseStore implements lease.Repository
type InMemoryLeaseStore struct {
	*InMemoryStore[*lease.Lease]
}

func NewInMemoryLeaseStore() *InMemoryLeaseStore {
	return &InMemoryLeaseStore{
		InMemoryStore: NewInMemoryStore[*lease.Lease](),
	}
}

func copyLease(l *lease.Lease) *lease.Lease {
	if l == nil {
		return nil
	}
	copied := *l
	copied.RentalRequestID = copyPtr(l.RentalRequestID)
	copied.ParentLeaseID = copyPtr(l.ParentLeaseID)
	copied.RenewalEffectiveDate = copyPtr(l.RenewalEffectiveDate)
	copied.TerminationNoticeByUserID = copyPtr(l.TerminationNoticeByUserID)
	copied.TerminationNoticeDate = copyPtr(l.TerminationNoticeDate)
	copied.TerminationReason = copyPtr(l.TerminationReason)
	copied.TerminationEffectiveDate = copyPtr(l.TerminationEffectiveDate)
	return &copied
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return lo.ToPtr(*v)
}

func (s *InMemoryLeaseStore) Create(ctx context.Context, l *lease.Lease) error {
	if l == nil {
		return ierr.NewError("lease cannot be nil").
			WithHint("Lease cannot be nil").
			Mark(ierr.ErrValidation)
	}

	return s.WithLock(func(items map[string]*lease.Lease) error {
		if _, ok := items[l.ID]; ok {
			return ierr.NewErrorf("lease %s already exists", l.ID).
				WithHint("Lease already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		if l.Status == types.LeaseStatusActive {
			for _, existing := range items {
				if existing.IsActive() && existing.TenantGroupID == l.TenantGroupID && existing.UnitID == l.UnitID {
					return ierr.NewError("an active lease already exists for this tenant group and unit").
						WithHint("The unit already has an active lease for this tenant group").
						WithReportableDetails(map[string]interface{}{
							"tenant_group_id": l.TenantGroupID,
							"unit_id":         l.UnitID,
						}).
						Mark(ierr.ErrAlreadyExists)
				}
			}
		}
		s.insert(items, l.ID, copyLease(l))
		return nil
	})
}

func (s *InMemoryLeaseStore) Get(ctx context.Context, id string) (*lease.Lease, error) {
	l, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("lease not found").
			WithHintf("Lease %s was not found", id).
			WithReportableDetails(map[string]interface{}{"lease_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyLease(l), nil
}

func (s *InMemoryLeaseStore) ListByParentID(ctx context.Context, parentLeaseID string) ([]*lease.Lease, error) {
	leases := s.InMemoryStore.List(ctx, func(l *lease.Lease) bool {
		return l.ParentLeaseID != nil && *l.ParentLeaseID == parentLeaseID
	})
	return lo.Map(leases, func(l *lease.Lease, _ int) *lease.Lease { return copyLease(l) }), nil
}

func (s *InMemoryLeaseStore) MarkExpired(ctx context.Context, id string, at time.Time) error {
	return s.WithLock(func(items map[string]*lease.Lease) error {
		current, ok := items[id]
		if !ok {
			return ierr.NewError("lease not found").
				WithHintf("Lease %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		if !current.IsActive() {
			return ierr.NewErrorf("lease %s is %s", id, current.Status).
				WithHint("Only active leases can expire").
				WithReportableDetails(map[string]interface{}{"lease_id": id, "status": current.Status}).
				Mark(ierr.ErrInvalidOperation)
		}
		updated := copyLease(current)
		updated.Status = types.LeaseStatusExpired
		updated.UpdatedAt = at.UTC()
		items[id] = updated
		return nil
	})
}

func (s *InMemoryLeaseStore) RecordTerminationNotice(ctx context.Context, l *lease.Lease) error {
	return s.WithLock(func(items map[string]*lease.Lease) error {
		current, ok := items[l.ID]
		if !ok {
			return ierr.NewError("lease not found").
				WithHintf("Lease %s was not found", l.ID).
				Mark(ierr.ErrNotFound)
		}
		if current.HasTerminationNotice() {
			return ierr.NewError("termination notice already recorded").
				WithHint("A termination notice was already given for this lease").
				Mark(ierr.ErrAlreadyExists)
		}
		if !current.IsActive() {
			return ierr.NewErrorf("lease %s is %s", l.ID, current.Status).
				WithHint("Only active leases can be terminated").
				Mark(ierr.ErrInvalidOperation)
		}
		updated := copyLease(current)
		updated.TerminationNoticeByUserID = copyPtr(l.TerminationNoticeByUserID)
		updated.TerminationNoticeDate = copyPtr(l.TerminationNoticeDate)
		updated.TerminationReason = copyPtr(l.TerminationReason)
		updated.TerminationEffectiveDate = copyPtr(l.TerminationEffectiveDate)
		updated.UpdatedAt = l.UpdatedAt
		items[l.ID] = updated
		return nil
	})
}

// InMemoryUnitStore implements lease.UnitRepository
type InMemoryUnitStore struct {
	*InMemoryStore[*lease.Unit]
}

func NewInMemoryUnitStore() *InMemoryUnitStore {
	return &InMemoryUnitStore{
		InMemoryStore: NewInMemoryStore[*lease.Unit](),
	}
}

func copyUnit(u *lease.Unit) *lease.Unit {
	if u == nil {
		return nil
	}
	copied := *u
	copied.Floor = copyPtr(u.Floor)
	copied.ClonedFromUnitID = copyPtr(u.ClonedFromUnitID)
	return &copied
}

func (s *InMemoryUnitStore) Create(ctx context.Context, u *lease.Unit) error {
	return s.WithLock(func(items map[string]*lease.Unit) error {
		if _, ok := items[u.ID]; ok {
			return ierr.NewErrorf("unit %s already exists", u.ID).
				WithHint("Unit already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		for _, existing := range items {
			if existing.PropertyID == u.PropertyID && existing.UnitNumber == u.UnitNumber {
				return ierr.NewErrorf("unit number %s already exists in property %s", u.UnitNumber, u.PropertyID).
					WithHint("Unit number is already taken in this property").
					Mark(ierr.ErrAlreadyExists)
			}
		}
		s.insert(items, u.ID, copyUnit(u))
		return nil
	})
}

func (s *InMemoryUnitStore) Get(ctx context.Context, id string) (*lease.Unit, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("unit not found").
			WithHintf("Unit %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyUnit(u), nil
}
