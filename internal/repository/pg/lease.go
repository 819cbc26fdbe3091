package pg

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

type leaseRepository struct {
	client postgres.IClient
	log    *logger.Logger
}

// NewLeaseRepository creates a gorm backed lease repository
func NewLeaseRepository(client postgres.IClient, log *logger.Logger) lease.Repository {
	return &leaseRepository{
		client: client,
		log:    log,
	}
}

func (r *leaseRepository) Create(ctx context.Context, l *lease.Lease) error {
	r.log.Debugw("creating lease",
		"lease_id", l.ID,
		"unit_id", l.UnitID,
		"parent_lease_id", lo.FromPtr(l.ParentLeaseID),
	)

	if err := r.client.Writer(ctx).Create(leaseToModel(l)).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("The tenant group already has an active lease for this unit").
				WithReportableDetails(map[string]interface{}{
					"lease_id":        l.ID,
					"tenant_group_id": l.TenantGroupID,
					"unit_id":         l.UnitID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create lease").
			WithReportableDetails(map[string]interface{}{"lease_id": l.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *leaseRepository) Get(ctx context.Context, id string) (*lease.Lease, error) {
	var m leaseModel
	if err := r.client.Reader(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ierr.WithError(err).
				WithHintf("Lease %s not found", id).
				WithReportableDetails(map[string]interface{}{"lease_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get lease").
			Mark(ierr.ErrDatabase)
	}
	return m.toDomain(), nil
}

func (r *leaseRepository) ListByParentID(ctx context.Context, parentLeaseID string) ([]*lease.Lease, error) {
	var models []leaseModel
	err := r.client.Reader(ctx).
		Where("parent_lease_id = ?", parentLeaseID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list renewed leases").
			Mark(ierr.ErrDatabase)
	}
	return lo.Map(models, func(m leaseModel, _ int) *lease.Lease { return m.toDomain() }), nil
}

func (r *leaseRepository) MarkExpired(ctx context.Context, id string, at time.Time) error {
	res := r.client.Writer(ctx).
		Model(&leaseModel{}).
		Where("id = ? AND status = ?", id, string(types.LeaseStatusActive)).
		Updates(map[string]interface{}{
			"status":     string(types.LeaseStatusExpired),
			"updated_at": at.UTC(),
		})
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to expire lease").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return r.explainMiss(ctx, id, "only active leases can be expired")
	}
	return nil
}

func (r *leaseRepository) RecordTerminationNotice(ctx context.Context, l *lease.Lease) error {
	res := r.client.Writer(ctx).
		Model(&leaseModel{}).
		Where("id = ? AND status = ? AND termination_notice_date IS NULL", l.ID, string(types.LeaseStatusActive)).
		Updates(map[string]interface{}{
			"termination_notice_by_user_id": l.TerminationNoticeByUserID,
			"termination_notice_date":       utcPtr(l.TerminationNoticeDate),
			"termination_reason":            l.TerminationReason,
			"termination_effective_date":    utcPtr(l.TerminationEffectiveDate),
			"updated_at":                    l.UpdatedAt.UTC(),
		})
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to record termination notice").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		current, err := r.Get(ctx, l.ID)
		if err != nil {
			return err
		}
		if current.HasTerminationNotice() {
			return ierr.NewErrorf("lease %s already has a termination notice", l.ID).
				WithHint("A termination notice was already given for this lease").
				WithReportableDetails(map[string]interface{}{
					"lease_id":                   l.ID,
					"termination_effective_date": current.TerminationEffectiveDate,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return r.explainMiss(ctx, l.ID, "only active leases can be terminated")
	}
	return nil
}

// explainMiss turns a conditional update that matched nothing into not found or invalid operation
func (r *leaseRepository) explainMiss(ctx context.Context, id, hint string) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return ierr.NewErrorf("lease %s is %s", id, current.Status).
		WithHintf("Lease is %s, %s", current.Status, hint).
		WithReportableDetails(map[string]interface{}{
			"lease_id": id,
			"status":   current.Status,
		}).
		Mark(ierr.ErrInvalidOperation)
}

type unitRepository struct {
	client postgres.IClient
	log    *logger.Logger
}

// NewUnitRepository creates a gorm backed unit repository
func NewUnitRepository(client postgres.IClient, log *logger.Logger) lease.UnitRepository {
	return &unitRepository{
		client: client,
		log:    log,
	}
}

func (r *unitRepository) Create(ctx context.Context, u *lease.Unit) error {
	if err := r.client.Writer(ctx).Create(unitToModel(u)).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Unit number %s already exists in this property", u.UnitNumber).
				WithReportableDetails(map[string]interface{}{
					"property_id": u.PropertyID,
					"unit_number": u.UnitNumber,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create unit").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *unitRepository) Get(ctx context.Context, id string) (*lease.Unit, error) {
	var m unitModel
	if err := r.client.Reader(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ierr.WithError(err).
				WithHintf("Unit %s not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get unit").
			Mark(ierr.ErrDatabase)
	}
	return m.toDomain(), nil
}
