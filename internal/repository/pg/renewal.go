package pg

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

type renewalRepository struct {
	client postgres.IClient
	log    *logger.Logger
}

// NewRenewalRepository creates a gorm backed renewal request repository
func NewRenewalRepository(client postgres.IClient, log *logger.Logger) renewal.Repository {
	return &renewalRepository{
		client: client,
		log:    log,
	}
}

func statusStrings(statuses []types.RenewalStatus) []string {
	return lo.Map(statuses, func(s types.RenewalStatus, _ int) string { return string(s) })
}

func (r *renewalRepository) Create(ctx context.Context, req *renewal.RenewalRequest) error {
	r.log.Debugw("creating renewal request",
		"renewal_request_id", req.ID,
		"lease_id", req.LeaseID,
		"status", req.Status,
	)

	if err := r.client.Writer(ctx).Create(renewalToModel(req)).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An open renewal request already exists for this lease").
				WithReportableDetails(map[string]interface{}{
					"lease_id": req.LeaseID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create renewal request").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *renewalRepository) Get(ctx context.Context, id string) (*renewal.RenewalRequest, error) {
	var m renewalRequestModel
	if err := r.client.Reader(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ierr.WithError(err).
				WithHintf("Renewal request %s not found", id).
				WithReportableDetails(map[string]interface{}{"renewal_request_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get renewal request").
			Mark(ierr.ErrDatabase)
	}
	return m.toDomain(), nil
}

func (r *renewalRepository) ListByLeaseID(ctx context.Context, leaseID string) ([]*renewal.RenewalRequest, error) {
	var models []renewalRequestModel
	err := r.client.Reader(ctx).
		Where("lease_id = ?", leaseID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list renewal requests").
			Mark(ierr.ErrDatabase)
	}
	return lo.Map(models, func(m renewalRequestModel, _ int) *renewal.RenewalRequest { return m.toDomain() }), nil
}

func (r *renewalRepository) GetOpenByLeaseID(ctx context.Context, leaseID string) (*renewal.RenewalRequest, error) {
	var models []renewalRequestModel
	err := r.client.Reader(ctx).
		Where("lease_id = ? AND status IN ?", leaseID, statusStrings(types.OpenRenewalStatuses)).
		Order("created_at DESC").
		Limit(1).
		Find(&models).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get open renewal request").
			Mark(ierr.ErrDatabase)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].toDomain(), nil
}

func (r *renewalRepository) Transition(
	ctx context.Context,
	id string,
	from []types.RenewalStatus,
	to types.RenewalStatus,
	decidedBy string,
	at time.Time,
) error {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": at.UTC(),
	}
	if decidedBy != "" {
		updates["decided_by_user_id"] = decidedBy
		updates["decided_at"] = at.UTC()
	}

	res := r.client.Writer(ctx).
		Model(&renewalRequestModel{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(updates)
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update renewal request").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return ierr.NewErrorf("renewal request %s is %s, cannot move to %s", id, current.Status, to).
		WithHintf("Renewal request is already %s", current.Status).
		WithReportableDetails(map[string]interface{}{
			"renewal_request_id": id,
			"status":             current.Status,
			"target_status":      to,
		}).
		Mark(ierr.ErrInvalidOperation)
}

func (r *renewalRepository) CancelOpenForLease(ctx context.Context, leaseID, exceptID, decidedBy string, at time.Time) (int64, error) {
	res := r.client.Writer(ctx).
		Model(&renewalRequestModel{}).
		Where("lease_id = ? AND id <> ? AND status IN ?", leaseID, exceptID, statusStrings(types.OpenRenewalStatuses)).
		Updates(map[string]interface{}{
			"status":             string(types.RenewalStatusCancelled),
			"decided_by_user_id": decidedBy,
			"decided_at":         at.UTC(),
			"updated_at":         at.UTC(),
		})
	if res.Error != nil {
		return 0, ierr.WithError(res.Error).
			WithHint("Failed to cancel open renewal requests").
			Mark(ierr.ErrDatabase)
	}
	return res.RowsAffected, nil
}

func (r *renewalRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.client.Writer(ctx).
		Model(&renewalRequestModel{}).
		Where("status IN ? AND expires_at < ?", statusStrings(types.OpenRenewalStatuses), now.UTC()).
		Updates(map[string]interface{}{
			"status":     string(types.RenewalStatusExpired),
			"updated_at": now.UTC(),
		})
	if res.Error != nil {
		return 0, ierr.WithError(res.Error).
			WithHint("Failed to expire renewal requests").
			Mark(ierr.ErrDatabase)
	}
	return res.RowsAffected, nil
}
