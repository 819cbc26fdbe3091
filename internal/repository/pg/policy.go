package pg

import (
	"context"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/policy"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
)

type policyRepository struct {
	client postgres.IClient
	log    *logger.Logger
}

// NewPolicyRepository creates a repository reading termination policy overrides
func NewPolicyRepository(client postgres.IClient, log *logger.Logger) policy.Repository {
	return &policyRepository{
		client: client,
		log:    log,
	}
}

func (r *policyRepository) GetOverrides(ctx context.Context, organizationID, propertyID string) (*policy.Overrides, error) {
	db := r.client.Reader(ctx)
	overrides := &policy.Overrides{}

	if organizationID != "" {
		var orgs []organizationModel
		if err := db.Where("id = ?", organizationID).Limit(1).Find(&orgs).Error; err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to load organization termination policy").
				Mark(ierr.ErrDatabase)
		}
		if len(orgs) > 0 {
			overrides.Organization = &policy.OrganizationOverride{
				CutoffDay:     orgs[0].TerminationCutoffDay,
				MinNoticeDays: orgs[0].TerminationMinNoticeDays,
				Timezone:      orgs[0].TerminationTimezone,
			}
		}
	}

	if propertyID != "" {
		var props []propertyModel
		if err := db.Where("id = ?", propertyID).Limit(1).Find(&props).Error; err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to load property timezone").
				Mark(ierr.ErrDatabase)
		}
		if len(props) > 0 {
			overrides.PropertyTimezone = props[0].Timezone
		}
	}

	return overrides, nil
}
