package pg

import (
	"context"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"gorm.io/gorm"
)

// partialIndexes back the invariants that must hold under concurrent writers
var partialIndexes = []struct {
	name string
	stmt string
}{
	{
		name: "idx_renewal_requests_open_per_lease",
		stmt: `CREATE UNIQUE INDEX IF NOT EXISTS idx_renewal_requests_open_per_lease
			ON renewal_requests (lease_id) WHERE status IN ('PENDING', 'COUNTERED')`,
	},
	{
		name: "idx_leases_active_per_group_unit",
		stmt: `CREATE UNIQUE INDEX IF NOT EXISTS idx_leases_active_per_group_unit
			ON leases (tenant_group_id, unit_id) WHERE status = 'ACTIVE'`,
	},
}

// Migrate creates or updates every table the core reads or writes
func Migrate(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	db = db.WithContext(ctx)

	err := db.AutoMigrate(
		&leaseModel{},
		&unitModel{},
		&renewalRequestModel{},
		&tenantGroupModel{},
		&tenantGroupMemberModel{},
		&offerModel{},
		&organizationModel{},
		&organizationMemberModel{},
		&propertyModel{},
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to migrate database schema").
			Mark(ierr.ErrDatabase)
	}

	for _, idx := range partialIndexes {
		if err := db.Exec(idx.stmt).Error; err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to create index %s", idx.name).
				Mark(ierr.ErrDatabase)
		}
		log.Debugw("ensured index", "index", idx.name)
	}

	log.Infow("database schema migrated")
	return nil
}
